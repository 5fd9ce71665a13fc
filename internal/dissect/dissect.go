// Copyright 2025 Certen Protocol
//
// Package dissect pulls the raw JUMBF superbox out of a media container.
// It never interprets the JUMBF bytes themselves (that is internal/jumbf's
// job) and never fails loudly: a container with no recognizable C2PA
// payload simply yields nil, which the pipeline treats as "unsigned".
package dissect

import "bytes"

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// Extract dispatches on the container's magic bytes and returns the
// concatenated JUMBF bytes, or nil if the container carries no C2PA
// payload recognizable by this dissector.
func Extract(data []byte) []byte {
	switch {
	case bytes.HasPrefix(data, pngSignature):
		return extractPNG(data)
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8:
		return extractJPEG(data)
	case len(data) >= 12 && string(data[4:8]) == "ftyp":
		return extractBMFF(data)
	default:
		return nil
	}
}
