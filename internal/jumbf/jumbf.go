// Copyright 2025 Certen Protocol
//
// Package jumbf walks the JUMBF (ISO/IEC 19566-5) box tree produced by
// internal/dissect and pulls out the active manifest's claim CBOR and
// COSE_Sign1 envelope, plus every assertion across all manifests
// (ingredients included). It never verifies anything; malformed input
// simply yields fewer results, which the pipeline treats as "unsigned".
package jumbf

import (
	"encoding/binary"
	"errors"
	"strings"

	"github.com/certen/c2pa-verifier/internal/evidence"
)

// ErrTruncatedBox is returned internally when a box header or declared
// length runs past the end of the buffer; callers that only want a
// best-effort partial result should treat it as "stop parsing here"
// rather than a hard failure.
var ErrTruncatedBox = errors.New("jumbf: truncated box")

// Box is one parsed JUMBF box at a single nesting level: its 4-character
// type code and its content (everything after the header).
type Box struct {
	Type    string
	Content []byte
}

// ParseBoxes parses a flat sequence of boxes from data. Box framing is
// size(4 BE) | type(4) | [ext-size(8 BE) if size==1] | content, where
// size==0 means "to end of buffer".
func ParseBoxes(data []byte) ([]Box, error) {
	var boxes []Box
	offset := 0
	for offset+8 <= len(data) {
		size := uint64(binary.BigEndian.Uint32(data[offset : offset+4]))
		boxType := string(data[offset+4 : offset+8])
		headerLen := 8

		if size == 1 {
			if offset+16 > len(data) {
				return boxes, ErrTruncatedBox
			}
			size = binary.BigEndian.Uint64(data[offset+8 : offset+16])
			headerLen = 16
		} else if size == 0 {
			size = uint64(len(data) - offset)
		}

		end := offset + int(size)
		if size < uint64(headerLen) || end > len(data) {
			return boxes, ErrTruncatedBox
		}

		boxes = append(boxes, Box{Type: boxType, Content: data[offset+headerLen : end]})
		offset = end
	}
	return boxes, nil
}

// Description is a parsed jumd description box: a content-type UUID plus
// an optional human-readable label.
type Description struct {
	UUID     [16]byte
	HasLabel bool
	Label    string
}

// ParseDescription parses a jumd box's content: 16-byte UUID, 1-byte
// toggle bitmap (bit 0x02 = label present), then a NUL-terminated label.
func ParseDescription(content []byte) (Description, error) {
	var d Description
	if len(content) < 17 {
		return d, ErrTruncatedBox
	}
	copy(d.UUID[:], content[:16])
	toggles := content[16]
	d.HasLabel = toggles&0x02 != 0
	if d.HasLabel {
		nul := indexByte(content[17:], 0)
		if nul < 0 {
			return d, ErrTruncatedBox
		}
		d.Label = string(content[17 : 17+nul])
	}
	return d, nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// labelAndContent parses a superbox's content as [jumd description][one
// content box] and returns the description's label, the content box's
// type, and its raw bytes.
func labelAndContent(superboxContent []byte) (label, contentType string, content []byte, err error) {
	children, err := ParseBoxes(superboxContent)
	if err != nil && len(children) == 0 {
		return "", "", nil, err
	}
	if len(children) == 0 || children[0].Type != "jumd" {
		return "", "", nil, ErrTruncatedBox
	}
	desc, err := ParseDescription(children[0].Content)
	if err != nil {
		return "", "", nil, err
	}
	if len(children) > 1 {
		contentType = children[1].Type
		content = children[1].Content
	}
	return desc.Label, contentType, content, nil
}

// extractEmbeddedContent undoes the bfdb wrapping applied to raw binary
// data boxes (e.g. the COSE_Sign1 bytes held by a signature box).
func extractEmbeddedContent(contentType string, content []byte) []byte {
	if contentType != "bfdb" {
		return content
	}
	return skipBFDBHeader(content)
}

// skipBFDBHeader strips a bfdb box's 1-byte toggle bitmap and the
// optional NUL-terminated media-type (bit 0x01) and filename (bit 0x02)
// strings it gates, returning the remaining raw payload.
func skipBFDBHeader(data []byte) []byte {
	if len(data) < 1 {
		return data
	}
	toggle := data[0]
	pos := 1
	if toggle&0x01 != 0 {
		pos = skipNulString(data, pos)
	}
	if toggle&0x02 != 0 {
		pos = skipNulString(data, pos)
	}
	if pos > len(data) {
		return nil
	}
	return data[pos:]
}

func skipNulString(data []byte, pos int) int {
	if pos > len(data) {
		return pos
	}
	nul := indexByte(data[pos:], 0)
	if nul < 0 {
		return len(data)
	}
	return pos + nul + 1
}

// ManifestParts is the result of walking a JUMBF manifest store: the
// active manifest's claim CBOR and COSE_Sign1 bytes, plus assertions
// gathered from every manifest (active manifest and ingredients alike).
type ManifestParts struct {
	ClaimCBOR      []byte
	CoseSign1Bytes []byte
	Assertions     []evidence.AssertionBox
}

// ExtractManifestParts walks a top-level JUMBF manifest store (as
// produced by internal/dissect) and returns its active manifest's claim
// and signature, plus every assertion across all manifests. The last
// "jumb" child of the store is the active manifest; the rest are
// ingredients, contributing assertions only.
func ExtractManifestParts(raw []byte) (*ManifestParts, error) {
	topBoxes, err := ParseBoxes(raw)
	if err != nil && len(topBoxes) == 0 {
		return nil, err
	}
	if len(topBoxes) == 0 || topBoxes[0].Type != "jumb" {
		return nil, errors.New("jumbf: no manifest store box")
	}
	store := topBoxes[0]

	storeChildren, err := ParseBoxes(store.Content)
	if err != nil && len(storeChildren) == 0 {
		return nil, err
	}
	if len(storeChildren) < 1 {
		return nil, errors.New("jumbf: empty manifest store")
	}

	var manifests []Box
	for _, c := range storeChildren[1:] {
		if c.Type == "jumb" {
			manifests = append(manifests, c)
		}
	}
	if len(manifests) == 0 {
		return nil, errors.New("jumbf: manifest store has no manifests")
	}

	parts := &ManifestParts{}
	for _, m := range manifests {
		parts.Assertions = append(parts.Assertions, collectAssertions(m)...)
	}

	active := manifests[len(manifests)-1]
	// A parse error still leaves a usable partial box list; only an
	// empty one (including a manifest box with no content at all) has
	// nothing to scan.
	activeChildren, _ := ParseBoxes(active.Content)
	if len(activeChildren) < 1 {
		return parts, nil
	}
	for _, c := range activeChildren[1:] {
		if c.Type != "jumb" {
			continue
		}
		label, contentType, content, lerr := labelAndContent(c.Content)
		if lerr != nil {
			continue
		}
		switch {
		case strings.HasPrefix(label, "c2pa.claim"):
			parts.ClaimCBOR = extractEmbeddedContent(contentType, content)
		case strings.HasPrefix(label, "c2pa.signature"):
			parts.CoseSign1Bytes = extractEmbeddedContent(contentType, content)
		}
	}

	return parts, nil
}

// collectAssertions finds the "c2pa.assertions" store within a manifest
// box (active manifest or ingredient alike) and returns every assertion
// it contains as a (label, payload) pair.
func collectAssertions(manifest Box) []evidence.AssertionBox {
	children, _ := ParseBoxes(manifest.Content)
	if len(children) < 1 {
		return nil
	}

	var out []evidence.AssertionBox
	for _, c := range children[1:] {
		if c.Type != "jumb" {
			continue
		}
		label, _, _, lerr := labelAndContent(c.Content)
		if lerr != nil || !strings.HasPrefix(label, "c2pa.assertions") {
			continue
		}

		grandchildren, _ := ParseBoxes(c.Content)
		if len(grandchildren) < 1 {
			continue
		}
		for _, a := range grandchildren[1:] {
			if a.Type != "jumb" {
				continue
			}
			aLabel, aType, aContent, aerr := labelAndContent(a.Content)
			if aerr != nil {
				continue
			}
			out = append(out, evidence.AssertionBox{
				Label:   aLabel,
				Payload: extractEmbeddedContent(aType, aContent),
			})
		}
	}
	return out
}
