package dissect

import (
	"encoding/binary"
	"sort"
)

type jpegFragment struct {
	en      uint16
	z       uint32
	payload []byte
}

// extractJPEG walks JPEG marker segments, collecting every APP11 (0xFFEB)
// segment whose box-instance header reads "JP" (ISO/IEC 19566-5 C2PA box
// framing: CI[2] "JP" | En[2] | Z[4] | payload). Fragments are sorted by
// (En, Z); the lowest En present is the target instance, and its
// payloads are concatenated in Z order. This resolves the case where a
// JPEG carries more than one App11 box instance (e.g. a thumbnail and the
// C2PA store): the lowest En wins.
func extractJPEG(data []byte) []byte {
	offset := 2 // skip SOI
	var fragments []jpegFragment

	for offset+1 < len(data) {
		if data[offset] != 0xFF {
			offset++
			continue
		}
		marker := data[offset+1]
		if marker == 0xFF { // padding: re-scan starting at the second 0xFF
			offset++
			continue
		}
		if marker == 0x00 { // stuffed byte, not a marker
			offset += 2
			continue
		}
		if marker == 0xD8 || marker == 0xD9 || (marker >= 0xD0 && marker <= 0xD7) {
			offset += 2
			continue
		}
		if marker == 0xDA { // start of scan: no more markers of interest
			break
		}
		if offset+4 > len(data) {
			break
		}
		segLen := int(binary.BigEndian.Uint16(data[offset+2 : offset+4]))
		segStart := offset + 4
		segEnd := offset + 2 + segLen
		if segEnd > len(data) || segLen < 2 {
			break
		}

		if marker == 0xEB && segEnd-segStart >= 8 {
			seg := data[segStart:segEnd]
			if string(seg[0:2]) == "JP" {
				en := binary.BigEndian.Uint16(seg[2:4])
				z := binary.BigEndian.Uint32(seg[4:8])
				fragments = append(fragments, jpegFragment{en: en, z: z, payload: seg[8:]})
			}
		}

		offset = segEnd
	}

	if len(fragments) == 0 {
		return nil
	}

	sort.Slice(fragments, func(i, j int) bool {
		if fragments[i].en != fragments[j].en {
			return fragments[i].en < fragments[j].en
		}
		return fragments[i].z < fragments[j].z
	})

	targetEn := fragments[0].en
	var out []byte
	for _, f := range fragments {
		if f.en == targetEn {
			out = append(out, f.payload...)
		}
	}
	return out
}
