package dissect

import "encoding/binary"

// c2paUUID is the extension UUID (ISO 19566-5) marking a BMFF "uuid" box
// as a C2PA manifest store.
var c2paUUID = [16]byte{0xd8, 0xfe, 0xc3, 0xd6, 0x1b, 0x0e, 0x48, 0x3c, 0x92, 0x97, 0x58, 0x28, 0x87, 0x7e, 0xc4, 0x81}

// extractBMFF walks the top-level ISO-BMFF box tree looking for a "uuid"
// box carrying c2paUUID. Its content is a FullBox header (version+flags,
// 4 bytes), a NUL-terminated purpose string ("manifest" or "original"),
// and an 8-byte auxiliary offset/length field, followed by the JUMBF
// payload itself.
func extractBMFF(data []byte) []byte {
	offset := 0
	for offset+8 <= len(data) {
		size := uint64(binary.BigEndian.Uint32(data[offset : offset+4]))
		boxType := string(data[offset+4 : offset+8])
		headerLen := 8

		if size == 1 {
			if offset+16 > len(data) {
				break
			}
			size = binary.BigEndian.Uint64(data[offset+8 : offset+16])
			headerLen = 16
		} else if size == 0 {
			size = uint64(len(data) - offset)
		}

		if size < uint64(headerLen) {
			break
		}
		end := offset + int(size)
		if end > len(data) || end <= offset {
			break
		}
		content := data[offset+headerLen : end]

		if boxType == "uuid" && len(content) >= 16 && [16]byte(content[:16]) == c2paUUID {
			if payload := stripUUIDExtensionHeader(content[16:]); payload != nil {
				return payload
			}
		}

		offset = end
	}
	return nil
}

func stripUUIDExtensionHeader(data []byte) []byte {
	if len(data) < 4 {
		return nil
	}
	pos := 4 // version + flags
	nulAt := -1
	for i := pos; i < len(data); i++ {
		if data[i] == 0 {
			nulAt = i
			break
		}
	}
	if nulAt < 0 {
		return nil
	}
	purpose := string(data[pos:nulAt])
	if purpose != "manifest" && purpose != "original" {
		return nil
	}
	pos = nulAt + 1 + 8 // NUL + 8-byte aux offset/length
	if pos > len(data) {
		return nil
	}
	return data[pos:]
}
