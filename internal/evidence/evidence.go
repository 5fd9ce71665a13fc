// Copyright 2025 Certen Protocol
//
// Package evidence defines CryptoEvidence, the deterministic, minimal
// handoff between the container/JUMBF dissection stage and the
// cryptographic verification stage. Its wire encoding is the boundary
// between profiles (trusted-verifier process vs. zkVM guest) and must
// therefore be canonical and portable rather than Go-specific.
package evidence

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// AssertionBox is one (label, raw payload) pair pulled out of the JUMBF
// assertion store, from either the active manifest or an ingredient.
type AssertionBox struct {
	Label   string
	Payload []byte
}

// CryptoEvidence is the deterministic, minimal input that drives
// verification. It is produced by the host (container dissectors, trust
// anchor loader) and consumed by the verifier as a whole value: no
// shared mutable state, no back-references.
type CryptoEvidence struct {
	AssetHash               [32]byte
	HasManifest             bool
	CoseSign1Bytes          []byte
	CertChainDER            [][]byte
	ClaimCBOR               []byte
	AssertionBoxes          []AssertionBox
	OfficialTrustAnchorsDER [][]byte
	CuratedTrustAnchorsDER  [][]byte
}

// Marshal produces the canonical binary encoding described in spec §6:
// 32-byte hash, 1-byte boolean, length-prefixed byte arrays, and
// length-prefixed arrays of length-prefixed byte arrays. All length
// prefixes are 8-byte little-endian, matching the PublicOutputs wire
// format so both profiles share one prefix convention.
func (e *CryptoEvidence) Marshal() []byte {
	var buf bytes.Buffer
	buf.Write(e.AssetHash[:])
	if e.HasManifest {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	writeBytes(&buf, e.CoseSign1Bytes)
	writeByteArrays(&buf, e.CertChainDER)
	writeBytes(&buf, e.ClaimCBOR)
	writeAssertions(&buf, e.AssertionBoxes)
	writeByteArrays(&buf, e.OfficialTrustAnchorsDER)
	writeByteArrays(&buf, e.CuratedTrustAnchorsDER)
	return buf.Bytes()
}

// Unmarshal decodes the encoding produced by Marshal.
func Unmarshal(data []byte) (*CryptoEvidence, error) {
	r := bytes.NewReader(data)
	e := &CryptoEvidence{}

	if _, err := r.Read(e.AssetHash[:]); err != nil {
		return nil, fmt.Errorf("evidence: read asset hash: %w", err)
	}
	hasManifest, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("evidence: read has_manifest: %w", err)
	}
	e.HasManifest = hasManifest != 0

	if e.CoseSign1Bytes, err = readBytes(r); err != nil {
		return nil, fmt.Errorf("evidence: read cose_sign1: %w", err)
	}
	if e.CertChainDER, err = readByteArrays(r); err != nil {
		return nil, fmt.Errorf("evidence: read cert chain: %w", err)
	}
	if e.ClaimCBOR, err = readBytes(r); err != nil {
		return nil, fmt.Errorf("evidence: read claim cbor: %w", err)
	}
	if e.AssertionBoxes, err = readAssertions(r); err != nil {
		return nil, fmt.Errorf("evidence: read assertions: %w", err)
	}
	if e.OfficialTrustAnchorsDER, err = readByteArrays(r); err != nil {
		return nil, fmt.Errorf("evidence: read official anchors: %w", err)
	}
	if e.CuratedTrustAnchorsDER, err = readByteArrays(r); err != nil {
		return nil, fmt.Errorf("evidence: read curated anchors: %w", err)
	}
	return e, nil
}

func writeBytes(buf *bytes.Buffer, b []byte) {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(b)))
	buf.Write(lenBuf[:])
	buf.Write(b)
}

func writeByteArrays(buf *bytes.Buffer, arrs [][]byte) {
	var countBuf [8]byte
	binary.LittleEndian.PutUint64(countBuf[:], uint64(len(arrs)))
	buf.Write(countBuf[:])
	for _, a := range arrs {
		writeBytes(buf, a)
	}
}

func writeAssertions(buf *bytes.Buffer, boxes []AssertionBox) {
	var countBuf [8]byte
	binary.LittleEndian.PutUint64(countBuf[:], uint64(len(boxes)))
	buf.Write(countBuf[:])
	for _, a := range boxes {
		writeBytes(buf, []byte(a.Label))
		writeBytes(buf, a.Payload)
	}
}

func readBytes(r *bytes.Reader) ([]byte, error) {
	n, err := readLen(r)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	b := make([]byte, n)
	if _, err := r.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

func readByteArrays(r *bytes.Reader) ([][]byte, error) {
	n, err := readLen(r)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, 0, n)
	for i := uint64(0); i < n; i++ {
		b, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func readAssertions(r *bytes.Reader) ([]AssertionBox, error) {
	n, err := readLen(r)
	if err != nil {
		return nil, err
	}
	out := make([]AssertionBox, 0, n)
	for i := uint64(0); i < n; i++ {
		label, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		payload, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		out = append(out, AssertionBox{Label: string(label), Payload: payload})
	}
	return out, nil
}

func readLen(r *bytes.Reader) (uint64, error) {
	var lenBuf [8]byte
	if _, err := r.Read(lenBuf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(lenBuf[:]), nil
}
