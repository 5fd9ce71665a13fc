// Copyright 2025 Certen Protocol
//
// Package verdict assembles and serializes PublicOutputs, the bit-exact
// public result both the trusted-verifier profile and the zero-knowledge
// profile must produce identically for the same input. The serialization
// here is the contract the zkVM guest circuit commits to; changing field
// order or width breaks cross-profile equivalence.
package verdict

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"unicode/utf8"
)

// MaxStringLen bounds every string field of PublicOutputs (spec
// invariant I3). Fields longer than this are truncated at a rune
// boundary rather than rejected outright: an over-long but otherwise
// valid field demotes gracefully instead of collapsing the whole
// verdict to unsigned.
const MaxStringLen = 128

// PublicOutputs is the canonical, serializable verification result.
// Field order here is load-bearing: it is the order Marshal/Unmarshal
// use on the wire and the order the zero-knowledge profile's circuit
// commits to.
type PublicOutputs struct {
	ContentHash       [32]byte
	HasC2PA           bool
	TrustListMatch    string
	ValidationState   string
	DigitalSourceType string
	Issuer            string
	CommonName        string
	SoftwareAgent     string
	SigningTime       string
	CertFingerprint   string
}

// Unsigned builds the all-empty verdict for a content hash with no
// usable C2PA manifest, or one that failed verification at any stage.
// This is the silent-demotion target: malformed, untrusted-algorithm,
// or unparseable input all collapse here rather than surfacing an
// error.
func Unsigned(contentHash [32]byte) PublicOutputs {
	return PublicOutputs{
		ContentHash:     contentHash,
		HasC2PA:         false,
		ValidationState: "None",
	}
}

// Clamp truncates a string to MaxStringLen runes, preserving UTF-8
// validity at the truncation boundary.
func Clamp(s string) string {
	if utf8.RuneCountInString(s) <= MaxStringLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxStringLen])
}

// boundedFields pairs each string field with its spec.md §6 field name,
// in wire order, for Validate's error messages.
func (p PublicOutputs) boundedFields() [8][2]string {
	return [8][2]string{
		{"trust_list_match", p.TrustListMatch},
		{"validation_state", p.ValidationState},
		{"digital_source_type", p.DigitalSourceType},
		{"issuer", p.Issuer},
		{"common_name", p.CommonName},
		{"software_agent", p.SoftwareAgent},
		{"signing_time", p.SigningTime},
		{"cert_fingerprint", p.CertFingerprint},
	}
}

// Validate performs the strict field-bound check spec.md §4.8/§7
// requires before an attestation write: every string field must
// already be within MaxStringLen runes. Unlike Clamp, Validate never
// truncates; a violation here is the FieldBound error kind, fatal for
// persistence even though the pipeline itself would have returned the
// raw verdict (spec.md §7 kind 4).
func (p PublicOutputs) Validate() error {
	for _, field := range p.boundedFields() {
		name, value := field[0], field[1]
		if utf8.RuneCountInString(value) > MaxStringLen {
			return fmt.Errorf("verdict: field %s exceeds %d runes", name, MaxStringLen)
		}
	}
	return nil
}

// FingerprintHex renders a certificate fingerprint as lowercase hex,
// the canonical form stored in CertFingerprint.
func FingerprintHex(fingerprint [32]byte) string {
	return hex.EncodeToString(fingerprint[:])
}

// Marshal produces the fixed-layout encoding: 32-byte content hash,
// 1-byte has_c2pa boolean, then eight length-prefixed UTF-8 strings (8
// -byte little-endian length prefixes) in field-declaration order.
func (p PublicOutputs) Marshal() []byte {
	var buf bytes.Buffer
	buf.Write(p.ContentHash[:])
	if p.HasC2PA {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	for _, s := range p.stringFields() {
		writeString(&buf, s)
	}
	return buf.Bytes()
}

func (p PublicOutputs) stringFields() []string {
	return []string{
		p.TrustListMatch,
		p.ValidationState,
		p.DigitalSourceType,
		p.Issuer,
		p.CommonName,
		p.SoftwareAgent,
		p.SigningTime,
		p.CertFingerprint,
	}
}

// Unmarshal decodes the encoding produced by Marshal.
func Unmarshal(data []byte) (PublicOutputs, error) {
	var p PublicOutputs
	r := bytes.NewReader(data)

	if _, err := r.Read(p.ContentHash[:]); err != nil {
		return p, fmt.Errorf("verdict: read content hash: %w", err)
	}
	hasC2PA, err := r.ReadByte()
	if err != nil {
		return p, fmt.Errorf("verdict: read has_c2pa: %w", err)
	}
	p.HasC2PA = hasC2PA != 0

	fields := make([]string, 8)
	for i := range fields {
		s, err := readString(r)
		if err != nil {
			return p, fmt.Errorf("verdict: read string field %d: %w", i, err)
		}
		fields[i] = s
	}
	p.TrustListMatch = fields[0]
	p.ValidationState = fields[1]
	p.DigitalSourceType = fields[2]
	p.Issuer = fields[3]
	p.CommonName = fields[4]
	p.SoftwareAgent = fields[5]
	p.SigningTime = fields[6]
	p.CertFingerprint = fields[7]
	return p, nil
}

func writeString(buf *bytes.Buffer, s string) {
	b := []byte(s)
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(b)))
	buf.Write(lenBuf[:])
	buf.Write(b)
}

func readString(r *bytes.Reader) (string, error) {
	var lenBuf [8]byte
	if _, err := r.Read(lenBuf[:]); err != nil {
		return "", err
	}
	n := binary.LittleEndian.Uint64(lenBuf[:])
	if n == 0 {
		return "", nil
	}
	b := make([]byte, n)
	if _, err := r.Read(b); err != nil {
		return "", err
	}
	return string(b), nil
}
