// Copyright 2025 Certen Protocol
//
// Package cosedec decodes a COSE_Sign1 envelope (RFC 8152) out of the
// raw bytes internal/jumbf hands back for a manifest's signature box,
// and reconstructs the Sig_structure1 "to-be-signed" bytes used by
// internal/sigverify. It accepts both the CBOR-tagged (tag 18) and
// untagged encodings, since both appear in the wild.
package cosedec

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	cose "github.com/veraison/go-cose"
)

// coseSign1TagByte is RFC 8152's CBOR tag for a COSE_Sign1 structure,
// encoded as a single byte (major type 6, value 18).
const coseSign1TagByte = 0xD2

// headerLabelAlg and headerLabelX5Chain are the integer COSE header
// labels this package reads; the X.509 chain label also has a
// conventional text-string alias ("x5chain") some encoders use.
const (
	headerLabelAlg     = int64(1)
	headerLabelX5Chain = int64(33)
	headerLabelX5Chain33Text = "x5chain"
)

// ErrNotSign1 is returned when the input cannot be parsed as a
// COSE_Sign1 four-element array.
var ErrNotSign1 = errors.New("cosedec: not a COSE_Sign1 structure")

// Sign1 is the decoded shape of a COSE_Sign1 envelope relevant to
// verification: the exact protected-header bytes (needed byte-for-byte
// to reconstruct Sig_structure1), the declared algorithm, the
// unprotected/protected header maps (for X.509 chain lookup), and the
// signature bytes.
type Sign1 struct {
	ProtectedRaw []byte
	Algorithm    int64
	HasAlgorithm bool
	Protected    map[interface{}]interface{}
	Unprotected  map[interface{}]interface{}
	Signature    []byte
}

type rawSign1 struct {
	_           struct{} `cbor:",toarray"`
	Protected   []byte
	Unprotected map[interface{}]interface{}
	Payload     cbor.RawMessage
	Signature   []byte
}

// Decode parses data as a COSE_Sign1 structure, trying the CBOR-tagged
// form first and falling back to the bare four-element array.
func Decode(data []byte) (*Sign1, error) {
	body := data
	if len(data) > 0 && data[0] == coseSign1TagByte {
		body = data[1:]
	}

	var raw rawSign1
	if err := cbor.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSign1, err)
	}

	protectedMap := map[interface{}]interface{}{}
	if len(raw.Protected) > 0 {
		_ = cbor.Unmarshal(raw.Protected, &protectedMap)
	}

	s := &Sign1{
		ProtectedRaw: raw.Protected,
		Protected:    protectedMap,
		Unprotected:  raw.Unprotected,
		Signature:    raw.Signature,
	}
	if v, ok := lookupHeader(protectedMap, headerLabelAlg, ""); ok {
		if alg, ok := toInt64(v); ok {
			s.Algorithm = alg
			s.HasAlgorithm = true
		}
	}
	return s, nil
}

// IsES256 reports whether the envelope declares the ES256 algorithm
// (COSE assigned value -7). Verification per spec is ES256-only; any
// other algorithm is treated as unsigned further up the pipeline.
func (s *Sign1) IsES256() bool {
	return s.HasAlgorithm && s.Algorithm == int64(cose.AlgorithmES256)
}

// SigStructure1 reconstructs the RFC 8152 §4.4 "to-be-signed" bytes for
// a COSE_Sign1 signature: the deterministic CBOR array
// ["Signature1", protected_bstr, external_aad (empty), payload].
func (s *Sign1) SigStructure1(payload []byte) ([]byte, error) {
	arr := []interface{}{
		"Signature1",
		s.ProtectedRaw,
		[]byte{},
		payload,
	}
	out, err := cbor.Marshal(arr)
	if err != nil {
		return nil, fmt.Errorf("cosedec: encode Sig_structure1: %w", err)
	}
	return out, nil
}

// X5Chain extracts the leaf-first X.509 certificate chain from the
// envelope's header, checking the unprotected header first (the common
// placement) and falling back to the protected header. The value may be
// a single certificate (bstr) or an array of certificates.
func (s *Sign1) X5Chain() ([][]byte, error) {
	val, ok := lookupHeader(s.Unprotected, headerLabelX5Chain, headerLabelX5Chain33Text)
	if !ok {
		val, ok = lookupHeader(s.Protected, headerLabelX5Chain, headerLabelX5Chain33Text)
	}
	if !ok {
		return nil, nil
	}

	switch v := val.(type) {
	case []byte:
		return [][]byte{v}, nil
	case []interface{}:
		chain := make([][]byte, 0, len(v))
		for _, item := range v {
			b, ok := item.([]byte)
			if !ok {
				return nil, fmt.Errorf("cosedec: x5chain element is not a byte string")
			}
			chain = append(chain, b)
		}
		return chain, nil
	default:
		return nil, fmt.Errorf("cosedec: unexpected x5chain value type %T", val)
	}
}

func lookupHeader(m map[interface{}]interface{}, intKey int64, textKey string) (interface{}, bool) {
	if m == nil {
		return nil, false
	}
	if v, ok := m[intKey]; ok {
		return v, true
	}
	// CBOR decodes a non-negative integer map key as uint64.
	if intKey >= 0 {
		if v, ok := m[uint64(intKey)]; ok {
			return v, true
		}
	}
	if textKey != "" {
		if v, ok := m[textKey]; ok {
			return v, true
		}
	}
	return nil, false
}

func toInt64(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case uint64:
		return int64(t), true
	case int:
		return int64(t), true
	default:
		return 0, false
	}
}
