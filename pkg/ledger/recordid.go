// Copyright 2025 Certen Protocol

package ledger

import "crypto/sha256"

// recordIDSeed domain-separates the record identifier from any other
// digest derived from a content hash elsewhere in the system (spec.md
// §3: "a content-addressed identifier derived as the deterministic
// tuple (fixed seed prefix, content_hash)").
var recordIDSeed = []byte("certen.attestation.record.v1")

// DeriveRecordID computes the content-addressed record identifier for
// contentHash: SHA-256 of the fixed seed prefix concatenated with the
// content hash. Two records for the same content hash always derive
// the same identifier, which is what makes PutRecord's exclusive-create
// check meaningful.
func DeriveRecordID(contentHash [32]byte) [32]byte {
	h := sha256.New()
	h.Write(recordIDSeed)
	h.Write(contentHash[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
