// Copyright 2025 Certen Protocol
//
// Package ledger implements the content-addressed attestation store:
// one record per content hash, written at most once. CONCURRENCY: like
// the validator ledger this package is adapted from, LedgerStore
// assumes callers serialize writes for a given content hash themselves
// (the pipeline's single verify-then-attest call path); PutRecord's
// existence check and write are not atomic across concurrent writers of
// the same key, only safe for the expected single-writer-per-key usage.
package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// KV is the minimal persistent key-value interface LedgerStore needs.
// pkg/kvdb adapts a CometBFT dbm.DB to this interface.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
}

var keyPrefixAttestation = []byte("attestation:")

func recordKey(contentHash [32]byte) []byte {
	id := DeriveRecordID(contentHash)
	key := make([]byte, 0, len(keyPrefixAttestation)+len(id))
	key = append(key, keyPrefixAttestation...)
	return append(key, id[:]...)
}

// LedgerStore is the content-addressed attestation ledger.
type LedgerStore struct {
	kv KV
}

// NewLedgerStore wraps kv as an attestation ledger.
func NewLedgerStore(kv KV) *LedgerStore {
	return &LedgerStore{kv: kv}
}

// PutRecord writes rec under its ContentHash, failing with
// ErrRecordExists if a record is already present. This is the only
// write path: records are never updated or deleted.
func (s *LedgerStore) PutRecord(rec AttestationRecord) error {
	key := recordKey(rec.ContentHash)
	if rec.RecordID == ([32]byte{}) {
		rec.RecordID = DeriveRecordID(rec.ContentHash)
	}
	if rec.SubmitterIdentity == (uuid.UUID{}) {
		rec.SubmitterIdentity = uuid.New()
	}

	existing, err := s.kv.Get(key)
	if err != nil {
		return fmt.Errorf("ledger: check existing record: %w", err)
	}
	if len(existing) > 0 {
		return ErrRecordExists
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("ledger: marshal record: %w", err)
	}
	if err := s.kv.Set(key, data); err != nil {
		return fmt.Errorf("ledger: write record: %w", err)
	}
	return nil
}

// GetRecord loads the attestation record for contentHash, or
// ErrRecordNotFound if none exists.
func (s *LedgerStore) GetRecord(contentHash [32]byte) (*AttestationRecord, error) {
	data, err := s.kv.Get(recordKey(contentHash))
	if err != nil {
		return nil, fmt.Errorf("ledger: read record: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrRecordNotFound
	}

	var rec AttestationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("ledger: unmarshal record: %w", err)
	}
	return &rec, nil
}
