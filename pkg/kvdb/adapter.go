// Copyright 2025 Certen Protocol
//
// Package kvdb adapts a CometBFT dbm.DB onto ledger.KV, the minimal
// Get/Set interface pkg/ledger.LedgerStore needs to persist
// content-addressed attestation records.
package kvdb

import (
	dbm "github.com/cometbft/cometbft-db"
)

// KVAdapter backs a ledger.KV with a CometBFT dbm.DB, so LedgerStore
// can run against any of CometBFT's on-disk backends (GoLevelDB,
// BadgerDB, ...) without depending on that package directly.
type KVAdapter struct {
	db dbm.DB
}

// NewKVAdapter wraps db as a ledger.KV.
func NewKVAdapter(db dbm.DB) *KVAdapter {
	return &KVAdapter{db: db}
}

// Get implements ledger.KV. A record ID with no stored attestation
// yields (nil, nil), not an error — LedgerStore.PutRecord relies on
// that to decide a record is absent rather than a lookup failure.
func (a *KVAdapter) Get(key []byte) ([]byte, error) {
	if a.db == nil {
		return nil, nil
	}
	return a.db.Get(key)
}

// Set implements ledger.KV, writing through SetSync so an attestation
// is durable on disk before PutRecord reports success.
func (a *KVAdapter) Set(key, value []byte) error {
	if a.db == nil {
		return nil
	}
	return a.db.SetSync(key, value)
}