// Copyright 2025 Certen Protocol
//
// Package ledger provides sentinel errors for the attestation ledger.
// Explicit errors instead of nil, nil returns make the exclusive-create
// contract ("absent -> present, never update") checkable by callers.

package ledger

import "errors"

// Sentinel errors for ledger operations.
var (
	// ErrRecordNotFound is returned when no attestation record exists
	// for a given content hash.
	ErrRecordNotFound = errors.New("ledger: attestation record not found")

	// ErrRecordExists is returned by PutRecord when a record already
	// exists for the content hash; the ledger never overwrites.
	ErrRecordExists = errors.New("ledger: attestation record already exists")
)
