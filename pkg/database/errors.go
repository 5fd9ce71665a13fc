// Copyright 2025 Certen Protocol
//
// Package database provides sentinel errors for repository operations.

package database

import "errors"

// Sentinel errors for the attestation repository.
var (
	// ErrNotFound is returned when a requested attestation record is
	// not found in the database.
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when a PutRecord call targets a
	// content hash that already has a stored attestation.
	ErrAlreadyExists = errors.New("attestation record already exists")
)
