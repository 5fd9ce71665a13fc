// Copyright 2025 Certen Protocol

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/certen/c2pa-verifier/pkg/ledger"
	"github.com/google/uuid"
)

// AttestationRepository is the Postgres-backed alternative to
// pkg/ledger.LedgerStore: same exclusive-create, content-addressed
// semantics (spec.md C9), backed by a relational table instead of a
// pluggable KV store, for deployments that already run Postgres for
// their other services.
type AttestationRepository struct {
	client *Client
}

// NewAttestationRepository wraps an open Client.
func NewAttestationRepository(client *Client) *AttestationRepository {
	return &AttestationRepository{client: client}
}

// PutRecord inserts rec if no record exists for its content hash yet.
// ErrAlreadyExists is returned if one does, matching
// ledger.LedgerStore.PutRecord's absent-to-present-only contract.
func (r *AttestationRepository) PutRecord(ctx context.Context, rec ledger.AttestationRecord) error {
	if rec.RecordID == ([32]byte{}) {
		rec.RecordID = ledger.DeriveRecordID(rec.ContentHash)
	}
	if rec.SubmitterIdentity == (uuid.UUID{}) {
		rec.SubmitterIdentity = uuid.New()
	}

	result, err := r.client.ExecContext(ctx, `
		INSERT INTO attestation_records
			(content_hash, record_id, public_outputs, proof_type, submitter_identity,
			 email_domain, wallet_binding, verifier_version, trust_bundle_hash,
			 operator_signature, zk_proof, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (content_hash) DO NOTHING`,
		rec.ContentHash[:], rec.RecordID[:], rec.PublicOutputs, string(rec.ProofType), rec.SubmitterIdentity,
		nullableString(rec.Ancillary.EmailDomain), nullableString(rec.Ancillary.WalletBinding),
		nullableString(rec.Ancillary.VerifierVersion), nullableString(rec.Ancillary.TrustBundleHash),
		nullable(rec.OperatorSignature), nullable(rec.ZKProof), rec.RecordedAt)
	if err != nil {
		return fmt.Errorf("database: insert attestation record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("database: check inserted row count: %w", err)
	}
	if affected == 0 {
		return ErrAlreadyExists
	}
	return nil
}

// GetRecord looks up the attestation record for contentHash.
func (r *AttestationRepository) GetRecord(ctx context.Context, contentHash [32]byte) (*ledger.AttestationRecord, error) {
	row := r.client.QueryRowContext(ctx, `
		SELECT content_hash, record_id, public_outputs, proof_type, submitter_identity,
		       email_domain, wallet_binding, verifier_version, trust_bundle_hash,
		       operator_signature, zk_proof, recorded_at
		FROM attestation_records WHERE content_hash = $1`, contentHash[:])

	var rec ledger.AttestationRecord
	var hashBytes, recordIDBytes []byte
	var proofType string
	var emailDomain, walletBinding, verifierVersion, trustBundleHash sql.NullString
	var operatorSig, zkProof []byte

	err := row.Scan(&hashBytes, &recordIDBytes, &rec.PublicOutputs, &proofType, &rec.SubmitterIdentity,
		&emailDomain, &walletBinding, &verifierVersion, &trustBundleHash,
		&operatorSig, &zkProof, &rec.RecordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database: scan attestation record: %w", err)
	}

	copy(rec.ContentHash[:], hashBytes)
	copy(rec.RecordID[:], recordIDBytes)
	rec.ProofType = ledger.ProofType(proofType)
	rec.Ancillary = ledger.AncillaryFields{
		EmailDomain:     emailDomain.String,
		WalletBinding:   walletBinding.String,
		VerifierVersion: verifierVersion.String,
		TrustBundleHash: trustBundleHash.String,
	}
	rec.OperatorSignature = operatorSig
	rec.ZKProof = zkProof
	return &rec, nil
}

func nullable(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
