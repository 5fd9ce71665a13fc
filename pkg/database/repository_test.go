// Copyright 2025 Certen Protocol
//
// Integration tests for AttestationRepository. Requires a live
// Postgres instance; skipped unless CERTEN_TEST_DB is set.

package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/certen/c2pa-verifier/internal/config"
	"github.com/certen/c2pa-verifier/pkg/ledger"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	dsn := os.Getenv("CERTEN_TEST_DB")
	if dsn == "" {
		t.Skip("CERTEN_TEST_DB not configured")
	}

	client, err := NewClient(&config.Config{DatabaseURL: dsn, DBMaxOpenConns: 5, DBMaxIdleConns: 1})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	if err := client.MigrateUp(ctx); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}
	return client
}

func TestAttestationRepositoryPutThenGet(t *testing.T) {
	client := testClient(t)
	repo := NewAttestationRepository(client)
	ctx := context.Background()

	var hash [32]byte
	hash[0] = 0x42
	rec := ledger.AttestationRecord{
		ContentHash:   hash,
		PublicOutputs: []byte("outputs"),
		ProofType:     ledger.ProofTypeTrustedVerifier,
		RecordedAt:    time.Now().UTC().Truncate(time.Second),
	}

	if err := repo.PutRecord(ctx, rec); err != nil {
		t.Fatalf("PutRecord failed: %v", err)
	}

	got, err := repo.GetRecord(ctx, hash)
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if got.ProofType != ledger.ProofTypeTrustedVerifier {
		t.Errorf("got proof type %q", got.ProofType)
	}
}

func TestAttestationRepositoryRejectsDuplicate(t *testing.T) {
	client := testClient(t)
	repo := NewAttestationRepository(client)
	ctx := context.Background()

	var hash [32]byte
	hash[0] = 0x43
	rec := ledger.AttestationRecord{ContentHash: hash, ProofType: ledger.ProofTypeZeroKnowledge, RecordedAt: time.Now()}

	if err := repo.PutRecord(ctx, rec); err != nil {
		t.Fatalf("first PutRecord failed: %v", err)
	}
	if err := repo.PutRecord(ctx, rec); err != ErrAlreadyExists {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAttestationRepositoryGetRecordNotFound(t *testing.T) {
	client := testClient(t)
	repo := NewAttestationRepository(client)

	var hash [32]byte
	hash[0] = 0xFF
	if _, err := repo.GetRecord(context.Background(), hash); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
