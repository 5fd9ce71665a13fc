package ledger

import "testing"

func TestDeriveRecordIDDeterministic(t *testing.T) {
	var hash [32]byte
	hash[0] = 0x7a

	a := DeriveRecordID(hash)
	b := DeriveRecordID(hash)
	if a != b {
		t.Fatalf("DeriveRecordID not deterministic: %x != %x", a, b)
	}
}

func TestDeriveRecordIDDiffersByContentHash(t *testing.T) {
	var h1, h2 [32]byte
	h1[0] = 0x01
	h2[0] = 0x02

	if DeriveRecordID(h1) == DeriveRecordID(h2) {
		t.Fatal("expected different record IDs for different content hashes")
	}
}

func TestPutRecordFillsRecordIDAndSubmitter(t *testing.T) {
	store := NewLedgerStore(newMemKV())
	var hash [32]byte
	hash[0] = 0x55

	rec := AttestationRecord{ContentHash: hash, ProofType: ProofTypeTrustedVerifier}
	if err := store.PutRecord(rec); err != nil {
		t.Fatalf("PutRecord failed: %v", err)
	}

	got, err := store.GetRecord(hash)
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if got.RecordID != DeriveRecordID(hash) {
		t.Errorf("RecordID not filled to the derived value: got %x", got.RecordID)
	}
	var zero [16]byte
	if [16]byte(got.SubmitterIdentity) == zero {
		t.Error("SubmitterIdentity was not generated for an unset caller value")
	}
}
