package zkproof

import (
	"testing"
)

func TestGenerateAndVerifyProofRoundTrip(t *testing.T) {
	prover := NewProver()
	if err := prover.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	var contentHash [32]byte
	contentHash[0] = 0xAB

	witness := Witness{
		ContentHash:    contentHash,
		PublicOutputs:  []byte("canonical-public-outputs-bytes"),
		SignatureValid: true,
		HasC2PA:        true,
		TrustLevel:     TrustLevelCode("curated"),
	}

	proof, err := prover.GenerateProof(witness)
	if err != nil {
		t.Fatalf("GenerateProof failed: %v", err)
	}

	ok, err := prover.VerifyProofLocally(proof)
	if err != nil {
		t.Fatalf("VerifyProofLocally failed: %v", err)
	}
	if !ok {
		t.Errorf("expected proof to verify")
	}
}

func TestGenerateProofFailsWhenSignatureInvalid(t *testing.T) {
	prover := NewProver()
	if err := prover.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	witness := Witness{
		PublicOutputs:  []byte("outputs"),
		SignatureValid: false,
		HasC2PA:        false,
		TrustLevel:     TrustLevelCode("untrusted"),
	}

	if _, err := prover.GenerateProof(witness); err == nil {
		t.Errorf("expected GenerateProof to fail when the circuit's SignatureValid constraint is unsatisfied")
	}
}

func TestTrustLevelCode(t *testing.T) {
	cases := map[string]int{"official": 2, "curated": 1, "untrusted": 0, "": 0}
	for label, want := range cases {
		if got := TrustLevelCode(label); got != want {
			t.Errorf("TrustLevelCode(%q) = %d, want %d", label, got, want)
		}
	}
}
