package ledger

import (
	"time"

	"github.com/google/uuid"
)

// ProofType discriminates which verification profile produced an
// attestation record, mirroring the proof_type discriminant carried
// by the on-chain attestation program this spec is grounded on.
type ProofType string

const (
	ProofTypeTrustedVerifier ProofType = "trusted_verifier"
	ProofTypeZeroKnowledge   ProofType = "zero_knowledge"
)

// AncillaryFields carries the optional, non-authenticated bindings the
// ledger write contract (spec.md §6) allows alongside PublicOutputs: an
// email-domain binding, a wallet binding, the verifier build's version
// tag, and the hash of the trust bundle the anchors were loaded from.
// None of these feed the verdict itself; they describe the submission,
// not the media, and are never read back into PublicOutputs.
type AncillaryFields struct {
	EmailDomain     string `json:"emailDomain,omitempty"`
	WalletBinding   string `json:"walletBinding,omitempty"`
	VerifierVersion string `json:"verifierVersion,omitempty"`
	TrustBundleHash string `json:"trustBundleHash,omitempty"`
}

// AttestationRecord is the content-addressed record written once per
// asset: the public verdict plus the proof artifact that backs it
// (operator signature for the trusted-verifier profile, a Groth16
// proof for the zero-knowledge profile). Records are immutable once
// written; there is no update path.
type AttestationRecord struct {
	RecordID          [32]byte        `json:"recordId"`
	ContentHash       [32]byte        `json:"contentHash"`
	PublicOutputs     []byte          `json:"publicOutputs"`
	ProofType         ProofType       `json:"proofType"`
	SubmitterIdentity uuid.UUID       `json:"submitterIdentity"`
	Ancillary         AncillaryFields `json:"ancillary,omitempty"`
	OperatorSignature []byte          `json:"operatorSignature,omitempty"`
	ZKProof           []byte          `json:"zkProof,omitempty"`
	RecordedAt        time.Time       `json:"recordedAt"`
}
