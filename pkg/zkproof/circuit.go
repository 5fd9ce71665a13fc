// Copyright 2025 Certen Protocol
//
// Package zkproof implements the zero-knowledge verification profile: a
// Groth16 circuit and prover that commit to the same PublicOutputs
// fields the trusted-verifier profile produces natively, so the two
// profiles are required to agree bit-for-bit (spec.md §9 "byte-identical
// cross-profile outputs"). Adapted from the reference validator's
// BLSSignatureCircuit/SimpleBLSCircuit pattern: the expensive curve
// operation happens natively before witness assignment, and the circuit
// itself only proves consistency of commitments plus a pass/fail flag.
package zkproof

import (
	"github.com/consensys/gnark/frontend"
)

// commitmentBase is the fixed multiplier used by the linear commitment
// stand-in below, the same role "r=7" plays in the reference BLS
// circuit's computePubkeyCommitment.
const commitmentBase = 7

// PublicOutputsCircuit proves that the prover holds a content hash and a
// PublicOutputs encoding matching two public commitments, and that an
// ES256 signature check over that content succeeded, without revealing
// the underlying bytes.
//
// Note: full in-circuit ECDSA P-256 verification would require gnark's
// P-256 ECDSA gadget, at a cost far beyond this circuit's scope (the
// reference BLS circuit carries the identical note for its own pairing
// shortcut). The actual signature check runs natively (pkg/pipeline's
// Verify) before Prover.GenerateProof assigns the witness; SignatureValid
// here only lets the circuit refuse to produce a proof when that native
// check failed.
type PublicOutputsCircuit struct {
	ContentHashCommitment frontend.Variable `gnark:",public"`
	OutputsCommitment     frontend.Variable `gnark:",public"`
	HasC2PA               frontend.Variable `gnark:",public"`
	TrustLevel            frontend.Variable `gnark:",public"`

	ContentHashLimbs [4]frontend.Variable
	OutputsLimbs     [4]frontend.Variable
	SignatureValid   frontend.Variable
}

// Define implements frontend.Circuit.
func (c *PublicOutputsCircuit) Define(api frontend.API) error {
	contentCommit := linearCommitment(api, c.ContentHashLimbs[:])
	api.AssertIsEqual(contentCommit, c.ContentHashCommitment)

	outputsCommit := linearCommitment(api, c.OutputsLimbs[:])
	api.AssertIsEqual(outputsCommit, c.OutputsCommitment)

	api.AssertIsEqual(c.SignatureValid, 1)
	api.AssertIsBoolean(c.HasC2PA)
	api.AssertIsLessOrEqual(c.TrustLevel, 2)

	return nil
}

// linearCommitment folds limbs into a single field element via
// limbs[0] + limbs[1]*r + limbs[2]*r^2 + limbs[3]*r^3. This is not a
// cryptographic hash; it is a cheap binding commitment sufficient to
// catch a prover substituting different limbs than it assigned to the
// public commitment, matching the role the BLS circuit's own linear
// pubkey commitment plays.
func linearCommitment(api frontend.API, limbs []frontend.Variable) frontend.Variable {
	commitment := limbs[0]
	power := frontend.Variable(commitmentBase)
	for i := 1; i < len(limbs); i++ {
		commitment = api.Add(commitment, api.Mul(limbs[i], power))
		power = api.Mul(power, commitmentBase)
	}
	return commitment
}

// TrustLevelCode maps a trust classification string to the circuit's
// integer encoding.
func TrustLevelCode(trustListMatch string) int {
	switch trustListMatch {
	case "official":
		return 2
	case "curated":
		return 1
	default:
		return 0
	}
}
