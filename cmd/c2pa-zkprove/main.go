// Copyright 2025 Certen Protocol
//
// c2pa-zkprove is the zero-knowledge profile's entry point: it runs the
// same pkg/pipeline verification c2pa-verify does, then proves the
// resulting PublicOutputs with pkg/zkproof's Groth16 circuit instead of
// having an operator sign them. It carries no verification logic of its
// own, mirroring the reference validator's separate prove/vkey binaries
// sitting alongside its HTTP verifier.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/certen/c2pa-verifier/internal/config"
	"github.com/certen/c2pa-verifier/pkg/pipeline"
	"github.com/certen/c2pa-verifier/pkg/trustanchor"
	"github.com/certen/c2pa-verifier/pkg/zkproof"
)

func main() {
	inputPath := flag.String("input", "", "path to the media file to verify and prove")
	officialDir := flag.String("official-dir", "", "override OFFICIAL_TRUST_DIR")
	curatedDir := flag.String("curated-dir", "", "override CURATED_TRUST_DIR")
	outputPath := flag.String("output", "proof.bin", "path to write the serialized Groth16 proof")
	jsonOut := flag.String("json-out", "", "optional path for a JSON sidecar with proof and public output hex")
	setup := flag.Bool("setup", false, "run a fresh Groth16 trusted setup instead of loading keys from config")
	flag.Parse()

	if err := run(*inputPath, *officialDir, *curatedDir, *outputPath, *jsonOut, *setup); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(inputPath, officialDirOverride, curatedDirOverride, outputPath, jsonOut string, freshSetup bool) error {
	if inputPath == "" {
		return fmt.Errorf("-input is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if officialDirOverride != "" {
		cfg.OfficialTrustDir = officialDirOverride
	}
	if curatedDirOverride != "" {
		cfg.CuratedTrustDir = curatedDirOverride
	}

	logger := log.New(log.Writer(), "[c2pa-zkprove] ", log.LstdFlags)

	anchors := trustanchor.NewLoader(cfg.OfficialTrustDir, cfg.CuratedTrustDir)
	if err := anchors.Reload(); err != nil {
		return &pipeline.PipelineError{Kind: pipeline.KindEnvironmentFailure, Err: fmt.Errorf("load trust anchors: %w", err)}
	}

	media, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input file: %w", err)
	}

	pipe := pipeline.New(anchors, logger, nil)
	out, ce, _, err := pipe.Verify(media)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	logger.Printf("content_hash=%x has_c2pa=%t trust_list_match=%s validation_state=%s",
		out.ContentHash, out.HasC2PA, out.TrustListMatch, out.ValidationState)

	prover := zkproof.NewProver()
	switch {
	case freshSetup:
		logger.Println("running fresh Groth16 setup (not for production keys)")
		if err := prover.Initialize(); err != nil {
			return &pipeline.PipelineError{Kind: pipeline.KindEnvironmentFailure, Err: fmt.Errorf("groth16 setup: %w", err)}
		}
		if cfg.ZKConstraintSysPath != "" && cfg.ZKProvingKeyPath != "" && cfg.ZKVerifyingKeyPath != "" {
			if err := prover.SaveKeys(cfg.ZKConstraintSysPath, cfg.ZKProvingKeyPath, cfg.ZKVerifyingKeyPath); err != nil {
				return fmt.Errorf("save zk keys: %w", err)
			}
			logger.Printf("saved constraint system/proving key/verifying key to %s, %s, %s",
				cfg.ZKConstraintSysPath, cfg.ZKProvingKeyPath, cfg.ZKVerifyingKeyPath)
		}
	case cfg.ZKConstraintSysPath != "" && cfg.ZKProvingKeyPath != "" && cfg.ZKVerifyingKeyPath != "":
		if err := prover.InitializeFromKeys(cfg.ZKConstraintSysPath, cfg.ZKProvingKeyPath, cfg.ZKVerifyingKeyPath); err != nil {
			return &pipeline.PipelineError{Kind: pipeline.KindEnvironmentFailure, Err: fmt.Errorf("load zk keys: %w", err)}
		}
	default:
		return fmt.Errorf("ZK_CONSTRAINT_SYSTEM_PATH/ZK_PROVING_KEY_PATH/ZK_VERIFYING_KEY_PATH must all be set, or pass -setup for a throwaway key")
	}

	// ce is nil whenever the pipeline demoted to the unsigned verdict.
	// The circuit requires SignatureValid=1, so GenerateProof below
	// fails for an unsigned verdict rather than producing a proof of a
	// manifest that was never checked — there is nothing to prove for
	// media with no verified signature.
	signatureValid := ce != nil

	witness := zkproof.Witness{
		ContentHash:    out.ContentHash,
		PublicOutputs:  out.Marshal(),
		SignatureValid: signatureValid,
		HasC2PA:        out.HasC2PA,
		TrustLevel:     zkproof.TrustLevelCode(out.TrustListMatch),
	}

	proof, err := prover.GenerateProof(witness)
	if err != nil {
		return fmt.Errorf("generate proof: %w", err)
	}

	ok, err := prover.VerifyProofLocally(proof)
	if err != nil {
		return fmt.Errorf("verify proof locally: %w", err)
	}
	if !ok {
		return &pipeline.PipelineError{Kind: pipeline.KindEnvironmentFailure, Err: fmt.Errorf("generated proof failed local verification")}
	}
	logger.Println("proof verified locally")

	proofJSON, err := json.Marshal(proof)
	if err != nil {
		return fmt.Errorf("encode proof: %w", err)
	}
	if err := os.WriteFile(outputPath, proofJSON, 0o644); err != nil {
		return fmt.Errorf("write proof file: %w", err)
	}
	logger.Printf("proof written to %s (%d bytes)", outputPath, len(proofJSON))

	if jsonOut != "" {
		sidecar := struct {
			ContentHash      string `json:"contentHash"`
			PublicOutputsHex string `json:"publicOutputsHex"`
			ValidationState  string `json:"validationState"`
			TrustListMatch   string `json:"trustListMatch"`
		}{
			ContentHash:      hex.EncodeToString(out.ContentHash[:]),
			PublicOutputsHex: hex.EncodeToString(out.Marshal()),
			ValidationState:  out.ValidationState,
			TrustListMatch:   out.TrustListMatch,
		}
		sidecarJSON, err := json.MarshalIndent(sidecar, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json sidecar: %w", err)
		}
		if err := os.WriteFile(jsonOut, sidecarJSON, 0o644); err != nil {
			return fmt.Errorf("write json sidecar: %w", err)
		}
		logger.Printf("json sidecar written to %s", jsonOut)
	}

	return nil
}
