// Copyright 2025 Certen Protocol
//
// c2pa-verify is a thin CLI front end over pkg/pipeline: read a media
// file, run the verification pipeline, optionally attest and record
// the verdict. It carries no pipeline logic of its own.
package main

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/google/uuid"

	"github.com/certen/c2pa-verifier/internal/config"
	"github.com/certen/c2pa-verifier/pkg/attestation"
	"github.com/certen/c2pa-verifier/pkg/kvdb"
	"github.com/certen/c2pa-verifier/pkg/ledger"
	"github.com/certen/c2pa-verifier/pkg/pipeline"
	"github.com/certen/c2pa-verifier/pkg/trustanchor"
)

// verifierVersion is the build's version tag, recorded as an
// ancillary field on every attestation this CLI writes.
const verifierVersion = "c2pa-verify/1.0"

func main() {
	inputPath := flag.String("input", "", "path to the media file to verify")
	officialDir := flag.String("official-dir", "", "override OFFICIAL_TRUST_DIR")
	curatedDir := flag.String("curated-dir", "", "override CURATED_TRUST_DIR")
	ledgerDir := flag.String("ledger-dir", "", "override LEDGER_DATA_DIR")
	attest := flag.Bool("attest", false, "sign the verdict and record it in the attestation ledger")
	submitter := flag.String("submitter", "", "submitter identity UUID; a fresh one is generated if omitted")
	emailDomain := flag.String("email-domain", "", "optional email-domain binding recorded on the attestation")
	walletBinding := flag.String("wallet-binding", "", "optional wallet-address binding recorded on the attestation")
	overlayPath := flag.String("config", "", "optional deployment overlay YAML (zk key paths, metrics address)")
	flag.Parse()

	if err := run(runOpts{
		inputPath:     *inputPath,
		officialDir:   *officialDir,
		curatedDir:    *curatedDir,
		ledgerDir:     *ledgerDir,
		attest:        *attest,
		submitter:     *submitter,
		emailDomain:   *emailDomain,
		walletBinding: *walletBinding,
		overlayPath:   *overlayPath,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runOpts bundles the CLI's flags so run doesn't grow an ever-longer
// positional parameter list as the attestation write path picks up
// more optional bindings.
type runOpts struct {
	inputPath     string
	officialDir   string
	curatedDir    string
	ledgerDir     string
	attest        bool
	submitter     string
	emailDomain   string
	walletBinding string
	overlayPath   string
}

func run(opts runOpts) error {
	inputPath := opts.inputPath
	officialDirOverride := opts.officialDir
	curatedDirOverride := opts.curatedDir
	ledgerDirOverride := opts.ledgerDir
	attest := opts.attest
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
	if ledgerDirOverride != "" {
		cfg.LedgerDataDir = ledgerDirOverride
	}
	if opts.overlayPath != "" {
		overlay, err := config.LoadDeploymentOverlay(opts.overlayPath)
		if err != nil {
			return fmt.Errorf("load deployment overlay: %w", err)
		}
		cfg.ApplyOverlay(overlay)
	}

	logger := log.New(log.Writer(), "[c2pa-verify] ", log.LstdFlags)

	anchors := trustanchor.NewLoader(cfg.OfficialTrustDir, cfg.CuratedTrustDir)
	if err := anchors.Reload(); err != nil {
		return &pipeline.PipelineError{Kind: pipeline.KindEnvironmentFailure, Err: fmt.Errorf("load trust anchors: %w", err)}
	}

	media, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input file: %w", err)
	}

	pipe := pipeline.New(anchors, logger, nil)
	verdict, evidence, diag, err := pipe.Verify(media)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	out, err := json.MarshalIndent(struct {
		ContentHash          string   `json:"contentHash"`
		HasC2PA              bool     `json:"hasC2PA"`
		TrustListMatch       string   `json:"trustListMatch"`
		ValidationState      string   `json:"validationState"`
		DigitalSourceType    string   `json:"digitalSourceType"`
		Issuer               string   `json:"issuer"`
		CommonName           string   `json:"commonName"`
		SoftwareAgent        string   `json:"softwareAgent"`
		SigningTime          string   `json:"signingTime"`
		CertFingerprint      string   `json:"certFingerprint"`
		ValidationCodes      []string `json:"validationCodes,omitempty"`
		ValidationErrorCount int      `json:"validationErrorCount"`
	}{
		ContentHash:          fmt.Sprintf("%x", sha256.Sum256(media)),
		HasC2PA:              verdict.HasC2PA,
		TrustListMatch:       verdict.TrustListMatch,
		ValidationState:      verdict.ValidationState,
		DigitalSourceType:    verdict.DigitalSourceType,
		Issuer:               verdict.Issuer,
		CommonName:           verdict.CommonName,
		SoftwareAgent:        verdict.SoftwareAgent,
		SigningTime:          verdict.SigningTime,
		CertFingerprint:      verdict.CertFingerprint,
		ValidationCodes:      diag.ValidationCodes,
		ValidationErrorCount: diag.ValidationErrorCount,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode verdict: %w", err)
	}
	fmt.Println(string(out))

	if !attest {
		return nil
	}
	if evidence == nil {
		logger.Println("skipping attestation: no crypto evidence for an unsigned verdict")
		return nil
	}
	if cfg.Ed25519KeyPath == "" {
		return fmt.Errorf("ED25519_KEY_PATH is required to attest")
	}
	if err := verdict.Validate(); err != nil {
		return &pipeline.PipelineError{Kind: pipeline.KindFieldBound, Err: err}
	}

	attestCfg := attestation.DefaultConfig()
	attestCfg.KeyPath = cfg.Ed25519KeyPath
	attestCfg.Logger = logger
	svc, err := attestation.NewService(attestCfg)
	if err != nil {
		return fmt.Errorf("load attestation service: %w", err)
	}

	outputsBytes := verdict.Marshal()
	sig, err := svc.Sign(outputsBytes)
	if err != nil {
		return fmt.Errorf("sign verdict: %w", err)
	}

	if err := os.MkdirAll(cfg.LedgerDataDir, 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	db, err := dbm.NewGoLevelDB("attestations", cfg.LedgerDataDir)
	if err != nil {
		return fmt.Errorf("open ledger db: %w", err)
	}
	defer db.Close()

	submitterID := uuid.New()
	if opts.submitter != "" {
		submitterID, err = uuid.Parse(opts.submitter)
		if err != nil {
			return fmt.Errorf("parse -submitter: %w", err)
		}
	}

	var trustBundleHash string
	if snap := anchors.Current(); snap != nil {
		bundleHash := snap.BundleHash()
		trustBundleHash = fmt.Sprintf("%x", bundleHash)
	}

	store := ledger.NewLedgerStore(kvdb.NewKVAdapter(db))
	rec := ledger.AttestationRecord{
		ContentHash:       verdict.ContentHash,
		PublicOutputs:     outputsBytes,
		ProofType:         ledger.ProofTypeTrustedVerifier,
		SubmitterIdentity: submitterID,
		Ancillary: ledger.AncillaryFields{
			EmailDomain:     opts.emailDomain,
			WalletBinding:   opts.walletBinding,
			VerifierVersion: verifierVersion,
			TrustBundleHash: trustBundleHash,
		},
		OperatorSignature: sig,
		RecordedAt:        time.Now().UTC(),
	}
	if err := store.PutRecord(rec); err != nil {
		if errors.Is(err, ledger.ErrRecordExists) {
			return &pipeline.PipelineError{Kind: pipeline.KindDuplicateRecord, Err: err}
		}
		return fmt.Errorf("record attestation: %w", err)
	}

	logger.Printf("recorded attestation for content hash %x", verdict.ContentHash)
	return nil
}
