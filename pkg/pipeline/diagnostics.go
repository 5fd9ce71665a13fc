package pipeline

// Diagnostics carries the optional, non-authenticated detail spec.md
// §6 allows alongside the committed verdict ("Output is the
// PublicOutputs record plus optional diagnostic fields (validation
// codes, raw manifest)"). Diagnostics are never part of PublicOutputs
// and never feed the attestation: they exist for operators and callers
// who want to know *why* a verdict landed where it did, not to change
// what landed on-chain.
type Diagnostics struct {
	// ValidationCodes lists, in the order encountered, every stage
	// outcome the pipeline passed through on its way to a verdict.
	ValidationCodes []string
	// ValidationErrorCount counts the codes in ValidationCodes that
	// represent a silent-demotion outcome (spec.md §7 kinds 1-2)
	// rather than a clean pass; an untrusted root is not counted.
	ValidationErrorCount int
	// RawManifest is the dissected JUMBF payload (post-C1, pre-C2),
	// or nil if no container dissector found one.
	RawManifest []byte
}

// Validation codes recorded in Diagnostics.ValidationCodes. These are
// stable, machine-checkable strings (not the ErrorKind values, which
// classify whole pipeline errors rather than a single stage outcome).
const (
	codeNoManifest         = "no_manifest"
	codeJUMBFParseError    = "jumbf_parse_error"
	codeNoClaimOrSignature = "no_claim_or_signature"
	codeCOSEParseError     = "cose_parse_error"
	codeAlgorithmRejected  = "algorithm_rejected"
	codeNoCertChain        = "no_cert_chain"
	codeCertParseError     = "cert_parse_error"
	codeSigStructureError  = "sig_structure_error"
	codeSignatureInvalid   = "signature_invalid"
	codeSignatureVerified  = "signature_verified"
	codeTrustOfficial      = "trust_official"
	codeTrustCurated       = "trust_curated"
	codeTrustUntrusted     = "trust_untrusted"
)

// demotionCodes are the codes that represent a silent-demotion outcome
// (spec.md §7 kinds 1-2), counted in ValidationErrorCount.
var demotionCodes = map[string]bool{
	codeNoManifest:         true,
	codeJUMBFParseError:    true,
	codeNoClaimOrSignature: true,
	codeCOSEParseError:     true,
	codeAlgorithmRejected:  true,
	codeNoCertChain:        true,
	codeCertParseError:     true,
	codeSigStructureError:  true,
	codeSignatureInvalid:   true,
}

func newDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

func (d *Diagnostics) record(code string) {
	d.ValidationCodes = append(d.ValidationCodes, code)
	if demotionCodes[code] {
		d.ValidationErrorCount++
	}
}
