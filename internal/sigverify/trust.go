package sigverify

import "bytes"

// TrustLevel is the outcome of classifying a verified chain's root
// against the configured trust anchor sets.
type TrustLevel string

const (
	TrustOfficial  TrustLevel = "official"
	TrustCurated   TrustLevel = "curated"
	TrustUntrusted TrustLevel = "untrusted"
)

// Classify compares a chain's root certificate (DER, byte-identical
// comparison — no path building, no OCSP) against the official anchor
// set first, then the curated set, and falls back to untrusted. Official
// anchors always take precedence when a root happens to appear in both
// sets.
func Classify(rootDER []byte, officialAnchors, curatedAnchors [][]byte) TrustLevel {
	for _, a := range officialAnchors {
		if bytes.Equal(a, rootDER) {
			return TrustOfficial
		}
	}
	for _, a := range curatedAnchors {
		if bytes.Equal(a, rootDER) {
			return TrustCurated
		}
	}
	return TrustUntrusted
}

// ValidationState maps a trust classification to the coarse validation
// state spec.md's PublicOutputs carries: a signature that verifies
// against an untrusted root is reported as signature-only, never as
// fully "Verified".
func ValidationState(trust TrustLevel) string {
	if trust == TrustUntrusted {
		return "SignatureOnly"
	}
	return "Verified"
}

// Root returns the root of a leaf-first certificate chain: its last
// entry. An empty chain has no root.
func Root(chainDER [][]byte) []byte {
	if len(chainDER) == 0 {
		return nil
	}
	return chainDER[len(chainDER)-1]
}
