package jumbf

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func box(boxType string, content []byte) []byte {
	sizeBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(sizeBuf, uint32(8+len(content)))
	out := append([]byte{}, sizeBuf...)
	out = append(out, []byte(boxType)...)
	out = append(out, content...)
	return out
}

func jumd(label string) []byte {
	var c []byte
	c = append(c, make([]byte, 16)...) // UUID (content type not checked by our parser)
	c = append(c, 0x02)                // toggle: label present
	c = append(c, []byte(label)...)
	c = append(c, 0) // NUL terminator
	return box("jumd", c)
}

func superbox(label string, children ...[]byte) []byte {
	content := jumd(label)
	for _, c := range children {
		content = append(content, c...)
	}
	return box("jumb", content)
}

func bfdbWrap(payload []byte) []byte {
	content := append([]byte{0x00}, payload...) // toggle: no media-type/filename strings
	return box("bfdb", content)
}

func TestExtractManifestPartsSingleManifest(t *testing.T) {
	claimBytes := []byte("claim-cbor-bytes")
	coseBytes := []byte("cose-sign1-bytes")
	actionBytes := []byte("actions-bytes")

	assertion := superbox("c2pa.actions", box("cbor", actionBytes))
	assertionsStore := superbox("c2pa.assertions", assertion)
	claimBox := superbox("c2pa.claim.v2", box("cbor", claimBytes))
	sigBox := superbox("c2pa.signature", bfdbWrap(coseBytes))
	manifest := superbox("c2pa.manifest", assertionsStore, claimBox, sigBox)
	store := superbox("c2pa", manifest)

	parts, err := ExtractManifestParts(store)
	if err != nil {
		t.Fatalf("ExtractManifestParts failed: %v", err)
	}
	if !bytes.Equal(parts.ClaimCBOR, claimBytes) {
		t.Errorf("claim mismatch: got %q want %q", parts.ClaimCBOR, claimBytes)
	}
	if !bytes.Equal(parts.CoseSign1Bytes, coseBytes) {
		t.Errorf("cose mismatch: got %q want %q", parts.CoseSign1Bytes, coseBytes)
	}
	if len(parts.Assertions) != 1 || parts.Assertions[0].Label != "c2pa.actions" {
		t.Fatalf("unexpected assertions: %+v", parts.Assertions)
	}
	if !bytes.Equal(parts.Assertions[0].Payload, actionBytes) {
		t.Errorf("assertion payload mismatch")
	}
}

func TestExtractManifestPartsLastManifestIsActive(t *testing.T) {
	ingredientClaim := superbox("c2pa.claim", box("cbor", []byte("ingredient-claim")))
	ingredientSig := superbox("c2pa.signature", bfdbWrap([]byte("ingredient-cose")))
	ingredientAssertions := superbox("c2pa.assertions", superbox("stds.schema-org.CreativeWork", box("json", []byte("ingredient-assertion"))))
	ingredient := superbox("c2pa.manifest", ingredientAssertions, ingredientClaim, ingredientSig)

	activeClaim := superbox("c2pa.claim", box("cbor", []byte("active-claim")))
	activeSig := superbox("c2pa.signature", bfdbWrap([]byte("active-cose")))
	activeAssertions := superbox("c2pa.assertions", superbox("c2pa.actions", box("cbor", []byte("active-assertion"))))
	active := superbox("c2pa.manifest", activeAssertions, activeClaim, activeSig)

	store := superbox("c2pa", ingredient, active)

	parts, err := ExtractManifestParts(store)
	if err != nil {
		t.Fatalf("ExtractManifestParts failed: %v", err)
	}
	if string(parts.ClaimCBOR) != "active-claim" {
		t.Errorf("expected last manifest to be active, got claim %q", parts.ClaimCBOR)
	}
	if string(parts.CoseSign1Bytes) != "active-cose" {
		t.Errorf("expected last manifest's signature, got %q", parts.CoseSign1Bytes)
	}
	if len(parts.Assertions) != 2 {
		t.Fatalf("expected assertions from both manifests, got %d", len(parts.Assertions))
	}
}

func TestExtractManifestPartsEmptyStore(t *testing.T) {
	store := superbox("c2pa")
	if _, err := ExtractManifestParts(store); err == nil {
		t.Errorf("expected error for store with no manifests")
	}
}

// TestExtractManifestPartsEmptyManifestDoesNotPanic covers an active
// manifest box with no content beyond its own header (size exactly 8,
// fully attacker-controlled via a PNG caBX payload): ParseBoxes returns
// an empty, non-error slice for it, which must not panic when sliced.
func TestExtractManifestPartsEmptyManifestDoesNotPanic(t *testing.T) {
	emptyManifest := box("jumb", nil)
	store := superbox("c2pa", emptyManifest)

	parts, err := ExtractManifestParts(store)
	if err != nil {
		t.Fatalf("ExtractManifestParts failed: %v", err)
	}
	if parts.ClaimCBOR != nil || parts.CoseSign1Bytes != nil || len(parts.Assertions) != 0 {
		t.Errorf("expected an empty active manifest to yield nothing, got %+v", parts)
	}
}

// TestCollectAssertionsEmptyManifestDoesNotPanic covers a manifest box
// of exactly size 8 (no content at all): ParseBoxes(manifest.Content)
// returns an empty, non-error slice, which must not panic when sliced
// by collectAssertions directly, independent of ExtractManifestParts'
// own active-manifest guard.
func TestCollectAssertionsEmptyManifestDoesNotPanic(t *testing.T) {
	if got := collectAssertions(Box{Type: "jumb", Content: nil}); got != nil {
		t.Errorf("expected nil assertions for an empty manifest box, got %+v", got)
	}
}
