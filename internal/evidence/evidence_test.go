package evidence

import (
	"bytes"
	"testing"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	var hash [32]byte
	for i := range hash {
		hash[i] = byte(i)
	}

	orig := &CryptoEvidence{
		AssetHash:      hash,
		HasManifest:    true,
		CoseSign1Bytes: []byte{0x01, 0x02, 0x03},
		CertChainDER:   [][]byte{{0xAA, 0xBB}, {0xCC}},
		ClaimCBOR:      []byte{0xA1, 0x61, 0x61, 0x01},
		AssertionBoxes: []AssertionBox{
			{Label: "c2pa.actions", Payload: []byte{0x01}},
			{Label: "stds.schema-org.CreativeWork", Payload: nil},
		},
		OfficialTrustAnchorsDER: [][]byte{{0x01}},
		CuratedTrustAnchorsDER:  nil,
	}

	encoded := orig.Marshal()
	decoded, err := Unmarshal(encoded)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded.AssetHash != orig.AssetHash {
		t.Errorf("asset hash mismatch")
	}
	if decoded.HasManifest != orig.HasManifest {
		t.Errorf("has_manifest mismatch")
	}
	if !bytes.Equal(decoded.CoseSign1Bytes, orig.CoseSign1Bytes) {
		t.Errorf("cose_sign1 mismatch")
	}
	if len(decoded.CertChainDER) != len(orig.CertChainDER) {
		t.Fatalf("cert chain length mismatch: got %d want %d", len(decoded.CertChainDER), len(orig.CertChainDER))
	}
	for i := range orig.CertChainDER {
		if !bytes.Equal(decoded.CertChainDER[i], orig.CertChainDER[i]) {
			t.Errorf("cert chain[%d] mismatch", i)
		}
	}
	if !bytes.Equal(decoded.ClaimCBOR, orig.ClaimCBOR) {
		t.Errorf("claim cbor mismatch")
	}
	if len(decoded.AssertionBoxes) != len(orig.AssertionBoxes) {
		t.Fatalf("assertion count mismatch")
	}
	for i := range orig.AssertionBoxes {
		if decoded.AssertionBoxes[i].Label != orig.AssertionBoxes[i].Label {
			t.Errorf("assertion[%d] label mismatch", i)
		}
	}
}

func TestUnmarshalEmptyCryptoEvidence(t *testing.T) {
	orig := &CryptoEvidence{HasManifest: false}
	decoded, err := Unmarshal(orig.Marshal())
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.HasManifest {
		t.Errorf("expected has_manifest false")
	}
	if len(decoded.CertChainDER) != 0 {
		t.Errorf("expected empty cert chain")
	}
}
