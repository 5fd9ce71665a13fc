package claimproj

import (
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/certen/c2pa-verifier/internal/evidence"
)

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := cbor.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestSoftwareAgentV2ClaimGeneratorInfo(t *testing.T) {
	claim := map[string]interface{}{
		"claim_generator_info": []interface{}{
			map[string]interface{}{"name": "Adobe Photoshop", "version": "25.0"},
		},
	}
	got := softwareAgent(mustMarshal(t, claim))
	if got != "Adobe Photoshop" {
		t.Errorf("got %q", got)
	}
}

func TestSoftwareAgentV2ClaimGeneratorInfoAsMap(t *testing.T) {
	claim := map[string]interface{}{
		"claim_generator_info": map[string]interface{}{"name": "Adobe Photoshop", "version": "25.0"},
	}
	got := softwareAgent(mustMarshal(t, claim))
	if got != "Adobe Photoshop" {
		t.Errorf("got %q", got)
	}
}

func TestSoftwareAgentV1Fallback(t *testing.T) {
	claim := map[string]interface{}{"claim_generator": "TestTool/1.0"}
	got := softwareAgent(mustMarshal(t, claim))
	if got != "TestTool/1.0" {
		t.Errorf("got %q", got)
	}
}

func TestSoftwareAgentEmptyOnMalformed(t *testing.T) {
	if got := softwareAgent([]byte{0xFF, 0xFF}); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestScanAssertionsActionsDigitalSourceType(t *testing.T) {
	actionsPayload := mustMarshal(t, map[string]interface{}{
		"actions": []interface{}{
			map[string]interface{}{
				"action":            "c2pa.created",
				"when":              "2025-01-01T00:00:00Z",
				"digitalSourceType": "http://cv.iptc.org/newscodes/digitalsourcetype/digitalCapture",
			},
		},
	})
	assertions := []evidence.AssertionBox{{Label: "c2pa.actions", Payload: actionsPayload}}

	dst, when := scanAssertions(assertions)
	if dst != "http://cv.iptc.org/newscodes/digitalsourcetype/digitalCapture" {
		t.Errorf("got digitalSourceType %q", dst)
	}
	if when != "2025-01-01T00:00:00Z" {
		t.Errorf("got signing time %q", when)
	}
}

func TestScanAssertionsVendorParameterFallback(t *testing.T) {
	actionsPayload := mustMarshal(t, map[string]interface{}{
		"actions": []interface{}{
			map[string]interface{}{
				"action":     "c2pa.created",
				"parameters": map[string]interface{}{"com.adobe.digitalSourceType": "trainedAlgorithmicMedia"},
			},
		},
	})
	assertions := []evidence.AssertionBox{{Label: "c2pa.actions", Payload: actionsPayload}}

	dst, _ := scanAssertions(assertions)
	if dst != "trainedAlgorithmicMedia" {
		t.Errorf("got %q", dst)
	}
}

func TestScanAssertionsCreativeWorkFallback(t *testing.T) {
	payload := mustMarshal(t, map[string]interface{}{"digitalSourceType": "http://example/digitalCapture"})
	assertions := []evidence.AssertionBox{{Label: "stds.schema-org.CreativeWork", Payload: payload}}

	dst, _ := scanAssertions(assertions)
	if dst != "http://example/digitalCapture" {
		t.Errorf("got %q", dst)
	}
}
