// Copyright 2025 Certen Protocol
//
// Package claimproj projects the fields spec.md's PublicOutputs needs
// out of the active claim CBOR and the assertion set: the generating
// software agent, the digital source type, and a signing timestamp.
// Every lookup degrades to an empty string on a missing or malformed
// field rather than failing the pipeline — these are enrichment fields,
// not trust decisions.
package claimproj

import (
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/certen/c2pa-verifier/internal/evidence"
)

// Projection holds the claim/assertion-derived fields of a verdict.
type Projection struct {
	SoftwareAgent     string
	DigitalSourceType string
	SigningTime       string
}

// Project extracts SoftwareAgent from the claim CBOR (v2
// claim_generator_info.name, falling back to the v1 claim_generator
// string) and DigitalSourceType/SigningTime from the assertion set
// (c2pa.actions entries, with a stds.schema-org.CreativeWork fallback).
func Project(claimCBOR []byte, assertions []evidence.AssertionBox) Projection {
	var p Projection
	p.SoftwareAgent = softwareAgent(claimCBOR)
	p.DigitalSourceType, p.SigningTime = scanAssertions(assertions)
	return p
}

func softwareAgent(claimCBOR []byte) string {
	claim, ok := decodeMap(claimCBOR)
	if !ok {
		return ""
	}

	switch info := claim["claim_generator_info"].(type) {
	case []interface{}:
		if len(info) > 0 {
			if m, ok := info[0].(map[interface{}]interface{}); ok {
				if name, ok := m["name"].(string); ok && name != "" {
					return name
				}
			}
		}
	case map[interface{}]interface{}:
		if name, ok := info["name"].(string); ok && name != "" {
			return name
		}
	}

	if name, ok := claim["claim_generator"].(string); ok {
		return name
	}
	return ""
}

func scanAssertions(assertions []evidence.AssertionBox) (digitalSourceType, signingTime string) {
	for _, a := range assertions {
		if strings.HasPrefix(a.Label, "c2pa.actions") {
			m, ok := decodeMap(a.Payload)
			if !ok {
				continue
			}
			actions, _ := m["actions"].([]interface{})
			for _, raw := range actions {
				action, ok := raw.(map[interface{}]interface{})
				if !ok {
					continue
				}
				if digitalSourceType == "" {
					if v, ok := action["digitalSourceType"].(string); ok && v != "" {
						digitalSourceType = v
					} else if params, ok := action["parameters"].(map[interface{}]interface{}); ok {
						if v, ok := params["com.adobe.digitalSourceType"].(string); ok && v != "" {
							digitalSourceType = v
						}
					}
				}
				if signingTime == "" {
					if v, ok := action["when"].(string); ok && v != "" {
						signingTime = v
					}
				}
			}
		}

		if digitalSourceType == "" && strings.HasPrefix(a.Label, "stds.schema-org.CreativeWork") {
			if m, ok := decodeMap(a.Payload); ok {
				if v, ok := m["digitalSourceType"].(string); ok && v != "" {
					digitalSourceType = v
				}
			}
		}

		if digitalSourceType != "" && signingTime != "" {
			break
		}
	}
	return digitalSourceType, signingTime
}

func decodeMap(data []byte) (map[interface{}]interface{}, bool) {
	if len(data) == 0 {
		return nil, false
	}
	var m map[interface{}]interface{}
	if err := cbor.Unmarshal(data, &m); err != nil {
		return nil, false
	}
	return m, true
}
