// Copyright 2025 Certen Protocol

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so deployment YAML can express timeouts
// as "30s"/"5m" instead of raw nanosecond integers, mirroring the
// reference validator's anchor_config.Duration.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DeploymentOverlay carries settings that vary per deployment rather
// than per environment variable: zero-knowledge profile key material
// and the polling cadence for trust-anchor reloads. It is layered on
// top of Config, not a replacement for it.
type DeploymentOverlay struct {
	ZK struct {
		ProvingKeyPath    string `yaml:"proving_key_path"`
		VerifyingKeyPath  string `yaml:"verifying_key_path"`
		ConstraintSysPath string `yaml:"constraint_system_path"`
	} `yaml:"zk"`

	TrustAnchors struct {
		ReloadInterval Duration `yaml:"reload_interval"`
	} `yaml:"trust_anchors"`

	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
}

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// substituteEnvVars replaces ${VAR_NAME} with the environment
// variable's value, falling back to the ":-default" clause or an
// empty string when the variable is unset.
func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		name, fallback := groups[1], groups[3]
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return fallback
	})
}

// LoadDeploymentOverlay loads a DeploymentOverlay from a YAML file,
// substituting ${VAR_NAME} references before parsing.
func LoadDeploymentOverlay(path string) (*DeploymentOverlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read overlay file %s: %w", path, err)
	}

	expanded := substituteEnvVars(string(data))

	var overlay DeploymentOverlay
	if err := yaml.Unmarshal([]byte(expanded), &overlay); err != nil {
		return nil, fmt.Errorf("config: parse overlay file %s: %w", path, err)
	}
	return &overlay, nil
}

// ApplyOverlay fills any Config field left at its Load default with
// the overlay's corresponding value, giving the overlay file
// precedence over environment-derived defaults without overriding an
// operator's explicit environment variable.
func (c *Config) ApplyOverlay(overlay *DeploymentOverlay) {
	if overlay == nil {
		return
	}
	if c.ZKProvingKeyPath == "" {
		c.ZKProvingKeyPath = overlay.ZK.ProvingKeyPath
	}
	if c.ZKVerifyingKeyPath == "" {
		c.ZKVerifyingKeyPath = overlay.ZK.VerifyingKeyPath
	}
	if c.ZKConstraintSysPath == "" {
		c.ZKConstraintSysPath = overlay.ZK.ConstraintSysPath
	}
	if overlay.Metrics.ListenAddr != "" && os.Getenv("METRICS_ADDR") == "" {
		c.MetricsAddr = overlay.Metrics.ListenAddr
	}
}
