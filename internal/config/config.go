// Copyright 2025 Certen Protocol
//
// Package config loads service configuration from environment
// variables, following the reference validator's pkg/config.Load
// idiom: explicit defaults for operational settings, no default for
// anything security-sensitive.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the settings the verification service needs to start.
type Config struct {
	// Server
	ListenAddr  string
	MetricsAddr string

	// Trust anchors (spec.md §6 "Trust-anchor layout on disk")
	OfficialTrustDir string
	CuratedTrustDir  string

	// Attestation ledger
	DatabaseURL    string
	DBMaxOpenConns int
	DBMaxIdleConns int
	LedgerDataDir  string

	// Trusted-verifier profile
	Ed25519KeyPath string

	// Zero-knowledge profile
	ZKProvingKeyPath    string
	ZKVerifyingKeyPath  string
	ZKConstraintSysPath string

	LogLevel string
}

// Load reads configuration from environment variables. It never
// fails on a missing optional value; callers needing stricter
// guarantees should follow with Validate.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:  getEnv("LISTEN_ADDR", "0.0.0.0:8080"),
		MetricsAddr: getEnv("METRICS_ADDR", "0.0.0.0:9090"),

		OfficialTrustDir: getEnv("OFFICIAL_TRUST_DIR", "./trust-anchors/official"),
		CuratedTrustDir:  getEnv("CURATED_TRUST_DIR", "./trust-anchors/curated"),

		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		LedgerDataDir:  getEnv("LEDGER_DATA_DIR", "./data/ledger"),

		Ed25519KeyPath: getEnv("ED25519_KEY_PATH", ""),

		ZKProvingKeyPath:    getEnv("ZK_PROVING_KEY_PATH", ""),
		ZKVerifyingKeyPath:  getEnv("ZK_VERIFYING_KEY_PATH", ""),
		ZKConstraintSysPath: getEnv("ZK_CONSTRAINT_SYSTEM_PATH", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Validate checks the settings required to run the trusted-verifier
// profile against a Postgres-backed ledger. The zero-knowledge
// profile's key paths are validated separately by pkg/zkproof, since
// a deployment may run one profile without the other.
func (c *Config) Validate() error {
	var problems []string

	if c.Ed25519KeyPath == "" {
		problems = append(problems, "ED25519_KEY_PATH is required but not set")
	}
	if c.DatabaseURL != "" && strings.Contains(c.DatabaseURL, "sslmode=disable") {
		problems = append(problems, "DATABASE_URL must not disable sslmode outside local development")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
