// Copyright 2025 Certen Protocol
//
// Package attestation signs the operator's verdict for the
// trusted-verifier profile. Unlike the zero-knowledge profile, this
// profile is backed by a single operator key: there is no quorum to
// collect, just one Ed25519 signature over the canonical PublicOutputs
// encoding.
package attestation

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
)

// ErrNotInitialized is returned by Sign when the service was built
// without an operator key.
var ErrNotInitialized = errors.New("attestation: operator key not loaded")

// Config configures the attestation service.
type Config struct {
	// KeyPath is the path to a raw 64-byte Ed25519 private key file.
	KeyPath string
	Logger  *log.Logger
}

// DefaultConfig returns a Config with a default logger and no key path
// set; callers must still supply KeyPath.
func DefaultConfig() Config {
	return Config{
		Logger: log.New(log.Writer(), "[Attestation] ", log.LstdFlags),
	}
}

// Service signs verdicts on behalf of the trusted-verifier profile.
type Service struct {
	mu     sync.RWMutex
	key    ed25519.PrivateKey
	logger *log.Logger
}

// NewService loads the operator key from cfg.KeyPath and returns a
// ready-to-use Service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.Writer(), "[Attestation] ", log.LstdFlags)
	}

	raw, err := os.ReadFile(cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("attestation: read operator key: %w", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("attestation: operator key must be %d bytes, got %d", ed25519.PrivateKeySize, len(raw))
	}

	return &Service{key: ed25519.PrivateKey(raw), logger: cfg.Logger}, nil
}

// Sign returns the operator's Ed25519 signature over outputs (the
// canonical PublicOutputs.Marshal() encoding).
func (s *Service) Sign(outputs []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key == nil {
		return nil, ErrNotInitialized
	}
	return ed25519.Sign(s.key, outputs), nil
}

// PublicKey returns the operator's public key, for embedding in
// attestation records or exposing to verifiers of the signature.
func (s *Service) PublicKey() ed25519.PublicKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key == nil {
		return nil
	}
	return s.key.Public().(ed25519.PublicKey)
}

// Verify checks sig against outputs using pub; exposed mainly for
// tests and offline audit tooling, not the verification pipeline
// itself (which never needs to check its own operator's signature).
func Verify(pub ed25519.PublicKey, outputs, sig []byte) bool {
	return ed25519.Verify(pub, outputs, sig)
}
