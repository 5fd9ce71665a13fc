package certproj

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"
)

func selfSignedP256(t *testing.T, subjectCN, issuerCN, issuerOrg string) []byte {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: subjectCN},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	// CreateCertificate takes the issuer name from the parent's Subject,
	// so the issuer fields go on a separate parent template.
	parent := &x509.Certificate{
		Subject: pkix.Name{CommonName: issuerCN, Organization: []string{issuerOrg}},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, parent, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	return der
}

func TestParseLeafExtractsFields(t *testing.T) {
	der := selfSignedP256(t, "Leaf Signer", "Leaf Signer", "Acme Corp")
	info, err := ParseLeaf(der)
	if err != nil {
		t.Fatalf("ParseLeaf failed: %v", err)
	}
	if info.SubjectCN != "Leaf Signer" {
		t.Errorf("got subject CN %q", info.SubjectCN)
	}
	if info.CommonName() != "Leaf Signer" {
		t.Errorf("CommonName() = %q", info.CommonName())
	}
	if info.PublicKey.Curve != elliptic.P256() {
		t.Errorf("expected P-256 public key")
	}
}

func TestParseLeafCommonNameFallsBackToIssuer(t *testing.T) {
	der := selfSignedP256(t, "", "Issuer Org CA", "Issuer Org")
	info, err := ParseLeaf(der)
	if err != nil {
		t.Fatalf("ParseLeaf failed: %v", err)
	}
	if info.CommonName() != "Issuer Org CA" {
		t.Errorf("expected fallback to issuer CN, got %q", info.CommonName())
	}
}

func TestParseLeafRejectsNonP256(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "p384-leaf"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	if _, err := ParseLeaf(der); err != ErrNotP256 {
		t.Errorf("expected ErrNotP256, got %v", err)
	}
}
