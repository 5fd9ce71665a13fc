package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDeploymentOverlaySubstitutesEnvVars(t *testing.T) {
	t.Setenv("ZK_PK_PATH", "/keys/proving.key")

	yaml := `
zk:
  proving_key_path: ${ZK_PK_PATH}
  verifying_key_path: ${ZK_VK_PATH:-/keys/verifying.key}
trust_anchors:
  reload_interval: 30s
metrics:
  listen_addr: "0.0.0.0:9100"
`
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write overlay: %v", err)
	}

	overlay, err := LoadDeploymentOverlay(path)
	if err != nil {
		t.Fatalf("LoadDeploymentOverlay failed: %v", err)
	}
	if overlay.ZK.ProvingKeyPath != "/keys/proving.key" {
		t.Errorf("got proving key path %q", overlay.ZK.ProvingKeyPath)
	}
	if overlay.ZK.VerifyingKeyPath != "/keys/verifying.key" {
		t.Errorf("expected fallback default, got %q", overlay.ZK.VerifyingKeyPath)
	}
	if overlay.TrustAnchors.ReloadInterval.Duration().Seconds() != 30 {
		t.Errorf("got reload interval %v", overlay.TrustAnchors.ReloadInterval.Duration())
	}
}

func TestApplyOverlayDoesNotOverrideExplicitConfig(t *testing.T) {
	cfg := &Config{ZKProvingKeyPath: "/explicit/proving.key", MetricsAddr: "0.0.0.0:9090"}
	overlay := &DeploymentOverlay{}
	overlay.ZK.ProvingKeyPath = "/overlay/proving.key"
	overlay.Metrics.ListenAddr = "0.0.0.0:9200"

	cfg.ApplyOverlay(overlay)

	if cfg.ZKProvingKeyPath != "/explicit/proving.key" {
		t.Errorf("overlay should not override explicit config, got %q", cfg.ZKProvingKeyPath)
	}
	if cfg.MetricsAddr != "0.0.0.0:9200" {
		t.Errorf("expected overlay metrics addr to apply, got %q", cfg.MetricsAddr)
	}
}
