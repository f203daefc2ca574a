package domain

import (
	"testing"
	"time"
)

func TestDefaultConfigMatchesZeroConfigBehavior(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr != "localhost:443" {
		t.Fatalf("expected addr localhost:443, got %s", cfg.Server.Addr)
	}
	if cfg.TLS.KeyFile != "privkey.pem" || cfg.TLS.CertFile != "certificate.pem" {
		t.Fatalf("unexpected credential files: %+v", cfg.TLS)
	}
	if cfg.Root.Dir != "." {
		t.Fatalf("expected root '.', got %s", cfg.Root.Dir)
	}
	if cfg.Root.Fallback != "" {
		t.Fatalf("expected fallback disabled by default")
	}
	if !cfg.Root.HideKey {
		t.Fatalf("expected key hiding enabled by default")
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Fatalf("expected 5s shutdown timeout, got %s", cfg.Server.ShutdownTimeout)
	}
}
