package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  port: 9090
fetcher:
  engine: browser
  timeoutMs: 1500
  languages: ["es-ES", "es"]
assets:
  root: /tmp/a
  maxBytes: 2048
retention:
  enabled: true
  extractionDays: 7
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Fetcher.Engine != "browser" || cfg.Fetcher.TimeoutMs != 1500 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if len(cfg.Fetcher.Languages) != 2 || cfg.Assets.MaxBytes != 2048 || cfg.Retention.ExtractionDays != 7 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestParse_UnknownField(t *testing.T) {
	if _, err := Parse([]byte("server:\n  prot: 1\n")); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestRead_SampleConfig(t *testing.T) {
	path := filepath.Join("..", "..", "config", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Skipf("sample config not found: %v", err)
	}
	cfg, err := Read(path)
	if err != nil {
		t.Fatalf("Read sample config: %v", err)
	}
	if cfg.Assets.PublicPrefix != "/cloned-assets" || cfg.Assets.BatchSize != 5 {
		t.Fatalf("unexpected sample assets config %+v", cfg.Assets)
	}
}
