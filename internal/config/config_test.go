package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"empower1.com/sequencer/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
node:
  chain_id: "test-chain"
  base_prefix: "sequencer"
readiness:
  listen_addr: ":26661"
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Node.MaxTxSizeBytes != config.DefaultMaxTxSizeBytes {
		t.Fatalf("max_tx_size_bytes = %d, want default %d", cfg.Node.MaxTxSizeBytes, config.DefaultMaxTxSizeBytes)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("logging.level = %q, want default %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("logging.format = %q, want default %q", cfg.Logging.Format, "console")
	}
	if cfg.Metrics.Namespace != "sequencer" {
		t.Fatalf("metrics.namespace = %q, want default %q", cfg.Metrics.Namespace, "sequencer")
	}
}

func TestLoadRejectsMissingChainID(t *testing.T) {
	path := writeConfig(t, `
node:
  base_prefix: "sequencer"
readiness:
  listen_addr: ":26661"
`)

	if _, err := config.Load(path); err == nil {
		t.Fatalf("expected an error for missing node.chain_id")
	}
}

func TestLoadRejectsMissingReadinessAddr(t *testing.T) {
	path := writeConfig(t, `
node:
  chain_id: "test-chain"
  base_prefix: "sequencer"
`)

	if _, err := config.Load(path); err == nil {
		t.Fatalf("expected an error for missing readiness.listen_addr")
	}
}

func TestEnvironmentOverridesChainID(t *testing.T) {
	path := writeConfig(t, `
node:
  chain_id: "from-file"
  base_prefix: "sequencer"
readiness:
  listen_addr: ":26661"
`)

	t.Setenv("SEQUENCER_CHAIN_ID", "from-env")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Node.ChainID != "from-env" {
		t.Fatalf("chain_id = %q, want %q", cfg.Node.ChainID, "from-env")
	}
}

func TestLoadReturnsErrorForMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}
