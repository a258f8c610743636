// Package config loads the node's admission-core configuration from a
// YAML file with environment-variable overrides, in the same
// Load/Validate shape as the teacher pack's internal/config package.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for cmd/sequencerd.
type Config struct {
	Node      NodeConfig      `yaml:"node"`
	Readiness ReadinessConfig `yaml:"readiness"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// NodeConfig carries the chain identity and admission limits the state
// store and CheckTx pipeline are seeded with.
type NodeConfig struct {
	ChainID        string    `yaml:"chain_id"`
	BasePrefix     string    `yaml:"base_prefix"`
	MaxTxSizeBytes int       `yaml:"max_tx_size_bytes"`
	FeeParams      FeeParams `yaml:"fee_params"`
}

// FeeParams mirrors state.FeeParams so genesis fee parameters can be read
// from YAML without internal/config importing internal/state (which
// itself imports internal/cost); cmd/sequencerd converts this into a
// state.FeeParams when seeding the store.
type FeeParams struct {
	TransferBaseFee              uint64 `yaml:"transfer_base_fee"`
	SequenceActionBaseFee        uint64 `yaml:"sequence_action_base_fee"`
	SequenceActionByteMultiplier uint64 `yaml:"sequence_action_byte_multiplier"`
	Ics20WithdrawalBaseFee       uint64 `yaml:"ics20_withdrawal_base_fee"`
	InitBridgeAccountBaseFee     uint64 `yaml:"init_bridge_account_base_fee"`
	BridgeLockByteCostMultiplier uint64 `yaml:"bridge_lock_byte_cost_multiplier"`
	BridgeSudoChangeBaseFee      uint64 `yaml:"bridge_sudo_change_base_fee"`
}

// ReadinessConfig configures the GET /readyz HTTP server (spec.md §6).
type ReadinessConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// MetricsConfig configures the Prometheus registry's namespace and the
// GET /metrics HTTP server.
type MetricsConfig struct {
	Namespace  string `yaml:"namespace"`
	ListenAddr string `yaml:"listen_addr"`
}

// LoggingConfig configures the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultMaxTxSizeBytes matches spec.md §4.1 step 1 / §6: "Maximum
// accepted size: 256_000 bytes."
const DefaultMaxTxSizeBytes = 256_000

// Load reads config from path, applies environment-variable overrides,
// fills defaults, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if v := os.Getenv("SEQUENCER_CHAIN_ID"); v != "" {
		cfg.Node.ChainID = v
	}
	if v := os.Getenv("SEQUENCER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SEQUENCER_READINESS_ADDR"); v != "" {
		cfg.Readiness.ListenAddr = v
	}
	if v := os.Getenv("SEQUENCER_METRICS_ADDR"); v != "" {
		cfg.Metrics.ListenAddr = v
	}

	if cfg.Node.MaxTxSizeBytes == 0 {
		cfg.Node.MaxTxSizeBytes = DefaultMaxTxSizeBytes
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "sequencer"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects a configuration missing the fields the admission core
// cannot safely run without.
func (c *Config) Validate() error {
	if c.Node.ChainID == "" {
		return fmt.Errorf("node.chain_id is required")
	}
	if c.Node.BasePrefix == "" {
		return fmt.Errorf("node.base_prefix is required")
	}
	if c.Node.MaxTxSizeBytes <= 0 {
		return fmt.Errorf("node.max_tx_size_bytes must be positive")
	}
	if c.Readiness.ListenAddr == "" {
		return fmt.Errorf("readiness.listen_addr is required")
	}
	return nil
}
