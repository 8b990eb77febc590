// Package config defines configuration for the compute core's demo
// entry point. Config is loaded from a YAML file with sensitive fields
// overridable via POLY_* environment variables, the same shape as the
// teacher's internal/config.Load/Validate, trimmed from the
// quoting-bot's strategy/risk/scanner/store/dashboard sections to the
// wallet/signing parameters and the per-scanner thresholds spec.md's
// components need.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"polymarket-hft-core/pkg/price"
)

// Config is the top-level configuration.
type Config struct {
	Wallet      WalletConfig      `mapstructure:"wallet"`
	Correlation CorrelationConfig `mapstructure:"correlation"`
	NegRisk     NegRiskConfig     `mapstructure:"negrisk"`
	Vulture     VultureConfig     `mapstructure:"vulture"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// WalletConfig holds the EOA used to sign orders and the CTF exchange
// contracts it signs against (spec.md §4.7 Domain).
type WalletConfig struct {
	PrivateKey           string `mapstructure:"private_key"`
	ChainID              int    `mapstructure:"chain_id"`
	StandardCTFExchange  string `mapstructure:"standard_ctf_exchange"`
	NegRiskCTFExchange   string `mapstructure:"negrisk_ctf_exchange"`
	StartNonce           uint64 `mapstructure:"start_nonce"`
	DefaultExpirationSec uint64 `mapstructure:"default_expiration_sec"`
}

// CorrelationConfig tunes the violation scanner (spec.md §4.4).
type CorrelationConfig struct {
	MinEdgeBps int64 `mapstructure:"min_edge_bps"`
}

// NegRiskConfig tunes the unity-constraint miner (spec.md §4.5).
type NegRiskConfig struct {
	FeeBps         int64  `mapstructure:"fee_bps"`
	MinArbBps      int64  `mapstructure:"min_arb_bps"`
	MaxPositionUSD string `mapstructure:"max_position_usd"`
}

// MaxPositionPrice parses MaxPositionUSD into a price.Price.
func (c NegRiskConfig) MaxPositionPrice() (price.Price, error) {
	if c.MaxPositionUSD == "" {
		return price.Zero, nil
	}
	return price.Parse(c.MaxPositionUSD)
}

// VultureConfig tunes the spread-capture scanner (spec.md §4.6).
type VultureConfig struct {
	MinSpreadBps  float64  `mapstructure:"min_spread_bps"`
	MaxSpreadBps  float64  `mapstructure:"max_spread_bps"`
	MinMidPrice   float64  `mapstructure:"min_mid_price"`
	EdgeFraction  float64  `mapstructure:"edge_fraction"`
	ForcePostOnly bool     `mapstructure:"force_post_only"`
	CryptoTokens  []string `mapstructure:"crypto_tokens"`
}

// LoggingConfig tunes the ambient slog setup.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads config from a YAML file with env var overrides.
// Sensitive fields use env vars: POLY_PRIVATE_KEY.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("POLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("wallet.chain_id", 137)
	v.SetDefault("wallet.default_expiration_sec", 86400)
	v.SetDefault("correlation.min_edge_bps", 50)
	v.SetDefault("negrisk.min_arb_bps", 30)
	v.SetDefault("negrisk.max_position_usd", "1000")
	v.SetDefault("vulture.min_spread_bps", 50)
	v.SetDefault("vulture.max_spread_bps", 500)
	v.SetDefault("vulture.min_mid_price", 0.05)
	v.SetDefault("vulture.edge_fraction", 0.25)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if key := os.Getenv("POLY_PRIVATE_KEY"); key != "" {
		cfg.Wallet.PrivateKey = key
	}

	return &cfg, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.Wallet.PrivateKey == "" {
		return fmt.Errorf("wallet.private_key is required (set POLY_PRIVATE_KEY)")
	}
	if c.Wallet.ChainID == 0 {
		return fmt.Errorf("wallet.chain_id is required (137 for mainnet)")
	}
	if c.Wallet.StandardCTFExchange == "" && c.Wallet.NegRiskCTFExchange == "" {
		return fmt.Errorf("at least one of wallet.standard_ctf_exchange or wallet.negrisk_ctf_exchange is required")
	}
	if c.NegRisk.MinArbBps <= 0 {
		return fmt.Errorf("negrisk.min_arb_bps must be > 0")
	}
	if _, err := c.NegRisk.MaxPositionPrice(); err != nil {
		return fmt.Errorf("negrisk.max_position_usd: %w", err)
	}
	if c.Vulture.MaxSpreadBps <= c.Vulture.MinSpreadBps {
		return fmt.Errorf("vulture.max_spread_bps must be > vulture.min_spread_bps")
	}
	if c.Vulture.EdgeFraction <= 0 || c.Vulture.EdgeFraction >= 1 {
		return fmt.Errorf("vulture.edge_fraction must be in (0, 1)")
	}
	return nil
}
