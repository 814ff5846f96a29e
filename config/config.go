package config

import (
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// Config carries everything the simulation engine and its chain collaborators
// need. Amounts denominated in wei travel through YAML as decimal strings and
// are parsed into big integers on load.
type Config struct {
	// Chain and network settings
	ChainID     uint64 `yaml:"chain_id"`
	RPCEndpoint string `yaml:"rpc_endpoint"`

	// Frontrun sizing search
	SearchBracketHighWei string `yaml:"search_bracket_high_wei"`
	SearchToleranceBps   int64  `yaml:"search_tolerance_bps"`

	// Profit gating
	MinProfitThresholdWei string `yaml:"min_profit_threshold_wei"`

	// Pool access
	BlacklistedTokens []string        `yaml:"blacklisted_tokens"`
	PairCacheSize     int             `yaml:"pair_cache_size"`
	RPCRateLimit      RateLimitConfig `yaml:"rpc_rate_limit"`

	// Feature flags
	PrometheusEnabled  bool   `yaml:"prometheus_enabled"`
	PrometheusEndpoint string `yaml:"prometheus_endpoint"`

	// Parsed amounts and internal components
	SearchBracketHigh  *big.Int    `yaml:"-"`
	MinProfitThreshold *big.Int    `yaml:"-"`
	Logger             *zap.Logger `yaml:"-"`
}

// Duration makes time.Duration YAML-friendly: values are written in Go's
// duration syntax ("500ms", "2s").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

type RateLimitConfig struct {
	RequestsPerSecond float64  `yaml:"requests_per_second"`
	BurstSize         int      `yaml:"burst_size"`
	WaitTimeout       Duration `yaml:"wait_timeout"`
}

func (r *RateLimitConfig) Validate() error {
	if r.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests per second must be positive")
	}
	if r.BurstSize <= 0 {
		return fmt.Errorf("burst size must be positive")
	}
	if r.WaitTimeout <= 0 {
		return fmt.Errorf("wait timeout must be positive")
	}
	return nil
}

func (c *Config) ValidateConfig() error {
	var errors []string

	if c.SearchBracketHigh == nil || c.SearchBracketHigh.Sign() <= 0 {
		errors = append(errors, "search_bracket_high_wei must be positive")
	}
	if c.SearchToleranceBps <= 0 || c.SearchToleranceBps >= 10000 {
		errors = append(errors, "search_tolerance_bps must be in (0, 10000)")
	}
	if c.MinProfitThreshold != nil && c.MinProfitThreshold.Sign() < 0 {
		errors = append(errors, "min_profit_threshold_wei must not be negative")
	}
	if c.PairCacheSize <= 0 {
		errors = append(errors, "pair_cache_size must be positive")
	}
	if err := c.RPCRateLimit.Validate(); err != nil {
		errors = append(errors, fmt.Sprintf("RPC rate limit error: %v", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}
	return nil
}

// parseAmounts turns the wei string fields into big integers, leaving
// defaults in place for fields the file omits.
func (c *Config) parseAmounts() error {
	if c.SearchBracketHighWei != "" {
		v, ok := new(big.Int).SetString(c.SearchBracketHighWei, 10)
		if !ok {
			return fmt.Errorf("invalid search_bracket_high_wei: %q", c.SearchBracketHighWei)
		}
		c.SearchBracketHigh = v
	}
	if c.MinProfitThresholdWei != "" {
		v, ok := new(big.Int).SetString(c.MinProfitThresholdWei, 10)
		if !ok {
			return fmt.Errorf("invalid min_profit_threshold_wei: %q", c.MinProfitThresholdWei)
		}
		c.MinProfitThreshold = v
	}
	return nil
}

// LoadConfig reads the YAML config at cfgFile, applying defaults for omitted
// fields and environment overrides for the RPC endpoint.
func LoadConfig(cfgFile string) (*Config, error) {
	config := DefaultConfig()

	if cfgFile != "" {
		data, err := os.ReadFile(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	if err := config.parseAmounts(); err != nil {
		return nil, err
	}

	if endpoint := os.Getenv(EnvRPCEndpoint); endpoint != "" {
		config.RPCEndpoint = endpoint
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	config.Logger = logger

	if err := config.ValidateConfig(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a configuration suitable for offline simulation:
// mainnet chain ID, a 100-token search bracket, 1% search tolerance.
func DefaultConfig() *Config {
	return &Config{
		ChainID:            1,
		RPCEndpoint:        "http://localhost:8545",
		SearchBracketHigh:  new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18)),
		SearchToleranceBps: 100,
		MinProfitThreshold: big.NewInt(0),
		PairCacheSize:      1024,
		RPCRateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			BurstSize:         100,
			WaitTimeout:       Duration(time.Second),
		},
		PrometheusEnabled:  false,
		PrometheusEndpoint: "",
		Logger:             zap.NewNop(),
	}
}
