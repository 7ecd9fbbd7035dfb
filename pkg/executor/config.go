package executor

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"futgate/pkg/confkit"
)

// Config controls runtime behaviour for the execution safety layer.
type Config struct {
	// RiskFraction of available margin a single entry may consume, in (0,1].
	RiskFraction float64 `yaml:"risk_fraction"`
	// SafetyBuffer further discounts usable margin, in (0,1].
	SafetyBuffer float64 `yaml:"safety_buffer"`
	// DefaultLeverage applies when an entry request omits leverage.
	DefaultLeverage int `yaml:"default_leverage"`
	// MaxLeverage caps requested leverage.
	MaxLeverage int `yaml:"max_leverage"`
	// DefaultRiskReward derives take-profit from the stop distance when no
	// explicit take-profit input is usable.
	DefaultRiskReward float64 `yaml:"default_risk_reward"`
	// DefaultLotStep is used when instrument metadata is unavailable.
	DefaultLotStep float64 `yaml:"default_lot_step"`
	// DryRun previews every entry instead of submitting it.
	DryRun bool `yaml:"dry_run"`
}

const (
	defaultRiskFraction = 0.3
	defaultSafetyBuffer = 0.85
	defaultMaxLeverage  = 20
	defaultLotStep      = 0.001

	// Bounded retry for resolving protective-order quantity from a
	// position opened moments earlier.
	quantityRetryAttempts = 3
	quantityRetryDelay    = 200 * time.Millisecond
)

// DefaultConfig returns a conservative configuration with dry-run enabled.
func DefaultConfig() *Config {
	cfg := &Config{DryRun: true}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open executor config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read executor config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal executor config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.RiskFraction == 0 {
		c.RiskFraction = defaultRiskFraction
	}
	if c.SafetyBuffer == 0 {
		c.SafetyBuffer = defaultSafetyBuffer
	}
	if c.MaxLeverage == 0 {
		c.MaxLeverage = defaultMaxLeverage
	}
	if c.DefaultLeverage == 0 {
		c.DefaultLeverage = 1
	}
	if c.DefaultRiskReward == 0 {
		c.DefaultRiskReward = 1.0
	}
	if c.DefaultLotStep == 0 {
		c.DefaultLotStep = defaultLotStep
	}
}

// Validate ensures the configuration cannot over-leverage the account.
func (c *Config) Validate() error {
	if c.RiskFraction <= 0 || c.RiskFraction > 1 {
		return fmt.Errorf("executor config: risk_fraction must be in (0,1], got %v", c.RiskFraction)
	}
	if c.SafetyBuffer <= 0 || c.SafetyBuffer > 1 {
		return fmt.Errorf("executor config: safety_buffer must be in (0,1], got %v", c.SafetyBuffer)
	}
	if c.DefaultLeverage <= 0 {
		return fmt.Errorf("executor config: default_leverage must be positive, got %d", c.DefaultLeverage)
	}
	if c.MaxLeverage < c.DefaultLeverage {
		return fmt.Errorf("executor config: max_leverage %d below default_leverage %d", c.MaxLeverage, c.DefaultLeverage)
	}
	if c.DefaultRiskReward < 0 {
		return fmt.Errorf("executor config: default_risk_reward cannot be negative, got %v", c.DefaultRiskReward)
	}
	if c.DefaultLotStep <= 0 {
		return fmt.Errorf("executor config: default_lot_step must be positive, got %v", c.DefaultLotStep)
	}
	return nil
}
