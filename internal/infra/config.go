package infra

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultUserAgent identifies the tool against ESI. CCP asks for a way
	// to reach the operator, so deployments should override the contact via
	// config or INDY_USER_AGENT.
	DefaultUserAgent = "IndyGo/1.0 (set-contact-in-config)"

	defaultBaseURL    = "https://esi.evetech.net/latest"
	defaultDatasource = "tranquility"

	// The Forge / Jita IV - Moon 4 - Caldari Navy Assembly Plant.
	defaultRegionID  = 10000002
	defaultStationID = 60003760
)

// Config holds every knob the engine recognizes. Loaded once at startup;
// read-only afterwards.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	ESI struct {
		BaseURL        string  `yaml:"base_url"`
		Datasource     string  `yaml:"datasource"`
		UserAgent      string  `yaml:"user_agent"`
		TimeoutSec     int     `yaml:"timeout_sec"`
		RequestsPerSec float64 `yaml:"requests_per_sec"`
		Burst          int     `yaml:"burst"`
	} `yaml:"esi"`

	Market struct {
		RegionID         int32 `yaml:"region_id"`
		StationID        int64 `yaml:"station_id"`
		MaxPages         int   `yaml:"max_pages"`
		RetryIntervalSec int   `yaml:"retry_interval_sec"`
		// MaxRetries bounds consecutive transient failures per page.
		// 0 keeps the historical behavior: retry forever.
		MaxRetries int `yaml:"max_retries"`
	} `yaml:"market"`

	Costs CostConfig `yaml:"costs"`

	// Datasets lists the recipe files to run through the engine, in order.
	Datasets []string `yaml:"datasets"`

	Icons struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"icons"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// CostConfig is the multiplier chain applied to raw material cost.
// Overhead comes either as a single overhead_factor or composed from
// base_overhead and an additive tax_rate; the two forms are exclusive so
// the source of the markup stays distinguishable in reports and logs.
type CostConfig struct {
	MaterialDiscount decimal.Decimal `yaml:"material_discount_factor"`
	OverheadFactor   decimal.Decimal `yaml:"overhead_factor"`
	BaseOverhead     decimal.Decimal `yaml:"base_overhead"`
	TaxRate          decimal.Decimal `yaml:"tax_rate"`
}

// Discount returns the material discount factor, defaulting to 1.
func (c CostConfig) Discount() decimal.Decimal {
	if c.MaterialDiscount.IsPositive() {
		return c.MaterialDiscount
	}
	return decimal.NewFromInt(1)
}

// Overhead returns the effective overhead factor: overhead_factor when
// given, otherwise base_overhead x (1 + tax_rate), otherwise 1.
func (c CostConfig) Overhead() decimal.Decimal {
	if c.OverheadFactor.IsPositive() {
		return c.OverheadFactor
	}
	if c.BaseOverhead.IsPositive() {
		one := decimal.NewFromInt(1)
		return c.BaseOverhead.Mul(one.Add(c.TaxRate))
	}
	return decimal.NewFromInt(1)
}

func (c CostConfig) validate() error {
	if c.OverheadFactor.IsPositive() && c.BaseOverhead.IsPositive() {
		return fmt.Errorf("overhead_factor and base_overhead are exclusive")
	}
	if c.MaterialDiscount.IsNegative() || c.OverheadFactor.IsNegative() ||
		c.BaseOverhead.IsNegative() || c.TaxRate.IsNegative() {
		return fmt.Errorf("cost factors must be non-negative")
	}
	return nil
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ESI.BaseURL == "" {
		c.ESI.BaseURL = defaultBaseURL
	}
	if c.ESI.Datasource == "" {
		c.ESI.Datasource = defaultDatasource
	}
	if c.ESI.UserAgent == "" {
		c.ESI.UserAgent = DefaultUserAgent
	}
	if c.ESI.TimeoutSec <= 0 {
		c.ESI.TimeoutSec = 30
	}
	if c.ESI.RequestsPerSec <= 0 {
		c.ESI.RequestsPerSec = 5
	}
	if c.ESI.Burst <= 0 {
		c.ESI.Burst = 1
	}
	if c.Market.RegionID == 0 {
		c.Market.RegionID = defaultRegionID
	}
	if c.Market.StationID == 0 {
		c.Market.StationID = defaultStationID
	}
	if c.Market.MaxPages <= 0 {
		c.Market.MaxPages = 10
	}
	if c.Market.RetryIntervalSec <= 0 {
		c.Market.RetryIntervalSec = 2
	}
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if !hasPrefix(c.ESI.BaseURL, "http://") && !hasPrefix(c.ESI.BaseURL, "https://") {
		return fmt.Errorf("invalid ESI base URL: %s", c.ESI.BaseURL)
	}
	if len(c.Datasets) == 0 {
		return fmt.Errorf("at least one recipe dataset is required")
	}
	if c.Market.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0")
	}
	if err := c.Costs.validate(); err != nil {
		return err
	}
	return nil
}

// Timeout is the per-request network timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.ESI.TimeoutSec) * time.Second
}

// RetryInterval is the fixed pause before retrying a transient failure.
func (c *Config) RetryInterval() time.Duration {
	return time.Duration(c.Market.RetryIntervalSec) * time.Second
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv applies environment overrides where present.
func overrideWithEnv(cfg *Config) {
	if ua := os.Getenv("INDY_USER_AGENT"); ua != "" {
		cfg.ESI.UserAgent = ua
	}
	if ds := os.Getenv("INDY_DATASOURCE"); ds != "" {
		cfg.ESI.Datasource = ds
	}
}
