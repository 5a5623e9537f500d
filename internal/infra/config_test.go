package infra

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
datasets:
  - "recipes/t2.yaml"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.ESI.BaseURL != "https://esi.evetech.net/latest" {
		t.Errorf("base url = %q", cfg.ESI.BaseURL)
	}
	if cfg.Market.RegionID != 10000002 {
		t.Errorf("region = %d, want The Forge", cfg.Market.RegionID)
	}
	if cfg.Market.StationID != 60003760 {
		t.Errorf("station = %d, want Jita 4-4", cfg.Market.StationID)
	}
	if cfg.Market.MaxPages != 10 {
		t.Errorf("max pages = %d, want 10", cfg.Market.MaxPages)
	}
	if cfg.Market.RetryIntervalSec != 2 {
		t.Errorf("retry interval = %d, want 2", cfg.Market.RetryIntervalSec)
	}
	if cfg.Market.MaxRetries != 0 {
		t.Errorf("max retries = %d, want 0 (unbounded)", cfg.Market.MaxRetries)
	}

	// Unset multipliers behave as identity.
	if !cfg.Costs.Discount().Equal(decimal.NewFromInt(1)) {
		t.Errorf("discount = %v, want 1", cfg.Costs.Discount())
	}
	if !cfg.Costs.Overhead().Equal(decimal.NewFromInt(1)) {
		t.Errorf("overhead = %v, want 1", cfg.Costs.Overhead())
	}
}

func TestLoadConfigCostFactors(t *testing.T) {
	t.Run("flat overhead", func(t *testing.T) {
		path := writeConfig(t, `
costs:
  material_discount_factor: 0.9
  overhead_factor: 1.1
datasets: ["a.yaml"]
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if !cfg.Costs.Discount().Equal(decimal.NewFromFloat(0.9)) {
			t.Errorf("discount = %v", cfg.Costs.Discount())
		}
		if !cfg.Costs.Overhead().Equal(decimal.NewFromFloat(1.1)) {
			t.Errorf("overhead = %v", cfg.Costs.Overhead())
		}
	})

	t.Run("composed overhead", func(t *testing.T) {
		path := writeConfig(t, `
costs:
  base_overhead: 1.05
  tax_rate: 0.05
datasets: ["a.yaml"]
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		// 1.05 * (1 + 0.05) = 1.1025
		if !cfg.Costs.Overhead().Equal(decimal.NewFromFloat(1.1025)) {
			t.Errorf("overhead = %v, want 1.1025", cfg.Costs.Overhead())
		}
	})

	t.Run("both forms rejected", func(t *testing.T) {
		path := writeConfig(t, `
costs:
  overhead_factor: 1.1
  base_overhead: 1.05
datasets: ["a.yaml"]
`)
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected exclusive overhead forms to be rejected")
		}
	})
}

func TestLoadConfigValidation(t *testing.T) {
	t.Run("no datasets", func(t *testing.T) {
		path := writeConfig(t, `
logging:
  level: info
`)
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected missing datasets to be rejected")
		}
	})

	t.Run("bad base url", func(t *testing.T) {
		path := writeConfig(t, `
esi:
  base_url: "ftp://example.com"
datasets: ["a.yaml"]
`)
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected non-http base url to be rejected")
		}
	})

	t.Run("negative max retries", func(t *testing.T) {
		path := writeConfig(t, `
market:
  max_retries: -1
datasets: ["a.yaml"]
`)
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected negative max_retries to be rejected")
		}
	})
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("INDY_USER_AGENT", "IndyGo/test (ops@example.com)")

	path := writeConfig(t, `
esi:
  user_agent: "from-file"
datasets: ["a.yaml"]
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ESI.UserAgent != "IndyGo/test (ops@example.com)" {
		t.Errorf("user agent = %q, want env override", cfg.ESI.UserAgent)
	}
}
