package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/backtest"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

func TestLoad_FromFile(t *testing.T) {
	cfgPath := writeConfig(t, `
data:
  dir: "/srv/bars"
  symbols: ["AAPL", "MSFT"]

scoring:
  min_score: 70
  filters:
    disabled: ["volatility"]

backtest:
  max_hold_bars: 15
  policy: target_first

storage:
  archive:
    type: localfs
    path: "/tmp/tradingagents/archive"
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Data.Dir != "/srv/bars" || len(cfg.Data.Symbols) != 2 {
		t.Errorf("unexpected data section %+v", cfg.Data)
	}
	if cfg.Scoring.MinScore != 70 {
		t.Errorf("expected min_score 70, got %f", cfg.Scoring.MinScore)
	}
	if len(cfg.Scoring.Filters.Disabled) != 1 || cfg.Scoring.Filters.Disabled[0] != "volatility" {
		t.Errorf("unexpected disabled filters %v", cfg.Scoring.Filters.Disabled)
	}
	if cfg.Backtest.MaxHoldBars != 15 {
		t.Errorf("expected max_hold_bars 15, got %d", cfg.Backtest.MaxHoldBars)
	}
	if cfg.Storage.Archive.Type != "localfs" {
		t.Errorf("expected localfs, got %s", cfg.Storage.Archive.Type)
	}

	// keys absent from the file keep their defaults
	if cfg.Scoring.Filters.MinADX != 20 {
		t.Errorf("expected default min_adx 20, got %f", cfg.Scoring.Filters.MinADX)
	}
	if cfg.Indicators.RSI != 14 {
		t.Errorf("expected default rsi period 14, got %d", cfg.Indicators.RSI)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TA_TEST_BUCKET", "bt-results")
	cfgPath := writeConfig(t, `
storage:
  archive:
    type: s3
    s3:
      bucket: "${TA_TEST_BUCKET}"
`)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Storage.Archive.S3.Bucket != "bt-results" {
		t.Errorf("expected bucket from env, got %q", cfg.Storage.Archive.S3.Bucket)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Log.Level)
	}
	if cfg.Backtest.Policy != string(backtest.PolicyStopFirst) {
		t.Errorf("expected default policy stop_first, got %s", cfg.Backtest.Policy)
	}
	if !reflect.DeepEqual(cfg.Simulation(), backtest.DefaultConfig()) {
		t.Error("defaults should map onto backtest.DefaultConfig")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:   "valid config",
			modify: func(c *Config) {},
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: core.ErrInvalidConfig,
		},
		{
			name:    "weights do not sum to one",
			modify:  func(c *Config) { c.Scoring.Weights.Volume = 0.5 },
			wantErr: core.ErrInvalidConfig,
		},
		{
			name:    "unknown policy",
			modify:  func(c *Config) { c.Backtest.Policy = "coin_flip" },
			wantErr: core.ErrInvalidConfig,
		},
		{
			name:    "negative workers",
			modify:  func(c *Config) { c.Backtest.Workers = -2 },
			wantErr: core.ErrInvalidConfig,
		},
		{
			name:    "localfs without path",
			modify:  func(c *Config) { c.Storage.Archive.Type = "localfs" },
			wantErr: core.ErrConfigMissing,
		},
		{
			name:    "s3 without bucket",
			modify:  func(c *Config) { c.Storage.Archive.Type = "s3" },
			wantErr: core.ErrConfigMissing,
		},
		{
			name:    "unknown archive type",
			modify:  func(c *Config) { c.Storage.Archive.Type = "ftp" },
			wantErr: core.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
