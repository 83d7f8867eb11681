package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/backtest"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/indicator"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/scoring"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/structure"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Log        LogConfig              `mapstructure:"log"`
	Data       DataConfig             `mapstructure:"data"`
	Indicators indicator.Periods      `mapstructure:"indicators"`
	Structure  structure.Config       `mapstructure:"structure"`
	Coarse     structure.CoarseConfig `mapstructure:"coarse"`
	Scoring    scoring.Config         `mapstructure:"scoring"`
	Backtest   BacktestConfig         `mapstructure:"backtest"`
	Storage    StorageConfig          `mapstructure:"storage"`
	Metrics    MetricsConfig          `mapstructure:"metrics"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// DataConfig locates the frozen bar series, one <SYMBOL>.csv per instrument.
type DataConfig struct {
	Dir     string   `mapstructure:"dir"`
	Symbols []string `mapstructure:"symbols"`
}

// BacktestConfig holds the simulation settings.
type BacktestConfig struct {
	WarmupBars      int     `mapstructure:"warmup_bars"`
	MaxHoldBars     int     `mapstructure:"max_hold_bars"`
	RiskPerTradePct float64 `mapstructure:"risk_per_trade_pct"`
	PartialFraction float64 `mapstructure:"partial_fraction"`
	TrailATRMult    float64 `mapstructure:"trail_atr_mult"`
	Policy          string  `mapstructure:"policy"` // "stop_first" or "target_first"
	PeriodsPerYear  float64 `mapstructure:"periods_per_year"`
	Workers         int     `mapstructure:"workers"` // 0 uses one per CPU
}

type StorageConfig struct {
	Archive ArchiveConfig `mapstructure:"archive"`
}

type ArchiveConfig struct {
	Type string   `mapstructure:"type"` // "none", "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // empty disables the endpoint
}

// Load reads configuration from file on top of Defaults
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	bt := backtest.DefaultConfig()
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Data: DataConfig{
			Dir: "data",
		},
		Indicators: bt.Indicators,
		Structure:  bt.Structure,
		Coarse:     bt.Coarse,
		Scoring:    bt.Scoring,
		Backtest: BacktestConfig{
			WarmupBars:      bt.WarmupBars,
			MaxHoldBars:     bt.MaxHoldBars,
			RiskPerTradePct: bt.RiskPerTradePct,
			PartialFraction: bt.PartialFraction,
			TrailATRMult:    bt.TrailATRMult,
			Policy:          string(bt.Policy),
			PeriodsPerYear:  bt.PeriodsPerYear,
		},
		Storage: StorageConfig{
			Archive: ArchiveConfig{
				Type: "none",
			},
		},
	}
}

// Simulation maps the file layout onto the immutable simulation config.
func (c *Config) Simulation() backtest.Config {
	return backtest.Config{
		Indicators:      c.Indicators,
		Structure:       c.Structure,
		Coarse:          c.Coarse,
		Scoring:         c.Scoring,
		WarmupBars:      c.Backtest.WarmupBars,
		MaxHoldBars:     c.Backtest.MaxHoldBars,
		RiskPerTradePct: c.Backtest.RiskPerTradePct,
		PartialFraction: c.Backtest.PartialFraction,
		TrailATRMult:    c.Backtest.TrailATRMult,
		Policy:          backtest.Policy(c.Backtest.Policy),
		PeriodsPerYear:  c.Backtest.PeriodsPerYear,
	}
}

// Pipeline returns the signal-generation settings.
func (c *Config) Pipeline() scoring.Pipeline {
	return c.Simulation().Pipeline()
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return core.WrapError(core.ErrInvalidConfig,
			fmt.Errorf("unknown log level %q", c.Log.Level))
	}

	if err := c.Simulation().Validate(); err != nil {
		return err
	}
	if c.Backtest.Workers < 0 {
		return core.WrapError(core.ErrInvalidConfig,
			fmt.Errorf("workers cannot be negative, got %d", c.Backtest.Workers))
	}

	// Archive validation - if a backend is set, check it is usable
	switch c.Storage.Archive.Type {
	case "", "none":
	case "localfs":
		if c.Storage.Archive.Path == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("archive path required when type is localfs"))
		}
	case "s3":
		if c.Storage.Archive.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required when archive type is s3"))
		}
	default:
		return core.WrapError(core.ErrInvalidConfig,
			fmt.Errorf("unknown archive type %q", c.Storage.Archive.Type))
	}

	return nil
}
