package backtest

import (
	"fmt"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/indicator"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/scoring"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/structure"
)

// Policy orders the stop and target checks within one bar.
type Policy string

const (
	// PolicyStopFirst checks the stop before either target.
	PolicyStopFirst Policy = "stop_first"
	// PolicyTargetFirst checks target2, then target1, then the stop.
	PolicyTargetFirst Policy = "target_first"
)

// Config holds every setting of a backtest. It is passed by value.
type Config struct {
	Indicators      indicator.Periods      `mapstructure:"indicators"`
	Structure       structure.Config       `mapstructure:"structure"`
	Coarse          structure.CoarseConfig `mapstructure:"coarse"`
	Scoring         scoring.Config         `mapstructure:"scoring"`
	WarmupBars      int                    `mapstructure:"warmup_bars"`
	MaxHoldBars     int                    `mapstructure:"max_hold_bars"`
	RiskPerTradePct float64                `mapstructure:"risk_per_trade_pct"`
	PartialFraction float64                `mapstructure:"partial_fraction"`
	TrailATRMult    float64                `mapstructure:"trail_atr_mult"`
	Policy          Policy                 `mapstructure:"policy"`
	PeriodsPerYear  float64                `mapstructure:"periods_per_year"`
}

// DefaultConfig returns daily-bar defaults.
func DefaultConfig() Config {
	p := indicator.DefaultPeriods()
	return Config{
		Indicators:      p,
		Structure:       structure.DefaultConfig(),
		Coarse:          structure.DefaultCoarseConfig(),
		Scoring:         scoring.DefaultConfig(),
		WarmupBars:      p.Longest() + 10,
		MaxHoldBars:     20,
		RiskPerTradePct: 1,
		PartialFraction: 0.5,
		TrailATRMult:    1,
		Policy:          PolicyStopFirst,
		PeriodsPerYear:  252,
	}
}

// Pipeline returns the signal-generation part of the config.
func (c Config) Pipeline() scoring.Pipeline {
	return scoring.Pipeline{
		Indicators: c.Indicators,
		Structure:  c.Structure,
		Coarse:     c.Coarse,
		Scoring:    c.Scoring,
	}
}

// Validate checks the simulation settings and every stage config.
func (c Config) Validate() error {
	if err := c.Pipeline().Validate(); err != nil {
		return err
	}
	if c.WarmupBars < 1 {
		return invalidConfig("warmup_bars must be >= 1, got %d", c.WarmupBars)
	}
	if c.MaxHoldBars < 1 {
		return invalidConfig("max_hold_bars must be >= 1, got %d", c.MaxHoldBars)
	}
	if c.RiskPerTradePct <= 0 || c.RiskPerTradePct > 100 {
		return invalidConfig("risk_per_trade_pct must be in (0, 100], got %f", c.RiskPerTradePct)
	}
	if c.PartialFraction <= 0 || c.PartialFraction > 1 {
		return invalidConfig("partial_fraction must be in (0, 1], got %f", c.PartialFraction)
	}
	if c.TrailATRMult <= 0 {
		return invalidConfig("trail_atr_mult must be positive, got %f", c.TrailATRMult)
	}
	if c.Policy != PolicyStopFirst && c.Policy != PolicyTargetFirst {
		return invalidConfig("unknown exit policy %q", c.Policy)
	}
	if c.PeriodsPerYear <= 0 {
		return invalidConfig("periods_per_year must be positive, got %f", c.PeriodsPerYear)
	}
	return nil
}

func invalidConfig(format string, args ...any) error {
	return core.WrapError(core.ErrInvalidConfig, fmt.Errorf(format, args...))
}
