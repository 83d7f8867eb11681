package scoring

import (
	"fmt"
	"math"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
)

// WeightTolerance bounds how far the weight sum may drift from 1.
const WeightTolerance = 1e-6

// FilterName identifies a mandatory filter
type FilterName string

const (
	FilterCoarseAlignment FilterName = "coarse_alignment"
	FilterLongMA          FilterName = "long_ma"
	FilterTrendStrength   FilterName = "trend_strength"
	FilterSuperTrend      FilterName = "supertrend"
	FilterVolatility      FilterName = "volatility"
)

// AllFilters lists the filters in evaluation order.
var AllFilters = []FilterName{
	FilterCoarseAlignment,
	FilterLongMA,
	FilterTrendStrength,
	FilterSuperTrend,
	FilterVolatility,
}

// FilterConfig holds filter thresholds.
type FilterConfig struct {
	MinADX    float64  `mapstructure:"min_adx"`
	MinATRPct float64  `mapstructure:"min_atr_pct"`
	MaxATRPct float64  `mapstructure:"max_atr_pct"`
	Disabled  []string `mapstructure:"disabled"`
}

func (f FilterConfig) enabled(name FilterName) bool {
	for _, d := range f.Disabled {
		if FilterName(d) == name {
			return false
		}
	}
	return true
}

// Weights holds the composite weights; they must sum to 1.
type Weights struct {
	Structure  float64 `mapstructure:"structure" json:"structure"`
	Trend      float64 `mapstructure:"trend" json:"trend"`
	Momentum   float64 `mapstructure:"momentum" json:"momentum"`
	Volatility float64 `mapstructure:"volatility" json:"volatility"`
	Volume     float64 `mapstructure:"volume" json:"volume"`
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	return w.Structure + w.Trend + w.Momentum + w.Volatility + w.Volume
}

// LevelConfig holds ATR multipliers for trade levels.
type LevelConfig struct {
	StopATR    float64 `mapstructure:"stop_atr"`
	Target1ATR float64 `mapstructure:"target1_atr"`
	Target2ATR float64 `mapstructure:"target2_atr"`
	TickSize   float64 `mapstructure:"tick_size"` // 0 disables rounding
}

// Config holds scoring settings.
type Config struct {
	Filters        FilterConfig `mapstructure:"filters"`
	Weights        Weights      `mapstructure:"weights"`
	Levels         LevelConfig  `mapstructure:"levels"`
	MinScore       float64      `mapstructure:"min_score"`
	EventFreshBars int          `mapstructure:"event_fresh_bars"`
}

// DefaultConfig returns the standard weight and filter set.
func DefaultConfig() Config {
	return Config{
		Filters: FilterConfig{
			MinADX:    20,
			MinATRPct: 0.5,
			MaxATRPct: 8,
		},
		Weights: Weights{
			Structure:  0.25,
			Trend:      0.20,
			Momentum:   0.20,
			Volatility: 0.15,
			Volume:     0.20,
		},
		Levels: LevelConfig{
			StopATR:    1.5,
			Target1ATR: 2.0,
			Target2ATR: 3.5,
		},
		MinScore:       60,
		EventFreshBars: 20,
	}
}

// Validate checks weights, thresholds and multipliers.
func (c Config) Validate() error {
	w := c.Weights
	for _, v := range []float64{w.Structure, w.Trend, w.Momentum, w.Volatility, w.Volume} {
		if v < 0 {
			return core.WrapError(core.ErrInvalidConfig, fmt.Errorf("score weights cannot be negative"))
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > WeightTolerance {
		return core.WrapError(core.ErrInvalidConfig,
			fmt.Errorf("score weights must sum to 1, got %f", sum))
	}

	f := c.Filters
	if f.MinATRPct < 0 || f.MaxATRPct <= f.MinATRPct {
		return core.WrapError(core.ErrInvalidConfig,
			fmt.Errorf("volatility band must satisfy 0 <= min < max, got [%f, %f]", f.MinATRPct, f.MaxATRPct))
	}
	for _, d := range f.Disabled {
		if !knownFilter(FilterName(d)) {
			return core.WrapError(core.ErrInvalidConfig, fmt.Errorf("unknown filter %q", d))
		}
	}

	l := c.Levels
	if l.StopATR <= 0 || l.Target1ATR <= 0 || l.Target2ATR < l.Target1ATR {
		return core.WrapError(core.ErrInvalidConfig,
			fmt.Errorf("level multipliers must satisfy stop > 0, 0 < target1 <= target2"))
	}
	if l.TickSize < 0 {
		return core.WrapError(core.ErrInvalidConfig, fmt.Errorf("tick_size cannot be negative"))
	}

	if c.MinScore < 0 || c.MinScore > 100 {
		return core.WrapError(core.ErrInvalidConfig,
			fmt.Errorf("min_score must be between 0 and 100, got %f", c.MinScore))
	}
	if c.EventFreshBars < 0 {
		return core.WrapError(core.ErrInvalidConfig, fmt.Errorf("event_fresh_bars cannot be negative"))
	}
	return nil
}

func knownFilter(name FilterName) bool {
	for _, f := range AllFilters {
		if f == name {
			return true
		}
	}
	return false
}
