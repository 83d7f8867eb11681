package structure

import (
	"fmt"
	"time"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
)

// Kind is the side of a swing pivot
type Kind string

const (
	High Kind = "HIGH"
	Low  Kind = "LOW"
)

// Label classifies a pivot against the previous pivot of the same kind
type Label string

const (
	HigherHigh Label = "HH"
	LowerHigh  Label = "LH"
	HigherLow  Label = "HL"
	LowerLow   Label = "LL"
)

// Trend is the market state derived from the latest high and low pivots
type Trend string

const (
	Uptrend   Trend = "UPTREND"
	Downtrend Trend = "DOWNTREND"
	Undefined Trend = "UNDEFINED"
)

// EventKind is the type of a structural break
type EventKind string

const (
	BOSUp     EventKind = "BOS_UP"
	BOSDown   EventKind = "BOS_DOWN"
	CHOCHUp   EventKind = "CHOCH_UP"
	CHOCHDown EventKind = "CHOCH_DOWN"
)

// NoEvent labels trades entered without a preceding structural break.
const NoEvent EventKind = "NONE"

// Pivot is a confirmed swing point. It is immutable once emitted.
type Pivot struct {
	Index       int       `json:"index"`
	ConfirmedAt int       `json:"confirmed_at"` // bar index at which it became known
	Time        time.Time `json:"time"`
	Price       float64   `json:"price"`
	Kind        Kind      `json:"kind"`
	Label       Label     `json:"label"`
	Prominence  float64   `json:"prominence"` // percent of price
}

// Event is a structural break of a confirmed pivot level.
type Event struct {
	Index       int       `json:"index"`
	Time        time.Time `json:"time"`
	Kind        EventKind `json:"kind"`
	BrokenLevel float64   `json:"broken_level"`
	PivotIndex  int       `json:"pivot_index"`
	TrendBefore Trend     `json:"trend_before"`
	RelVolume   float64   `json:"rel_volume"` // 0 when unknown
}

// Direction returns the side an event points to.
func (k EventKind) Direction() core.Direction {
	if k == BOSDown || k == CHOCHDown {
		return core.Short
	}
	return core.Long
}

// IsContinuation reports whether the event is a break of structure.
func (k EventKind) IsContinuation() bool {
	return k == BOSUp || k == BOSDown
}

// Config holds pivot detection settings.
type Config struct {
	Left             int     `mapstructure:"left"`
	Right            int     `mapstructure:"right"`
	MinProminencePct float64 `mapstructure:"min_prominence_pct"`
}

// DefaultConfig returns the base timeframe pivot settings.
func DefaultConfig() Config {
	return Config{Left: 5, Right: 5, MinProminencePct: 1.0}
}

// Validate checks the pivot window.
func (c Config) Validate() error {
	if c.Left < 1 || c.Right < 1 {
		return core.WrapError(core.ErrInvalidConfig,
			fmt.Errorf("pivot left/right must be >= 1, got %d/%d", c.Left, c.Right))
	}
	if c.MinProminencePct < 0 {
		return core.WrapError(core.ErrInvalidConfig,
			fmt.Errorf("min_prominence_pct cannot be negative, got %f", c.MinProminencePct))
	}
	return nil
}
