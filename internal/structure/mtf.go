package structure

import (
	"fmt"
	"math"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
)

// KeyFunc assigns a base bar to a coarse bucket.
type KeyFunc func(i int, b core.Bar) int64

// ISOWeek groups bars by ISO calendar week.
func ISOWeek(_ int, b core.Bar) int64 {
	y, w := b.Time.ISOWeek()
	return int64(y)*100 + int64(w)
}

// EveryN groups consecutive runs of n bars.
func EveryN(n int) KeyFunc {
	return func(i int, _ core.Bar) int64 {
		return int64(i / n)
	}
}

// CoarseConfig selects the coarse aggregation and its pivot settings.
type CoarseConfig struct {
	Mode   string `mapstructure:"mode"` // "week" or "bars"
	Bars   int    `mapstructure:"bars"`
	Pivots Config `mapstructure:"pivots"`
}

// DefaultCoarseConfig returns weekly buckets with a tighter pivot window.
func DefaultCoarseConfig() CoarseConfig {
	return CoarseConfig{
		Mode:   "week",
		Bars:   5,
		Pivots: Config{Left: 2, Right: 2, MinProminencePct: 1.0},
	}
}

// Validate checks the coarse settings.
func (c CoarseConfig) Validate() error {
	switch c.Mode {
	case "week":
	case "bars":
		if c.Bars < 2 {
			return core.WrapError(core.ErrInvalidConfig,
				fmt.Errorf("coarse bars must be >= 2, got %d", c.Bars))
		}
	default:
		return core.WrapError(core.ErrInvalidConfig,
			fmt.Errorf("unknown coarse mode %q", c.Mode))
	}
	return c.Pivots.Validate()
}

// KeyFunc returns the bucket function for the configured mode.
func (c CoarseConfig) KeyFunc() KeyFunc {
	if c.Mode == "bars" {
		return EveryN(c.Bars)
	}
	return ISOWeek
}

// Aggregate groups a base series into coarse bars. The last bucket may be
// incomplete.
func Aggregate(bars []core.Bar, key KeyFunc) []core.Bar {
	var out []core.Bar
	var cur int64
	for i, b := range bars {
		k := key(i, b)
		if len(out) == 0 || k != cur {
			out = append(out, b)
			cur = k
			continue
		}
		merge(&out[len(out)-1], b)
	}
	return out
}

func merge(agg *core.Bar, b core.Bar) {
	agg.High = math.Max(agg.High, b.High)
	agg.Low = math.Min(agg.Low, b.Low)
	agg.Close = b.Close
	agg.Volume += b.Volume
}

// CoarseTracker runs a detector over coarse buckets built on the fly. A
// bucket is handed to the detector only once a bar with a different key
// arrives, so the coarse trend never reflects a bucket still in progress.
type CoarseTracker struct {
	key    KeyFunc
	det    *Detector
	cur    core.Bar
	curKey int64
	open   bool
	n      int
}

// NewCoarseTracker creates a tracker for the given settings.
func NewCoarseTracker(cfg CoarseConfig) *CoarseTracker {
	return &CoarseTracker{key: cfg.KeyFunc(), det: NewDetector(cfg.Pivots)}
}

// Step feeds the next base bar.
func (c *CoarseTracker) Step(b core.Bar) {
	k := c.key(c.n, b)
	c.n++
	switch {
	case !c.open:
		c.cur, c.curKey, c.open = b, k, true
	case k != c.curKey:
		c.det.Step(c.cur, math.NaN())
		c.cur, c.curKey = b, k
	default:
		merge(&c.cur, b)
	}
}

// Trend returns the trend of the completed coarse buckets.
func (c *CoarseTracker) Trend() Trend {
	return c.det.Trend()
}

// Completed returns the number of coarse bars handed to the detector.
func (c *CoarseTracker) Completed() int {
	return c.det.Len()
}
