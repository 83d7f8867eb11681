package indicator

import (
	"math"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
)

// Cloud holds Ichimoku lead spans projected forward for chart rendering.
//
// DISPLAY ONLY, NON-CAUSAL: SpanA[j] and SpanB[j] were computed from bars up
// to j-Displacement and are stored at index j, which can lie past the last
// bar. Cloud is deliberately not part of Frame; decision code never sees it.
type Cloud struct {
	Displacement int
	SpanA        []float64 // len(bars) + Displacement
	SpanB        []float64
}

// CloudPeriods configures the cloud projection.
type CloudPeriods struct {
	Tenkan  int `mapstructure:"tenkan"`
	Kijun   int `mapstructure:"kijun"`
	SenkouB int `mapstructure:"senkou_b"`
}

// ProjectCloud builds the forward-shifted lead spans.
func ProjectCloud(bars []core.Bar, p CloudPeriods) Cloud {
	n := len(bars)
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, b := range bars {
		highs[i], lows[i] = b.High, b.Low
	}

	mid := func(period int) []float64 {
		hh, ll := Highest(highs, period), Lowest(lows, period)
		out := nanSlice(n)
		for i := range out {
			if !math.IsNaN(hh[i]) {
				out[i] = (hh[i] + ll[i]) / 2
			}
		}
		return out
	}
	tenkan, kijun, senkouB := mid(p.Tenkan), mid(p.Kijun), mid(p.SenkouB)

	disp := p.Kijun
	c := Cloud{Displacement: disp, SpanA: nanSlice(n + disp), SpanB: nanSlice(n + disp)}
	for i := 0; i < n; i++ {
		if !math.IsNaN(tenkan[i]) && !math.IsNaN(kijun[i]) {
			c.SpanA[i+disp] = (tenkan[i] + kijun[i]) / 2
		}
		c.SpanB[i+disp] = senkouB[i]
	}
	return c
}

// Origin returns the bar index whose data produced the spans stored at j.
func (c Cloud) Origin(j int) int {
	return j - c.Displacement
}

// Position describes where price sits relative to the cloud at bar j:
// "above", "below", "inside", or "" while either span is undefined.
func (c Cloud) Position(j int, price float64) string {
	if j < 0 || j >= len(c.SpanA) || math.IsNaN(c.SpanA[j]) || math.IsNaN(c.SpanB[j]) {
		return ""
	}
	top, bottom := math.Max(c.SpanA[j], c.SpanB[j]), math.Min(c.SpanA[j], c.SpanB[j])
	switch {
	case price > top:
		return "above"
	case price < bottom:
		return "below"
	default:
		return "inside"
	}
}
