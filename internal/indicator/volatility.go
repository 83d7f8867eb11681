package indicator

import (
	"math"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
)

// TrueRange computes the per-bar true range; the first bar uses high-low.
func TrueRange(bars []core.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		if i == 0 {
			out[i] = b.High - b.Low
			continue
		}
		out[i] = trueRange(b, bars[i-1].Close)
	}
	return out
}

func trueRange(b core.Bar, prevClose float64) float64 {
	tr := b.High - b.Low
	tr = math.Max(tr, math.Abs(b.High-prevClose))
	return math.Max(tr, math.Abs(b.Low-prevClose))
}

// ATR computes the Average True Range with Wilder smoothing.
func ATR(bars []core.Bar, period int) []float64 {
	return RMA(TrueRange(bars), period)
}

// BollingerBands holds the band series.
type BollingerBands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
	Width  []float64 // (upper-lower)/middle
}

// Bollinger computes SMA(period) ± k·σ using the population deviation.
func Bollinger(values []float64, period int, k float64) BollingerBands {
	n := len(values)
	bb := BollingerBands{
		Upper:  nanSlice(n),
		Middle: SMA(values, period),
		Lower:  nanSlice(n),
		Width:  nanSlice(n),
	}
	sd := StdDev(values, period)
	for i := range values {
		if math.IsNaN(bb.Middle[i]) {
			continue
		}
		bb.Upper[i] = bb.Middle[i] + k*sd[i]
		bb.Lower[i] = bb.Middle[i] - k*sd[i]
		if bb.Middle[i] != 0 {
			bb.Width[i] = (bb.Upper[i] - bb.Lower[i]) / bb.Middle[i]
		}
	}
	return bb
}
