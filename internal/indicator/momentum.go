package indicator

import "math"

// RSI computes the Relative Strength Index with Wilder smoothing.
// A window with no losses reads 100, a window with no movement reads 50.
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	gains := nanSlice(n)
	losses := nanSlice(n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		gains[i] = math.Max(change, 0)
		losses[i] = math.Max(-change, 0)
	}

	avgGain := RMA(gains, period)
	avgLoss := RMA(losses, period)

	out := nanSlice(n)
	for i := range out {
		g, l := avgGain[i], avgLoss[i]
		switch {
		case math.IsNaN(g) || math.IsNaN(l):
		case l == 0 && g == 0:
			out[i] = 50
		case l == 0:
			out[i] = 100
		default:
			out[i] = 100 - 100/(1+g/l)
		}
	}
	return out
}

// MACDResult holds the MACD line, its signal line and the histogram.
type MACDResult struct {
	Line   []float64
	Signal []float64
	Hist   []float64
}

// MACD computes EMA(fast) - EMA(slow) and its EMA(signal).
func MACD(closes []float64, fast, slow, signal int) MACDResult {
	n := len(closes)
	ef := EMA(closes, fast)
	es := EMA(closes, slow)

	line := nanSlice(n)
	for i := range line {
		if !math.IsNaN(ef[i]) && !math.IsNaN(es[i]) {
			line[i] = ef[i] - es[i]
		}
	}
	sig := EMA(line, signal)

	hist := nanSlice(n)
	for i := range hist {
		if !math.IsNaN(sig[i]) {
			hist[i] = line[i] - sig[i]
		}
	}
	return MACDResult{Line: line, Signal: sig, Hist: hist}
}

// EfficiencyRatio is Kaufman's net change over path length. When price did
// not move at all the ratio is undefined and reported as NaN.
func EfficiencyRatio(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if period <= 0 {
		return out
	}
	for k := period; k < len(closes); k++ {
		var path float64
		for j := k - period + 1; j <= k; j++ {
			path += math.Abs(closes[j] - closes[j-1])
		}
		if path == 0 {
			continue
		}
		out[k] = math.Abs(closes[k]-closes[k-period]) / path
	}
	return out
}

// RelativeVolume divides volume by its SMA; NaN when the average is zero.
func RelativeVolume(volumes []float64, period int) (avg, rel []float64) {
	avg = SMA(volumes, period)
	rel = nanSlice(len(volumes))
	for i, a := range avg {
		if !math.IsNaN(a) && a > 0 {
			rel[i] = volumes[i] / a
		}
	}
	return avg, rel
}
