package indicator

import "math"

// Every series function in this package returns a slice aligned with its
// input: out[k] depends only on in[0..k], and is NaN until the lookback is
// satisfied.

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func firstDefined(values []float64) int {
	for i, v := range values {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}

// SMA calculates Simple Moving Average
func SMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	start := firstDefined(values)
	if period <= 0 || start < 0 || len(values)-start < period {
		return out
	}

	var sum float64
	for i := start; i < start+period; i++ {
		sum += values[i]
	}
	out[start+period-1] = sum / float64(period)

	// Rolling calculation
	for i := start + period; i < len(values); i++ {
		sum = sum - values[i-period] + values[i]
		out[i] = sum / float64(period)
	}

	return out
}

// EMA calculates Exponential Moving Average, seeded with the SMA of the first
// period defined values.
func EMA(values []float64, period int) []float64 {
	return smooth(values, period, 2.0/float64(period+1))
}

// RMA is Wilder's smoothing (alpha = 1/period).
func RMA(values []float64, period int) []float64 {
	return smooth(values, period, 1.0/float64(period))
}

// smooth applies value_k = alpha*x_k + (1-alpha)*value_{k-1}; the first
// defined output is the mean of the first period defined inputs.
func smooth(values []float64, period int, alpha float64) []float64 {
	out := nanSlice(len(values))
	start := firstDefined(values)
	if period <= 0 || start < 0 || len(values)-start < period {
		return out
	}

	var sum float64
	for i := start; i < start+period; i++ {
		sum += values[i]
	}
	prev := sum / float64(period)
	out[start+period-1] = prev

	for i := start + period; i < len(values); i++ {
		prev = alpha*values[i] + (1-alpha)*prev
		out[i] = prev
	}
	return out
}

// StdDev returns the rolling population standard deviation.
func StdDev(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	mean := SMA(values, period)
	for k := range values {
		if math.IsNaN(mean[k]) {
			continue
		}
		var ss float64
		for j := k - period + 1; j <= k; j++ {
			d := values[j] - mean[k]
			ss += d * d
		}
		out[k] = math.Sqrt(ss / float64(period))
	}
	return out
}

// Highest returns the rolling maximum over period values.
func Highest(values []float64, period int) []float64 {
	return rolling(values, period, math.Max)
}

// Lowest returns the rolling minimum over period values.
func Lowest(values []float64, period int) []float64 {
	return rolling(values, period, math.Min)
}

func rolling(values []float64, period int, pick func(a, b float64) float64) []float64 {
	out := nanSlice(len(values))
	if period <= 0 {
		return out
	}
	for k := period - 1; k < len(values); k++ {
		acc := values[k-period+1]
		for j := k - period + 2; j <= k; j++ {
			acc = pick(acc, values[j])
		}
		out[k] = acc
	}
	return out
}
