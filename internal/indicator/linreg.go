package indicator

import "math"

// LinRegResult holds the rolling least-squares fit.
type LinRegResult struct {
	Value []float64 // fitted value at the last bar of the window
	Slope []float64 // per-bar slope
	R2    []float64
}

// LinReg fits a line over [k-window+1, k] for every k. The window never
// extends past k. A window without variance reports R² = 0.
func LinReg(values []float64, window int) LinRegResult {
	n := len(values)
	res := LinRegResult{Value: nanSlice(n), Slope: nanSlice(n), R2: nanSlice(n)}
	if window < 2 {
		return res
	}

	w := float64(window)
	sx := w * (w - 1) / 2
	sxx := (w - 1) * w * (2*w - 1) / 6
	den := w*sxx - sx*sx

	for k := window - 1; k < n; k++ {
		start := k - window + 1
		var sy, sxy float64
		defined := true
		for j := start; j <= k; j++ {
			y := values[j]
			if math.IsNaN(y) {
				defined = false
				break
			}
			x := float64(j - start)
			sy += y
			sxy += x * y
		}
		if !defined {
			continue
		}

		slope := (w*sxy - sx*sy) / den
		intercept := (sy - slope*sx) / w
		mean := sy / w

		var ssRes, ssTot float64
		for j := start; j <= k; j++ {
			fit := intercept + slope*float64(j-start)
			ssRes += (values[j] - fit) * (values[j] - fit)
			ssTot += (values[j] - mean) * (values[j] - mean)
		}

		res.Value[k] = intercept + slope*(w-1)
		res.Slope[k] = slope
		res.R2[k] = 0
		if ssTot > 0 {
			res.R2[k] = math.Max(0, 1-ssRes/ssTot)
		}
	}
	return res
}
