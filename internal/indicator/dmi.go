package indicator

import (
	"math"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
)

// DMIResult holds the directional indicators and the ADX.
type DMIResult struct {
	PlusDI  []float64
	MinusDI []float64
	ADX     []float64
}

// DMI computes +DI, -DI and ADX. Directional movement and true range are
// smoothed first, divided into DI, and only the resulting DX is smoothed
// again; swapping those steps changes the values.
func DMI(bars []core.Bar, period int) DMIResult {
	n := len(bars)
	plusDM := nanSlice(n)
	minusDM := nanSlice(n)
	tr := nanSlice(n)

	for i := 1; i < n; i++ {
		up := bars[i].High - bars[i-1].High
		down := bars[i-1].Low - bars[i].Low
		plusDM[i], minusDM[i] = 0, 0
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
		tr[i] = trueRange(bars[i], bars[i-1].Close)
	}

	sPlus := RMA(plusDM, period)
	sMinus := RMA(minusDM, period)
	sTR := RMA(tr, period)

	res := DMIResult{PlusDI: nanSlice(n), MinusDI: nanSlice(n)}
	dx := nanSlice(n)
	for i := 0; i < n; i++ {
		if math.IsNaN(sTR[i]) {
			continue
		}
		var pdi, mdi float64
		if sTR[i] > 0 {
			pdi = 100 * sPlus[i] / sTR[i]
			mdi = 100 * sMinus[i] / sTR[i]
		}
		res.PlusDI[i], res.MinusDI[i] = pdi, mdi

		dx[i] = 0
		if sum := pdi + mdi; sum > 0 {
			dx[i] = 100 * math.Abs(pdi-mdi) / sum
		}
	}
	res.ADX = RMA(dx, period)
	return res
}
