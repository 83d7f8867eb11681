package indicator

import (
	"math"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
)

// SuperTrendResult holds the active band and the trend direction (+1/-1,
// 0 during warm-up).
type SuperTrendResult struct {
	Line []float64
	Dir  []int
}

// SuperTrend runs the ratchet band state machine over the series.
func SuperTrend(bars []core.Bar, period int, mult float64) SuperTrendResult {
	atr := ATR(bars, period)
	res := SuperTrendResult{Line: nanSlice(len(bars)), Dir: make([]int, len(bars))}

	st := superTrend{mult: mult}
	for i, b := range bars {
		res.Line[i], res.Dir[i] = st.step(b, atr[i])
	}
	return res
}

// superTrend carries the final bands and direction from bar to bar. The
// upper band can only move down and the lower band only up, except when the
// previous close has crossed the band; direction flips only on a close
// through the active band.
type superTrend struct {
	mult      float64
	upper     float64
	lower     float64
	dir       int
	started   bool
	prevClose float64
}

func (s *superTrend) step(b core.Bar, atr float64) (float64, int) {
	defer func() { s.prevClose = b.Close }()

	if math.IsNaN(atr) {
		return math.NaN(), 0
	}

	mid := (b.High + b.Low) / 2
	basicUpper := mid + s.mult*atr
	basicLower := mid - s.mult*atr

	if !s.started {
		s.started = true
		s.upper, s.lower = basicUpper, basicLower
		s.dir = 1
		if b.Close < mid {
			s.dir = -1
		}
		return s.line(), s.dir
	}

	if basicUpper < s.upper || s.prevClose > s.upper {
		s.upper = basicUpper
	}
	if basicLower > s.lower || s.prevClose < s.lower {
		s.lower = basicLower
	}

	switch {
	case s.dir == 1 && b.Close < s.lower:
		s.dir = -1
	case s.dir == -1 && b.Close > s.upper:
		s.dir = 1
	}
	return s.line(), s.dir
}

func (s *superTrend) line() float64 {
	if s.dir == 1 {
		return s.lower
	}
	return s.upper
}
