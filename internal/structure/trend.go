package structure

import "github.com/Dimmiditutto/TradingAgents-sub000/internal/core"

// TrendOf derives the trend from the latest confirmed high and low.
// It is recomputed on every call rather than stored.
func TrendOf(lastHigh, lastLow *Pivot) Trend {
	if lastHigh == nil || lastLow == nil {
		return Undefined
	}
	switch {
	case lastHigh.Label == HigherHigh && lastLow.Label == HigherLow:
		return Uptrend
	case lastHigh.Label == LowerHigh && lastLow.Label == LowerLow:
		return Downtrend
	default:
		return Undefined
	}
}

// Direction maps a trend to a side; ok is false for Undefined.
func (t Trend) Direction() (core.Direction, bool) {
	switch t {
	case Uptrend:
		return core.Long, true
	case Downtrend:
		return core.Short, true
	}
	return "", false
}

// classify labels a new pivot against the previous one of its kind, or
// against the opening bar when it is the first of its kind.
func classify(kind Kind, price, reference float64) Label {
	if kind == High {
		if price > reference {
			return HigherHigh
		}
		return LowerHigh
	}
	if price > reference {
		return HigherLow
	}
	return LowerLow
}

// Confluence combines a coarse trend with the fine structure. Long requires
// an uptrend on the coarse series and either an uptrend or a fresh bullish
// change of character on the fine one; short mirrors it.
func Confluence(coarse Trend, fine Snapshot) (long, short bool) {
	var last EventKind
	if fine.LastEvent != nil {
		last = fine.LastEvent.Kind
	}
	long = coarse == Uptrend && (fine.Trend == Uptrend || last == CHOCHUp)
	short = coarse == Downtrend && (fine.Trend == Downtrend || last == CHOCHDown)
	return long, short
}
