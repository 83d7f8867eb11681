package scoring

import (
	"math"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/indicator"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/structure"
)

func clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return lo
	}
	return math.Max(lo, math.Min(hi, x))
}

func unit(x float64) float64 {
	return clamp(x, 0, 1)
}

// freshEvent returns the last structural event if it points in dir.
func freshEvent(in Input, dir core.Direction) (*structure.Event, bool) {
	ev := in.Structure.LastEvent
	if ev == nil || ev.Kind.Direction() != dir {
		return nil, false
	}
	return ev, true
}

// structureScore rewards an aligned trend, a recent break in the trade
// direction, a well-defined defended swing and volume on the break.
func structureScore(in Input, dir core.Direction, freshBars int) float64 {
	var s float64
	ev, aligned := freshEvent(in, dir)

	if td, ok := in.Structure.Trend.Direction(); ok && td == dir {
		s += 40
	} else if aligned && !ev.Kind.IsContinuation() {
		s += 25
	}

	if aligned {
		fresh := in.index()-ev.Index <= freshBars
		switch {
		case fresh && ev.Kind.IsContinuation():
			s += 30
		case fresh:
			s += 20
		default:
			s += 10
		}
		switch {
		case ev.RelVolume >= 1.5:
			s += 10
		case ev.RelVolume >= 1.0:
			s += 5
		}
	}

	swing := in.Structure.LastLow
	if dir == core.Short {
		swing = in.Structure.LastHigh
	}
	if swing != nil {
		s += unit(swing.Prominence/5) * 20
	}
	return clamp(s, 0, 100)
}

// trendScore scales ADX, DI alignment and the regression fit.
func trendScore(f indicator.Frame, dir core.Direction) float64 {
	s := unit((f.ADX-15)/25) * 60

	if (dir == core.Long && f.PlusDI > f.MinusDI) || (dir == core.Short && f.MinusDI > f.PlusDI) {
		s += 15
	}
	if !math.IsNaN(f.LinRegSlope) && f.LinRegSlope*dir.Sign() > 0 {
		s += unit(f.LinRegR2) * 25
	}
	return clamp(s, 0, 100)
}

// momentumScore favours RSI in the trend half without being stretched, and
// MACD and EMA agreement.
func momentumScore(f indicator.Frame, dir core.Direction) float64 {
	var rsi float64
	if !math.IsNaN(f.RSI) {
		if dir == core.Long {
			rsi = unit((f.RSI-45)/20) * 40
			if f.RSI > 75 {
				rsi *= 0.5
			}
		} else {
			rsi = unit((55-f.RSI)/20) * 40
			if f.RSI < 25 {
				rsi *= 0.5
			}
		}
	}

	s := rsi
	if f.MACDHist*dir.Sign() > 0 {
		s += 30
	}
	if f.MACD*dir.Sign() > 0 {
		s += 10
	}
	if (f.EMAFast-f.EMASlow)*dir.Sign() > 0 {
		s += 20
	}
	return clamp(s, 0, 100)
}

// volatilityScore prefers ATR% near the middle of the allowed band and
// directional efficiency.
func volatilityScore(f indicator.Frame, cfg FilterConfig) float64 {
	var s float64
	if !math.IsNaN(f.ATRPercent) {
		mid := (cfg.MinATRPct + cfg.MaxATRPct) / 2
		half := (cfg.MaxATRPct - cfg.MinATRPct) / 2
		s += unit(1-math.Abs(f.ATRPercent-mid)/half) * 60
	}
	if !math.IsNaN(f.EfficiencyRatio) {
		s += unit(f.EfficiencyRatio) * 40
	}
	return clamp(s, 0, 100)
}

// volumeScore checks participation on the bar and on the break.
func volumeScore(in Input, dir core.Direction, freshBars int) float64 {
	f := in.current()
	var s float64
	if !math.IsNaN(f.RelVolume) {
		s += unit((f.RelVolume-0.5)/1.5) * 70
	}
	if ev, ok := freshEvent(in, dir); ok && in.index()-ev.Index <= freshBars && ev.RelVolume >= 1.2 {
		s += 30
	}
	return clamp(s, 0, 100)
}
