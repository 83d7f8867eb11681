package scoring

import (
	"math"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"github.com/shopspring/decimal"
)

// TradeLevels are the prices derived for an entry.
type TradeLevels struct {
	Entry      float64
	Stop       float64
	Target1    float64
	Target2    float64
	RiskReward float64
}

// Levels derives stop and targets from ATR. Target2 extends to the nearest
// unbroken opposing structural level when that level lies beyond the ATR
// projection.
func Levels(entry, atr float64, dir core.Direction, cfg LevelConfig, src LevelSource) TradeLevels {
	sign := dir.Sign()
	lv := TradeLevels{
		Entry:   entry,
		Stop:    entry - sign*cfg.StopATR*atr,
		Target1: entry + sign*cfg.Target1ATR*atr,
		Target2: entry + sign*cfg.Target2ATR*atr,
	}

	if src != nil {
		if dir == core.Long {
			if lvl, ok := src.NearestLevelAbove(entry); ok && lvl > lv.Target2 {
				lv.Target2 = lvl
			}
		} else {
			if lvl, ok := src.NearestLevelBelow(entry); ok && lvl < lv.Target2 {
				lv.Target2 = lvl
			}
		}
	}

	if cfg.TickSize > 0 {
		lv.Stop = roundToTick(lv.Stop, cfg.TickSize)
		lv.Target1 = roundToTick(lv.Target1, cfg.TickSize)
		lv.Target2 = roundToTick(lv.Target2, cfg.TickSize)
	}

	lv.RiskReward = RiskReward(entry, lv.Stop, lv.Target1)
	return lv
}

// RiskReward returns |target-entry| / |entry-stop|, or core.Undefined when
// there is no risk.
func RiskReward(entry, stop, target float64) float64 {
	risk := math.Abs(entry - stop)
	if risk == 0 || math.IsNaN(risk) {
		return core.Undefined
	}
	return math.Abs(target-entry) / risk
}

func roundToTick(price, tick float64) float64 {
	t := decimal.NewFromFloat(tick)
	return decimal.NewFromFloat(price).Div(t).Round(0).Mul(t).InexactFloat64()
}
