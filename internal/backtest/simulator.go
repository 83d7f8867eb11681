package backtest

import (
	"math"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/indicator"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/scoring"
)

type check int

const (
	checkStop check = iota
	checkTarget2
	checkTarget1
)

var checkOrder = map[Policy][]check{
	PolicyStopFirst:   {checkStop, checkTarget2, checkTarget1},
	PolicyTargetFirst: {checkTarget2, checkTarget1, checkStop},
}

// position is the OPEN state of a trade.
type position struct {
	dir     core.Direction
	entry   float64
	risk    float64
	stop    float64
	target1 float64
	target2 float64

	partial  bool
	banked   float64 // R locked in at target1
	fraction float64 // share of the position taken at target1
}

func newPosition(s scoring.SignalScore, fraction float64) *position {
	return &position{
		dir:      s.Direction,
		entry:    s.EntryPrice,
		risk:     math.Abs(s.EntryPrice - s.StopLoss),
		stop:     s.StopLoss,
		target1:  s.Target1,
		target2:  s.Target2,
		fraction: fraction,
	}
}

func (p *position) r(price float64) float64 {
	return (price - p.entry) * p.dir.Sign() / p.risk
}

// realized blends the banked partial with the remainder closed at price.
func (p *position) realized(price float64) float64 {
	if !p.partial {
		return p.r(price)
	}
	return p.banked + (1-p.fraction)*p.r(price)
}

func (p *position) stopHit(b core.Bar) bool {
	if p.dir == core.Long {
		return b.Low <= p.stop
	}
	return b.High >= p.stop
}

func (p *position) reached(level float64, b core.Bar) bool {
	if p.dir == core.Long {
		return b.High >= level
	}
	return b.Low <= level
}

// step runs the exit checks for one bar in policy order. It reports the
// exit price and reason when the position closes.
func (p *position) step(b core.Bar, order []check) (float64, ExitReason, bool) {
	for _, c := range order {
		switch c {
		case checkStop:
			if p.stopHit(b) {
				if p.partial {
					return p.stop, ExitTrail, true
				}
				return p.stop, ExitStop, true
			}
		case checkTarget2:
			if p.reached(p.target2, b) {
				return p.target2, ExitTarget2, true
			}
		case checkTarget1:
			if p.partial || !p.reached(p.target1, b) {
				continue
			}
			if p.fraction >= 1 {
				return p.target1, ExitTarget1, true
			}
			p.partial = true
			p.banked = p.fraction * p.r(p.target1)
			p.stop = p.entry
		}
	}
	return 0, "", false
}

// trail ratchets the stop toward price after the partial; it never loosens.
func (p *position) trail(f indicator.Frame, mult float64) {
	if !p.partial || !core.IsFinite(f.ATR) {
		return
	}
	if p.dir == core.Long {
		if cand := f.High - mult*f.ATR; cand > p.stop {
			p.stop = cand
		}
		return
	}
	if cand := f.Low + mult*f.ATR; cand < p.stop {
		p.stop = cand
	}
}

// simulate opens a trade at the close of bar entry and walks the following
// bars until it exits. The caller guarantees entry+MaxHoldBars is in range.
func simulate(frames []indicator.Frame, entry int, s scoring.SignalScore, cfg Config) Trade {
	p := newPosition(s, cfg.PartialFraction)
	order := checkOrder[cfg.Policy]
	t := Trade{
		Instrument: s.Instrument,
		Direction:  s.Direction,
		EventType:  s.EventType,
		Score:      s.TotalScore,
		EntryIndex: entry,
		EntryTime:  frames[entry].Time,
		EntryPrice: s.EntryPrice,
		StopLoss:   s.StopLoss,
		Target1:    s.Target1,
		Target2:    s.Target2,
	}

	last := entry + cfg.MaxHoldBars
	for j := entry + 1; j <= last; j++ {
		f := frames[j]
		if price, reason, done := p.step(f.Bar, order); done {
			return closeTrade(t, p, j, f, price, reason, cfg)
		}
		p.trail(f, cfg.TrailATRMult)
	}
	return closeTrade(t, p, last, frames[last], frames[last].Close, ExitTimeout, cfg)
}

func closeTrade(t Trade, p *position, j int, f indicator.Frame, price float64, reason ExitReason, cfg Config) Trade {
	t.ExitIndex = j
	t.ExitTime = f.Time
	t.ExitPrice = price
	t.ExitReason = reason
	t.PartialTaken = p.partial
	t.RealizedR = p.realized(price)
	t.PnLPct = t.RealizedR * cfg.RiskPerTradePct
	t.BarsHeld = j - t.EntryIndex
	return t
}
