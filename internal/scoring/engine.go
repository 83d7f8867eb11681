package scoring

import (
	"fmt"
	"math"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/indicator"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/structure"
	"go.uber.org/zap"
)

// Engine evaluates bars against the filters and composite score.
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

// NewEngine validates cfg and creates an engine.
func NewEngine(cfg Config, logger ...*zap.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Engine{cfg: cfg, logger: l}, nil
}

// Config returns the engine settings.
func (e *Engine) Config() Config {
	return e.cfg
}

// EvaluateBar scores the last frame of in for both directions.
func (e *Engine) EvaluateBar(in Input) []SignalScore {
	out := make([]SignalScore, 0, len(core.Directions))
	for _, dir := range core.Directions {
		out = append(out, e.Evaluate(in, dir))
	}
	return out
}

// Evaluate scores the last frame of in for one direction. A signal that
// fails any enabled filter gets zero scores.
func (e *Engine) Evaluate(in Input, dir core.Direction) SignalScore {
	f := in.current()
	s := SignalScore{
		Instrument: in.Instrument,
		Time:       f.Time,
		Index:      in.index(),
		Direction:  dir,
		EventType:  structure.NoEvent,
		EntryPrice: f.Close,
		RiskReward: core.Undefined,
	}
	if ev := in.Structure.LastEvent; ev != nil {
		s.EventType = ev.Kind
	}

	s.FailedFilters = e.checkFilters(in, dir)
	s.FiltersPassed = len(s.FailedFilters) == 0
	if !s.FiltersPassed {
		return s
	}

	fresh := e.cfg.EventFreshBars
	s.SubScores = SubScores{
		Structure:  structureScore(in, dir, fresh),
		Trend:      trendScore(f, dir),
		Momentum:   momentumScore(f, dir),
		Volatility: volatilityScore(f, e.cfg.Filters),
		Volume:     volumeScore(in, dir, fresh),
	}
	s.TotalScore = clamp(s.SubScores.Weighted(e.cfg.Weights), 0, 100)

	if core.IsFinite(f.ATR) {
		lv := Levels(f.Close, f.ATR, dir, e.cfg.Levels, in.Levels)
		s.StopLoss, s.Target1, s.Target2, s.RiskReward = lv.Stop, lv.Target1, lv.Target2, lv.RiskReward
	}
	s.Qualified = e.Qualifies(s)

	if s.Qualified {
		e.logger.Debug("signal qualified",
			zap.String("instrument", s.Instrument),
			zap.Int("index", s.Index),
			zap.String("direction", string(dir)),
			zap.Float64("score", s.TotalScore),
			zap.Float64("rr", s.RiskReward))
	}
	return s
}

// Qualifies reports whether a signal passes every filter, reaches the
// minimum score and has a defined risk/reward.
func (e *Engine) Qualifies(s SignalScore) bool {
	return s.FiltersPassed && s.TotalScore >= e.cfg.MinScore && !core.IsUndefined(s.RiskReward)
}

func (e *Engine) checkFilters(in Input, dir core.Direction) []FilterFailure {
	f := in.current()
	fc := e.cfg.Filters
	var failed []FilterFailure
	fail := func(name FilterName, format string, args ...any) {
		failed = append(failed, FilterFailure{Filter: name, Reason: fmt.Sprintf(format, args...)})
	}

	if fc.enabled(FilterCoarseAlignment) {
		long, short := structure.Confluence(in.Coarse, in.Structure)
		if (dir == core.Long && !long) || (dir == core.Short && !short) {
			fail(FilterCoarseAlignment, "coarse %s, fine %s", in.Coarse, in.Structure.Trend)
		}
	}

	if fc.enabled(FilterLongMA) {
		switch {
		case math.IsNaN(f.SMALong):
			fail(FilterLongMA, "long moving average not yet defined")
		case (f.Close-f.SMALong)*dir.Sign() <= 0:
			fail(FilterLongMA, "close %.4f on wrong side of %.4f", f.Close, f.SMALong)
		}
	}

	if fc.enabled(FilterTrendStrength) {
		switch {
		case math.IsNaN(f.ADX):
			fail(FilterTrendStrength, "adx not yet defined")
		case f.ADX < fc.MinADX:
			fail(FilterTrendStrength, "adx %.2f below %.2f", f.ADX, fc.MinADX)
		}
	}

	if fc.enabled(FilterSuperTrend) {
		if float64(f.SuperTrendDir) != dir.Sign() {
			fail(FilterSuperTrend, "supertrend direction %d", f.SuperTrendDir)
		}
	}

	if fc.enabled(FilterVolatility) {
		switch {
		case math.IsNaN(f.ATRPercent):
			fail(FilterVolatility, "atr not yet defined")
		case f.ATRPercent < fc.MinATRPct || f.ATRPercent > fc.MaxATRPct:
			fail(FilterVolatility, "atr%% %.2f outside [%.2f, %.2f]", f.ATRPercent, fc.MinATRPct, fc.MaxATRPct)
		}
	}
	return failed
}

// InputAt builds the input for bar i of a full frame series.
func InputAt(instrument string, frames []indicator.Frame, i int, snap structure.Snapshot, coarse structure.Trend, levels LevelSource) Input {
	return Input{
		Instrument: instrument,
		Frames:     frames[:i+1],
		Structure:  snap,
		Coarse:     coarse,
		Levels:     levels,
	}
}
