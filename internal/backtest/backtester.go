package backtest

import (
	"time"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/metrics"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/scoring"
	"go.uber.org/zap"
)

// Backtester runs the walk-forward simulation of one instrument. It holds
// no per-run state and is safe for concurrent use.
type Backtester struct {
	cfg     Config
	logger  *zap.Logger
	metrics *metrics.Registry
}

// New validates cfg and creates a Backtester.
func New(cfg Config, logger ...*zap.Logger) (*Backtester, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Backtester{cfg: cfg, logger: l}, nil
}

// SetMetrics attaches a metrics registry.
func (b *Backtester) SetMetrics(reg *metrics.Registry) {
	b.metrics = reg
}

// Config returns the backtest settings.
func (b *Backtester) Config() Config {
	return b.cfg
}

// Run simulates one instrument. Malformed series fail with
// core.ErrInvalidSeries; a series too short to simulate returns a result
// flagged InsufficientData and no error.
func (b *Backtester) Run(inst core.Instrument) (*Result, error) {
	start := time.Now()
	res, err := b.run(inst)

	status := "ok"
	switch {
	case err != nil:
		status = "error"
	case res.InsufficientData:
		status = "insufficient_data"
	}
	if b.metrics != nil {
		b.metrics.RecordBacktest(status, time.Since(start).Seconds())
	}
	if err != nil {
		b.logger.Warn("backtest failed", zap.String("instrument", inst.Symbol), zap.Error(err))
		return nil, err
	}
	return res, nil
}

func (b *Backtester) run(inst core.Instrument) (*Result, error) {
	bars := inst.Bars
	if err := core.ValidateSeries(bars); err != nil {
		return nil, err
	}

	cfg := b.cfg
	n := len(bars)
	res := &Result{Instrument: inst.Symbol, Bars: n}
	if n > 0 {
		res.StartDate, res.EndDate = bars[0].Time, bars[n-1].Time
	}
	if n < cfg.WarmupBars+cfg.MaxHoldBars {
		res.InsufficientData = true
		res.Stats = CalculateStats(nil, nil, nil, cfg.PeriodsPerYear)
		b.logger.Info("insufficient data",
			zap.String("instrument", inst.Symbol),
			zap.Int("bars", n),
			zap.Int("required", cfg.WarmupBars+cfg.MaxHoldBars))
		return res, nil
	}

	w, err := scoring.NewWalker(inst.Symbol, bars, cfg.Pipeline(), b.logger)
	if err != nil {
		return nil, err
	}
	frames := w.Frames()

	// exit index of the open trade per direction
	openUntil := make(map[core.Direction]int, len(core.Directions))
	var trades []Trade

	last := n - cfg.MaxHoldBars - 1
	for i := 0; i <= last; i++ {
		w.Step()
		if i < cfg.WarmupBars {
			continue
		}
		for _, s := range w.Evaluate() {
			b.recordSignal(s)
			if !s.Qualifies() {
				continue
			}
			res.Signals++
			if exit, open := openUntil[s.Direction]; open && exit > i {
				continue
			}
			t := simulate(frames, i, s, cfg)
			openUntil[s.Direction] = t.ExitIndex
			trades = append(trades, t)
			b.logger.Debug("trade closed",
				zap.String("instrument", inst.Symbol),
				zap.String("direction", string(t.Direction)),
				zap.Int("entry", t.EntryIndex),
				zap.Int("exit", t.ExitIndex),
				zap.String("reason", string(t.ExitReason)),
				zap.Float64("r", t.RealizedR))
		}
	}

	sortTrades(trades)
	res.Trades = trades
	res.Equity = EquityCurve(trades, bars[cfg.WarmupBars].Time)
	res.Stats = CalculateStats(trades, res.Equity, barReturns(trades, cfg.WarmupBars, n-1), cfg.PeriodsPerYear)
	res.Breakdowns = BuildBreakdowns(trades)

	if b.metrics != nil {
		for _, t := range trades {
			b.metrics.RecordTrade(string(t.Direction), string(t.ExitReason), t.RealizedR)
		}
	}
	b.logger.Info("backtest complete",
		zap.String("instrument", inst.Symbol),
		zap.Int("bars", n),
		zap.Int("signals", res.Signals),
		zap.Int("trades", res.Stats.TotalTrades),
		zap.Float64("win_rate", res.Stats.WinRate),
		zap.Float64("total_return", res.Stats.TotalReturn))
	return res, nil
}

func (b *Backtester) recordSignal(s scoring.SignalScore) {
	if b.metrics == nil {
		return
	}
	outcome := "filtered"
	switch {
	case s.Qualifies():
		outcome = "qualified"
	case s.FiltersPassed:
		outcome = "scored"
	}
	b.metrics.RecordSignal(string(s.Direction), outcome)
}
