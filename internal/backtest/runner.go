package backtest

import (
	"context"
	"runtime"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one instrument in a batch.
type Outcome struct {
	Instrument string
	Result     *Result
	Err        error
}

// Runner backtests many instruments on a bounded worker pool. Instruments
// share no state; each one runs sequentially from start to finish.
type Runner struct {
	bt      *Backtester
	workers int
	logger  *zap.Logger
}

// NewRunner creates a runner. workers <= 0 uses one worker per CPU.
func NewRunner(bt *Backtester, workers int, logger ...*zap.Logger) *Runner {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Runner{bt: bt, workers: workers, logger: l}
}

// Run backtests every instrument and returns outcomes in input order.
// A failing instrument does not stop the batch; its error is kept in its
// Outcome. Cancellation is honoured between instruments only: an
// instrument already being simulated runs to completion, the ones not yet
// started are reported with the context error, and Run returns ctx.Err().
func (r *Runner) Run(ctx context.Context, instruments []core.Instrument) ([]Outcome, error) {
	out := make([]Outcome, len(instruments))

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, inst := range instruments {
		g.Go(func() error {
			out[i].Instrument = inst.Symbol
			if err := ctx.Err(); err != nil {
				out[i].Err = err
				return nil
			}
			if r.bt.metrics != nil {
				r.bt.metrics.InstrumentStarted()
				defer r.bt.metrics.InstrumentDone()
			}
			out[i].Result, out[i].Err = r.bt.Run(inst)
			return nil
		})
	}
	_ = g.Wait()

	var failed int
	for _, o := range out {
		if o.Err != nil {
			failed++
		}
	}
	r.logger.Info("batch complete",
		zap.Int("instruments", len(instruments)),
		zap.Int("failed", failed),
		zap.Int("workers", r.workers))

	return out, ctx.Err()
}
