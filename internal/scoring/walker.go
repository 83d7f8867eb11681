package scoring

import (
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/indicator"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/structure"
	"go.uber.org/zap"
)

// Pipeline bundles the settings of every stage that feeds a score.
type Pipeline struct {
	Indicators indicator.Periods      `mapstructure:"indicators"`
	Structure  structure.Config       `mapstructure:"structure"`
	Coarse     structure.CoarseConfig `mapstructure:"coarse"`
	Scoring    Config                 `mapstructure:"scoring"`
}

// DefaultPipeline returns the default settings of every stage.
func DefaultPipeline() Pipeline {
	return Pipeline{
		Indicators: indicator.DefaultPeriods(),
		Structure:  structure.DefaultConfig(),
		Coarse:     structure.DefaultCoarseConfig(),
		Scoring:    DefaultConfig(),
	}
}

// Validate checks every stage.
func (p Pipeline) Validate() error {
	if err := p.Indicators.Validate(); err != nil {
		return err
	}
	if err := p.Structure.Validate(); err != nil {
		return err
	}
	if err := p.Coarse.Validate(); err != nil {
		return err
	}
	return p.Scoring.Validate()
}

// Walker advances the causal state of one instrument bar by bar.
// Indicators are computed once up front; each value depends only on bars
// at or before its index. Structure detectors only ever see bars up to the
// current one.
type Walker struct {
	instrument string
	frames     []indicator.Frame
	fine       *structure.Detector
	coarse     *structure.CoarseTracker
	engine     *Engine
	next       int
}

// NewWalker validates the series and settings and prepares a walker
// positioned before the first bar.
func NewWalker(instrument string, bars []core.Bar, p Pipeline, logger ...*zap.Logger) (*Walker, error) {
	if err := core.ValidateSeries(bars); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	engine, err := NewEngine(p.Scoring, logger...)
	if err != nil {
		return nil, err
	}
	return &Walker{
		instrument: instrument,
		frames:     indicator.Compute(bars, p.Indicators),
		fine:       structure.NewDetector(p.Structure),
		coarse:     structure.NewCoarseTracker(p.Coarse),
		engine:     engine,
	}, nil
}

// Len returns the number of bars.
func (w *Walker) Len() int {
	return len(w.frames)
}

// Index returns the last processed bar, -1 before the first step.
func (w *Walker) Index() int {
	return w.next - 1
}

// Frames returns the full indicator series.
func (w *Walker) Frames() []indicator.Frame {
	return w.frames
}

// Detector returns the fine structure detector.
func (w *Walker) Detector() *structure.Detector {
	return w.fine
}

// Engine returns the scoring engine.
func (w *Walker) Engine() *Engine {
	return w.engine
}

// Step feeds the next bar and reports false when the series is exhausted.
func (w *Walker) Step() (structure.Update, bool) {
	if w.next >= len(w.frames) {
		return structure.Update{}, false
	}
	f := w.frames[w.next]
	u := w.fine.Step(f.Bar, f.RelVolume)
	w.coarse.Step(f.Bar)
	w.next++
	return u, true
}

// AdvanceTo steps until bar i has been processed.
func (w *Walker) AdvanceTo(i int) {
	for w.next <= i {
		if _, ok := w.Step(); !ok {
			return
		}
	}
}

// Input returns the scoring input at the last processed bar.
func (w *Walker) Input() Input {
	return InputAt(w.instrument, w.frames, w.Index(), w.fine.Snapshot(), w.coarse.Trend(), w.fine)
}

// Evaluate scores the last processed bar in both directions.
func (w *Walker) Evaluate() []SignalScore {
	return w.engine.EvaluateBar(w.Input())
}

// Scan evaluates the latest bar of a series in both directions.
func Scan(instrument string, bars []core.Bar, p Pipeline, logger ...*zap.Logger) ([]SignalScore, error) {
	if len(bars) == 0 {
		return nil, core.ErrNoData
	}
	w, err := NewWalker(instrument, bars, p, logger...)
	if err != nil {
		return nil, err
	}
	w.AdvanceTo(len(bars) - 1)
	return w.Evaluate(), nil
}
