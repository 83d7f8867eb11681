package scoring

import (
	"time"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/indicator"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/structure"
)

// SubScores holds the five component scores, each in [0,100].
type SubScores struct {
	Structure  float64 `json:"structure"`
	Trend      float64 `json:"trend"`
	Momentum   float64 `json:"momentum"`
	Volatility float64 `json:"volatility"`
	Volume     float64 `json:"volume"`
}

// Weighted returns Σ weight·score.
func (s SubScores) Weighted(w Weights) float64 {
	return w.Structure*s.Structure +
		w.Trend*s.Trend +
		w.Momentum*s.Momentum +
		w.Volatility*s.Volatility +
		w.Volume*s.Volume
}

// FilterFailure explains why a mandatory filter rejected a signal.
type FilterFailure struct {
	Filter FilterName `json:"filter"`
	Reason string     `json:"reason"`
}

// SignalScore is the evaluation of one bar in one direction. It is never
// mutated after creation; the ID is assigned when a store persists it.
type SignalScore struct {
	ID            string              `json:"id,omitempty"`
	Instrument    string              `json:"instrument"`
	Time          time.Time           `json:"time"`
	Index         int                 `json:"index"`
	Direction     core.Direction      `json:"direction"`
	TotalScore    float64             `json:"total_score"`
	SubScores     SubScores           `json:"sub_scores"`
	FiltersPassed bool                `json:"filters_passed"`
	FailedFilters []FilterFailure     `json:"failed_filters,omitempty"`
	EventType     structure.EventKind `json:"event_type"`
	EntryPrice    float64             `json:"entry_price"`
	StopLoss      float64             `json:"stop_loss"`
	Target1       float64             `json:"target1"`
	Target2       float64             `json:"target2"`
	RiskReward    float64             `json:"risk_reward"` // core.Undefined when risk is zero
	Qualified     bool                `json:"qualified"`
}

// Qualifies reports whether the signal passed every filter, reached the
// minimum score and has a defined risk/reward.
func (s SignalScore) Qualifies() bool {
	return s.Qualified
}

// LevelSource exposes the unbroken structural levels.
type LevelSource interface {
	NearestLevelAbove(price float64) (float64, bool)
	NearestLevelBelow(price float64) (float64, bool)
}

// Input is everything known at the evaluated bar. Frames ends at that bar.
type Input struct {
	Instrument string
	Frames     []indicator.Frame
	Structure  structure.Snapshot
	Coarse     structure.Trend
	Levels     LevelSource
}

func (in Input) current() indicator.Frame {
	return in.Frames[len(in.Frames)-1]
}

func (in Input) index() int {
	return len(in.Frames) - 1
}
