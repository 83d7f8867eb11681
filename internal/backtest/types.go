package backtest

import (
	"time"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/structure"
)

// ExitReason is why a simulated trade closed
type ExitReason string

const (
	ExitStop    ExitReason = "STOP"
	ExitTrail   ExitReason = "TRAIL" // stop hit after a partial at target1
	ExitTarget1 ExitReason = "TARGET1"
	ExitTarget2 ExitReason = "TARGET2"
	ExitTimeout ExitReason = "TIMEOUT"
)

// Trade represents a simulated trade from entry to exit. A trade is closed
// exactly once and never modified afterwards.
type Trade struct {
	Instrument   string              `json:"instrument"`
	Direction    core.Direction      `json:"direction"`
	EventType    structure.EventKind `json:"event_type"`
	Score        float64             `json:"score"`
	EntryIndex   int                 `json:"entry_index"`
	EntryTime    time.Time           `json:"entry_time"`
	EntryPrice   float64             `json:"entry_price"`
	StopLoss     float64             `json:"stop_loss"`
	Target1      float64             `json:"target1"`
	Target2      float64             `json:"target2"`
	ExitIndex    int                 `json:"exit_index"`
	ExitTime     time.Time           `json:"exit_time"`
	ExitPrice    float64             `json:"exit_price"`
	ExitReason   ExitReason          `json:"exit_reason"`
	PartialTaken bool                `json:"partial_taken"`
	RealizedR    float64             `json:"realized_r"`
	PnLPct       float64             `json:"pnl_pct"`
	BarsHeld     int                 `json:"bars_held"`
}

// IsWin returns true if the trade was profitable
func (t Trade) IsWin() bool {
	return t.RealizedR > 0
}

// EquityPoint is one step of the compounding equity curve.
type EquityPoint struct {
	Time   time.Time `json:"time"`
	Equity float64   `json:"equity"`
}

// Stats holds performance statistics
type Stats struct {
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`      // percentage of trades with R > 0
	ProfitFactor  float64 `json:"profit_factor"` // core.Undefined without losses
	Expectancy    float64 `json:"expectancy"`    // mean R per trade
	TotalR        float64 `json:"total_r"`
	TotalReturn   float64 `json:"total_return"` // percent, from the equity curve
	CAGR          float64 `json:"cagr"`
	SharpeRatio   float64 `json:"sharpe_ratio"`
	SortinoRatio  float64 `json:"sortino_ratio"`
	MaxDrawdown   float64 `json:"max_drawdown"` // percent below running peak
	AvgDrawdown   float64 `json:"avg_drawdown"`
	AvgBarsHeld   float64 `json:"avg_bars_held"`
}

// Bucket aggregates the trades sharing one breakdown key.
type Bucket struct {
	Key          string  `json:"key"`
	Trades       int     `json:"trades"`
	Wins         int     `json:"wins"`
	WinRate      float64 `json:"win_rate"`
	AvgR         float64 `json:"avg_r"`
	TotalR       float64 `json:"total_r"`
	ProfitFactor float64 `json:"profit_factor"`
}

// Breakdowns group trades by event type, direction, score band and hold
// duration. Buckets are in a fixed order and empty ones are omitted.
type Breakdowns struct {
	ByEvent     []Bucket `json:"by_event"`
	ByDirection []Bucket `json:"by_direction"`
	ByScore     []Bucket `json:"by_score"`
	ByHold      []Bucket `json:"by_hold"`
}

// Result holds the complete backtest output for one instrument
type Result struct {
	Instrument       string        `json:"instrument"`
	StartDate        time.Time     `json:"start_date"`
	EndDate          time.Time     `json:"end_date"`
	Bars             int           `json:"bars"`
	InsufficientData bool          `json:"insufficient_data"`
	Signals          int           `json:"signals"` // qualifying signals seen
	Trades           []Trade       `json:"trades"`
	Equity           []EquityPoint `json:"equity"`
	Stats            Stats         `json:"stats"`
	Breakdowns       Breakdowns    `json:"breakdowns"`
}
