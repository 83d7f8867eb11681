package signal

import (
	"context"
	"time"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/scoring"
)

// Store defines the interface for scored-signal persistence.
type Store interface {
	// Save persists a signal and returns its assigned ID.
	Save(ctx context.Context, signal scoring.SignalScore) (string, error)

	// GetByID retrieves a signal by its ID.
	GetByID(ctx context.Context, id string) (*scoring.SignalScore, error)

	// List retrieves signals matching the filter, oldest bar first.
	List(ctx context.Context, filter ListFilter) ([]scoring.SignalScore, error)

	// Count returns the number of signals matching the filter.
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter defines criteria for listing signals.
type ListFilter struct {
	Instrument    string
	Direction     core.Direction
	MinScore      float64
	QualifiedOnly bool
	From          time.Time
	To            time.Time
	Limit         int
	Offset        int
}
