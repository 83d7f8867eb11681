package signal

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/scoring"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory signal store.
type MemoryStore struct {
	signals []scoring.SignalScore
	maxSize int
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory store with max capacity.
func NewMemoryStore(maxSize int) *MemoryStore {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &MemoryStore{
		signals: make([]scoring.SignalScore, 0, maxSize),
		maxSize: maxSize,
	}
}

// Save adds a signal to the store.
func (m *MemoryStore) Save(ctx context.Context, signal scoring.SignalScore) (string, error) {
	if signal.Instrument == "" {
		return "", fmt.Errorf("signal has no instrument")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	signal.ID = uuid.NewString()
	if len(signal.FailedFilters) > 0 {
		signal.FailedFilters = append([]scoring.FilterFailure(nil), signal.FailedFilters...)
	}
	m.signals = append(m.signals, signal)

	// Trim if over capacity (remove oldest)
	if len(m.signals) > m.maxSize {
		m.signals = m.signals[len(m.signals)-m.maxSize:]
	}

	return signal.ID, nil
}

// GetByID retrieves a signal by ID.
func (m *MemoryStore) GetByID(ctx context.Context, id string) (*scoring.SignalScore, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.signals {
		if m.signals[i].ID == id {
			sig := m.signals[i]
			return &sig, nil
		}
	}
	return nil, core.WrapError(core.ErrNotFound, fmt.Errorf("signal %s", id))
}

// List returns signals matching the filter.
func (m *MemoryStore) List(ctx context.Context, filter ListFilter) ([]scoring.SignalScore, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []scoring.SignalScore{}
	for _, sig := range m.signals {
		if m.matches(sig, filter) {
			result = append(result, sig)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Time.Before(result[j].Time)
	})

	// Apply offset and limit
	if filter.Offset >= len(result) {
		return []scoring.SignalScore{}, nil
	} else if filter.Offset > 0 {
		result = result[filter.Offset:]
	}

	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}

	return result, nil
}

// Count returns the count of matching signals.
func (m *MemoryStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, sig := range m.signals {
		if m.matches(sig, filter) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) matches(sig scoring.SignalScore, filter ListFilter) bool {
	if filter.Instrument != "" && sig.Instrument != filter.Instrument {
		return false
	}
	if filter.Direction != "" && sig.Direction != filter.Direction {
		return false
	}
	if sig.TotalScore < filter.MinScore {
		return false
	}
	if filter.QualifiedOnly && !sig.Qualifies() {
		return false
	}
	if !filter.From.IsZero() && sig.Time.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && sig.Time.After(filter.To) {
		return false
	}
	return true
}
