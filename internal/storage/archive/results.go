package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/backtest"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const resultsRoot = "backtests"

// ResultStore archives backtest results as JSON documents laid out as
// backtests/<instrument>/<run id>.json.
type ResultStore struct {
	storage Storage
	logger  *zap.Logger
	metrics *metrics.Registry
	now     func() time.Time
}

// NewResultStore wraps a storage backend.
func NewResultStore(storage Storage, logger ...*zap.Logger) *ResultStore {
	log := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		log = logger[0]
	}
	return &ResultStore{
		storage: storage,
		logger:  log,
		now:     time.Now,
	}
}

// SetMetrics enables archive outcome counters.
func (s *ResultStore) SetMetrics(m *metrics.Registry) {
	s.metrics = m
}

// Record is the archived envelope around a result.
type Record struct {
	RunID      string           `json:"run_id"`
	ArchivedAt time.Time        `json:"archived_at"`
	Result     *backtest.Result `json:"result"`
}

// Save writes a result under a fresh run ID and returns its path.
func (s *ResultStore) Save(ctx context.Context, result *backtest.Result) (string, error) {
	if result == nil {
		return "", core.WrapError(core.ErrArchiveFailed, fmt.Errorf("nil result"))
	}

	rec := Record{
		RunID:      uuid.NewString(),
		ArchivedAt: s.now().UTC(),
		Result:     result,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		s.record("error")
		return "", core.WrapError(core.ErrArchiveFailed, fmt.Errorf("encoding result: %w", err))
	}

	p := ResultPath(result.Instrument, rec.RunID)
	if err := s.storage.Write(ctx, p, data); err != nil {
		s.record("error")
		return "", core.WrapError(core.ErrArchiveFailed, fmt.Errorf("writing %s: %w", p, err))
	}

	s.record("ok")
	s.logger.Info("archived backtest result",
		zap.String("instrument", result.Instrument),
		zap.String("path", p),
		zap.Int("trades", len(result.Trades)))
	return p, nil
}

// Load reads a record back by path.
func (s *ResultStore) Load(ctx context.Context, p string) (*Record, error) {
	data, err := s.storage.Read(ctx, p)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, fmt.Errorf("decoding %s: %w", p, err))
	}
	return &rec, nil
}

// List returns the archived paths for one instrument, or for all of them
// when instrument is empty.
func (s *ResultStore) List(ctx context.Context, instrument string) ([]string, error) {
	prefix := resultsRoot
	if instrument != "" {
		prefix = path.Join(resultsRoot, safeSegment(instrument))
	}
	return s.storage.List(ctx, prefix)
}

// ResultPath builds the archive path for one run.
func ResultPath(instrument, runID string) string {
	return path.Join(resultsRoot, safeSegment(instrument), runID+".json")
}

// safeSegment keeps instrument symbols such as "BRK/B" or "^GSPC" within a
// single path segment.
func safeSegment(s string) string {
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
}

func (s *ResultStore) record(status string) {
	if s.metrics != nil {
		s.metrics.RecordArchive(status)
	}
}
