package feed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"go.uber.org/zap"
)

// Accepted time layouts, tried in order.
var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// Column order when the file has no header.
var defaultColumns = []string{"time", "open", "high", "low", "close", "volume"}

var columnAliases = map[string]string{
	"date":      "time",
	"datetime":  "time",
	"timestamp": "time",
	"vol":       "volume",
}

// CSVDir reads <dir>/<SYMBOL>.csv files.
type CSVDir struct {
	dir    string
	logger *zap.Logger
}

// NewCSVDir creates a CSV source rooted at dir.
func NewCSVDir(dir string, logger ...*zap.Logger) *CSVDir {
	log := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		log = logger[0]
	}
	return &CSVDir{dir: dir, logger: log}
}

func (c *CSVDir) Name() string {
	return "csv"
}

// Load reads one symbol's file.
func (c *CSVDir) Load(ctx context.Context, symbol string) (core.Instrument, error) {
	path := filepath.Join(c.dir, symbol+".csv")
	inst, err := LoadFile(path)
	if err != nil {
		return core.Instrument{}, err
	}
	inst.Symbol = symbol
	c.logger.Debug("loaded series",
		zap.String("symbol", symbol),
		zap.Int("bars", len(inst.Bars)))
	return inst, nil
}

// Symbols lists the *.csv files in the directory.
func (c *CSVDir) Symbols(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, core.WrapError(core.ErrFeedFailed, fmt.Errorf("listing %s: %w", c.dir, err))
	}
	var symbols []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		symbols = append(symbols, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	sort.Strings(symbols)
	return symbols, nil
}

// LoadFile reads a single CSV file; the symbol is the file's base name.
func LoadFile(path string) (core.Instrument, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.Instrument{}, core.WrapError(core.ErrFeedFailed, fmt.Errorf("%s: %w", path, core.ErrNoData))
		}
		return core.Instrument{}, core.WrapError(core.ErrFeedFailed, err)
	}
	defer f.Close()

	bars, err := ParseCSV(f)
	if err != nil {
		return core.Instrument{}, core.WrapError(core.ErrFeedFailed, fmt.Errorf("%s: %w", path, err))
	}
	base := filepath.Base(path)
	return core.Instrument{
		Symbol: strings.TrimSuffix(base, filepath.Ext(base)),
		Bars:   bars,
	}, nil
}

// ParseCSV reads time,open,high,low,close,volume rows. A header row is
// optional; when present, columns are matched by name and extra columns
// are ignored. Rows are returned in file order.
func ParseCSV(r io.Reader) ([]core.Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		cols []int
		bars []core.Bar
		line int
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		if cols == nil {
			if isHeader(rec) {
				if cols, err = headerColumns(rec); err != nil {
					return nil, err
				}
				continue
			}
			cols = []int{0, 1, 2, 3, 4, 5}
		}

		bar, err := parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, core.ErrNoData
	}
	return bars, nil
}

func isHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	_, err := parseTime(rec[0])
	return err != nil
}

// headerColumns returns the record index of each default column.
func headerColumns(rec []string) ([]int, error) {
	pos := make(map[string]int, len(rec))
	for i, name := range rec {
		key := strings.ToLower(strings.TrimSpace(name))
		if alias, ok := columnAliases[key]; ok {
			key = alias
		}
		if _, seen := pos[key]; !seen {
			pos[key] = i
		}
	}

	cols := make([]int, len(defaultColumns))
	for i, name := range defaultColumns {
		idx, ok := pos[name]
		if !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
		cols[i] = idx
	}
	return cols, nil
}

func parseRow(rec []string, cols []int) (core.Bar, error) {
	field := func(i int) (string, error) {
		if cols[i] >= len(rec) {
			return "", fmt.Errorf("missing %s", defaultColumns[i])
		}
		return strings.TrimSpace(rec[cols[i]]), nil
	}

	var (
		bar  core.Bar
		vals [5]float64
	)
	raw, err := field(0)
	if err != nil {
		return bar, err
	}
	if bar.Time, err = parseTime(raw); err != nil {
		return bar, err
	}
	for i := 1; i < len(defaultColumns); i++ {
		raw, err := field(i)
		if err != nil {
			return bar, err
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return bar, fmt.Errorf("parsing %s: %w", defaultColumns[i], err)
		}
		vals[i-1] = v
	}
	bar.Open, bar.High, bar.Low, bar.Close, bar.Volume = vals[0], vals[1], vals[2], vals[3], vals[4]
	return bar, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}
