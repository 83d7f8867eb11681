package feed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_Headerless(t *testing.T) {
	in := `2024-01-02,100,101.5,99,101,12000
2024-01-03,101,102,100.5,101.8,9000
`
	bars, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Time)
	assert.Equal(t, core.Bar{
		Time:   time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		Open:   101,
		High:   102,
		Low:    100.5,
		Close:  101.8,
		Volume: 9000,
	}, bars[1])
}

func TestParseCSV_HeaderByName(t *testing.T) {
	in := `Date,Close,High,Low,Open,Adj Close,Volume
2024-01-02T14:30:00Z,101,101.5,99,100,100.7,12000
`
	bars, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, bars, 1)

	b := bars[0]
	assert.Equal(t, 100.0, b.Open)
	assert.Equal(t, 101.0, b.Close)
	assert.Equal(t, 12000.0, b.Volume)
	assert.Equal(t, 14, b.Time.Hour())
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "no data"},
		{"header only", "time,open,high,low,close,volume\n", "no data"},
		{"missing column", "time,open,high,low,close\n2024-01-02,1,1,1,1\n", `missing column "volume"`},
		{"bad number", "2024-01-02,1,x,1,1,1\n", "line 1: parsing high"},
		{"bad time", "time,open,high,low,close,volume\n02/01/2024,1,1,1,1,1\n", `line 2: unrecognised time`},
		{"short row", "2024-01-02,1,1,1,1,1\n2024-01-03,1,1\n", "line 2: missing low"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestCSVDir(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "MSFT.csv", "2024-01-02,1,2,0.5,1.5,10\n")
	writeCSV(t, dir, "AAPL.csv", "2024-01-02,1,2,0.5,1.5,10\n2024-01-03,1.5,2,1,1.8,12\n")
	writeCSV(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0755))

	src := NewCSVDir(dir)
	assert.Equal(t, "csv", src.Name())
	ctx := context.Background()

	symbols, err := src.Symbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, symbols)

	all, err := LoadAll(ctx, src, symbols)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "AAPL", all[0].Symbol)
	assert.Len(t, all[0].Bars, 2)
	assert.NoError(t, core.ValidateSeries(all[0].Bars))
}

func TestCSVDir_Missing(t *testing.T) {
	src := NewCSVDir(t.TempDir())

	_, err := src.Load(context.Background(), "NOPE")
	assert.ErrorIs(t, err, core.ErrFeedFailed)
	assert.ErrorIs(t, err, core.ErrNoData)

	_, err = NewCSVDir(filepath.Join(t.TempDir(), "absent")).Symbols(context.Background())
	assert.ErrorIs(t, err, core.ErrFeedFailed)
}

func TestLoadAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadAll(ctx, NewCSVDir(t.TempDir()), []string{"A"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFile_SymbolFromName(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "SPY.csv", "2024-01-02,1,2,0.5,1.5,10\n")

	inst, err := LoadFile(filepath.Join(dir, "SPY.csv"))
	require.NoError(t, err)
	assert.Equal(t, "SPY", inst.Symbol)
}
