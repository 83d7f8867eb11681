package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/config"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeSeries(t *testing.T, dir, symbol string, n int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("time,open,high,low,close,volume\n")
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	prev := 100.0
	for i := 0; i < n; i++ {
		x := float64(i)
		c := 100 + 0.1*x + 5*math.Sin(x/6)
		fmt.Fprintf(&b, "%s,%.4f,%.4f,%.4f,%.4f,%d\n",
			start.AddDate(0, 0, i).Format("2006-01-02"),
			prev, math.Max(prev, c)+0.5, math.Min(prev, c)-0.5, c, 1000+i%5*100)
		prev = c
	}
	path := filepath.Join(dir, symbol+".csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}

func TestLoadInstruments(t *testing.T) {
	dir := t.TempDir()
	writeSeries(t, dir, "AAA", 30)
	writeSeries(t, dir, "BBB", 40)
	other := writeSeries(t, t.TempDir(), "CCC", 50)

	cfg := config.Defaults()
	cfg.Data.Dir = dir
	ctx := context.Background()
	log := zap.NewNop()

	all, err := loadInstruments(ctx, cfg, nil, log)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "AAA", all[0].Symbol)
	assert.Len(t, all[1].Bars, 40)

	mixed, err := loadInstruments(ctx, cfg, []string{"BBB", other}, log)
	require.NoError(t, err)
	require.Len(t, mixed, 2)
	assert.Equal(t, "CCC", mixed[1].Symbol)

	cfg.Data.Symbols = []string{"BBB"}
	configured, err := loadInstruments(ctx, cfg, nil, log)
	require.NoError(t, err)
	require.Len(t, configured, 1)

	_, err = loadInstruments(ctx, cfg, []string{"ZZZ"}, log)
	assert.ErrorIs(t, err, core.ErrFeedFailed)
}

func TestLoadInstruments_EmptyDir(t *testing.T) {
	cfg := config.Defaults()
	cfg.Data.Dir = t.TempDir()
	_, err := loadInstruments(context.Background(), cfg, nil, zap.NewNop())
	assert.ErrorIs(t, err, core.ErrNoData)
}

func TestScanInstrument_Lookback(t *testing.T) {
	dir := t.TempDir()
	writeSeries(t, dir, "AAA", 300)
	cfg := config.Defaults()
	cfg.Data.Dir = dir

	insts, err := loadInstruments(context.Background(), cfg, []string{"AAA"}, zap.NewNop())
	require.NoError(t, err)

	scores, err := scanInstrument(insts[0], cfg.Pipeline(), 5, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, scores, 10)
	assert.Equal(t, 295, scores[0].Index)
	assert.Equal(t, 299, scores[9].Index)
	for _, s := range scores {
		assert.GreaterOrEqual(t, s.TotalScore, 0.0)
		assert.LessOrEqual(t, s.TotalScore, 100.0)
	}
}
