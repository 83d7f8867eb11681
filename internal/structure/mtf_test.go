package structure

import (
	"testing"
	"time"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_EveryN(t *testing.T) {
	bars := barsFrom([]float64{10, 12, 11, 15, 14, 13, 16})
	coarse := Aggregate(bars, EveryN(3))

	require.Len(t, coarse, 3)
	assert.Equal(t, 10.0, coarse[0].Open)
	assert.Equal(t, 12.5, coarse[0].High)
	assert.Equal(t, 9.5, coarse[0].Low)
	assert.Equal(t, 11.0, coarse[0].Close)
	assert.Equal(t, 3000.0, coarse[0].Volume)
	assert.Equal(t, bars[3].Time, coarse[1].Time)
	assert.Equal(t, 16.0, coarse[2].Close, "trailing partial bucket")
}

func TestAggregate_ISOWeek(t *testing.T) {
	// 2022-01-03 is a Monday
	bars := barsFrom(make([]float64, 15))
	for i := range bars {
		bars[i].Close, bars[i].Open, bars[i].High, bars[i].Low = 1, 1, 1, 1
	}
	weekly := Aggregate(bars, ISOWeek)
	require.Len(t, weekly, 3)
	assert.Equal(t, 7000.0, weekly[0].Volume)
	assert.Equal(t, 1000.0, weekly[2].Volume)
}

func TestCoarseTracker_OnlyCompletedBuckets(t *testing.T) {
	cfg := CoarseConfig{Mode: "bars", Bars: 4, Pivots: Config{Left: 2, Right: 2}}
	tr := NewCoarseTracker(cfg)

	bars := barsFrom(legs(4, 100, 120, 110, 140, 125, 160))
	for i, b := range bars {
		tr.Step(b)
		// the bucket containing bar i is still open
		assert.Equal(t, i/4, tr.Completed(), "after bar %d", i)
	}
}

func TestCoarseTracker_Trend(t *testing.T) {
	cfg := CoarseConfig{Mode: "bars", Bars: 2, Pivots: Config{Left: 2, Right: 2, MinProminencePct: 1}}
	tr := NewCoarseTracker(cfg)

	closes := legs(12, 100, 160, 130, 190, 160, 220)
	for _, b := range barsFrom(closes) {
		tr.Step(b)
	}
	assert.Equal(t, Uptrend, tr.Trend())
}

func TestConfluence(t *testing.T) {
	choch := &Event{Kind: CHOCHUp}
	chochDown := &Event{Kind: CHOCHDown}

	tests := []struct {
		name   string
		coarse Trend
		fine   Snapshot
		long   bool
		short  bool
	}{
		{"both up", Uptrend, Snapshot{Trend: Uptrend}, true, false},
		{"fine reversal up", Uptrend, Snapshot{Trend: Downtrend, LastEvent: choch}, true, false},
		{"fine down", Uptrend, Snapshot{Trend: Downtrend}, false, false},
		{"both down", Downtrend, Snapshot{Trend: Downtrend}, false, true},
		{"fine reversal down", Downtrend, Snapshot{Trend: Undefined, LastEvent: chochDown}, false, true},
		{"coarse undefined", Undefined, Snapshot{Trend: Uptrend}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			long, short := Confluence(tt.coarse, tt.fine)
			assert.Equal(t, tt.long, long)
			assert.Equal(t, tt.short, short)
		})
	}
}

func TestCoarseConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultCoarseConfig().Validate())
	assert.Error(t, CoarseConfig{Mode: "month", Pivots: DefaultConfig()}.Validate())
	assert.Error(t, CoarseConfig{Mode: "bars", Bars: 1, Pivots: DefaultConfig()}.Validate())
}

func TestISOWeek_YearBoundary(t *testing.T) {
	a := core.Bar{Time: time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)}
	b := core.Bar{Time: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, ISOWeek(0, a), ISOWeek(1, b), "both fall in ISO week 2020-53")
}
