package backtest

import (
	"math"
	"testing"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
)

func closed(r float64, entry, exit int) Trade {
	return Trade{
		RealizedR:  r,
		PnLPct:     r,
		EntryIndex: entry,
		ExitIndex:  exit,
		EntryTime:  t0.AddDate(0, 0, entry),
		ExitTime:   t0.AddDate(0, 0, exit),
		BarsHeld:   exit - entry,
	}
}

func TestCalculateStats_Empty(t *testing.T) {
	stats := CalculateStats(nil, nil, nil, 252)
	if stats.TotalTrades != 0 {
		t.Error("expected 0 trades for empty input")
	}
	if !core.IsUndefined(stats.ProfitFactor) {
		t.Errorf("ProfitFactor = %f, want undefined", stats.ProfitFactor)
	}
}

func TestCalculateStats_WinRate(t *testing.T) {
	trades := []Trade{
		closed(2, 0, 5),  // win
		closed(1, 5, 8),  // win
		closed(-1, 8, 9), // loss
		closed(0.5, 9, 12),
	}
	equity := EquityCurve(trades, t0)
	stats := CalculateStats(trades, equity, nil, 252)

	if stats.TotalTrades != 4 {
		t.Errorf("TotalTrades = %d, want 4", stats.TotalTrades)
	}
	if stats.WinningTrades != 3 {
		t.Errorf("WinningTrades = %d, want 3", stats.WinningTrades)
	}
	if stats.WinRate != 75 {
		t.Errorf("WinRate = %f, want 75", stats.WinRate)
	}
	if math.Abs(stats.ProfitFactor-3.5) > 1e-9 {
		t.Errorf("ProfitFactor = %f, want 3.5", stats.ProfitFactor)
	}
	if math.Abs(stats.Expectancy-0.625) > 1e-9 {
		t.Errorf("Expectancy = %f, want 0.625", stats.Expectancy)
	}
	if math.Abs(stats.AvgBarsHeld-3) > 1e-9 {
		t.Errorf("AvgBarsHeld = %f, want 3", stats.AvgBarsHeld)
	}
}

func TestCalculateStats_NoLossesHasUndefinedProfitFactor(t *testing.T) {
	trades := []Trade{closed(1, 0, 2), closed(2, 2, 4)}
	stats := CalculateStats(trades, EquityCurve(trades, t0), nil, 252)

	if !core.IsUndefined(stats.ProfitFactor) {
		t.Errorf("ProfitFactor = %f, want undefined", stats.ProfitFactor)
	}
}

func TestEquityCurve_Compounds(t *testing.T) {
	trades := []Trade{closed(10, 0, 1), closed(-5, 1, 2)}
	curve := EquityCurve(trades, t0)

	if len(curve) != 3 {
		t.Fatalf("len(curve) = %d, want 3", len(curve))
	}
	if curve[0].Equity != InitialEquity || !curve[0].Time.Equal(t0) {
		t.Errorf("seed point = %+v", curve[0])
	}
	want := 100 * 1.10 * 0.95
	if math.Abs(curve[2].Equity-want) > 1e-9 {
		t.Errorf("final equity = %f, want %f", curve[2].Equity, want)
	}
	if !curve[2].Time.Equal(trades[1].ExitTime) {
		t.Error("equity point should carry the exit time")
	}
}

func TestCalculateDrawdowns(t *testing.T) {
	// Peak 115.5, trough 92.4 then recovery, second dip of 10%.
	equity := []float64{100, 110, 115.5, 92.4, 101.64, 120, 108}
	maxDD, avgDD := calculateDrawdowns(equity)

	if math.Abs(maxDD-20) > 1e-9 {
		t.Errorf("MaxDrawdown = %f, want 20", maxDD)
	}
	if math.Abs(avgDD-15) > 1e-9 {
		t.Errorf("AvgDrawdown = %f, want 15", avgDD)
	}
}

func TestBarReturns_IncludesFlatBars(t *testing.T) {
	trades := []Trade{closed(2, 10, 12), closed(-1, 11, 12), closed(1, 13, 15)}
	returns := barReturns(trades, 10, 16)

	want := []float64{0, 0, 1.02*0.99 - 1, 0, 0, 0.01, 0}
	if len(returns) != len(want) {
		t.Fatalf("len = %d, want %d", len(returns), len(want))
	}
	for i := range want {
		if math.Abs(returns[i]-want[i]) > 1e-12 {
			t.Errorf("returns[%d] = %f, want %f", i, returns[i], want[i])
		}
	}
}

func TestSharpe_FlatBarsLowerTheRatio(t *testing.T) {
	active := []float64{0.01, -0.005, 0.02, 0.01}
	withFlat := append(append([]float64{}, active...), make([]float64, 20)...)

	a := calculateSharpeRatio(active, 252)
	b := calculateSharpeRatio(withFlat, 252)
	if !(b < a) {
		t.Errorf("sharpe with flat bars %f should be below %f", b, a)
	}

	sa := calculateSortinoRatio(active, 252)
	sb := calculateSortinoRatio(withFlat, 252)
	if !(sb < sa) {
		t.Errorf("sortino with flat bars %f should be below %f", sb, sa)
	}
}

func TestSharpe_ZeroVarianceIsZero(t *testing.T) {
	if got := calculateSharpeRatio(make([]float64, 30), 252); got != 0 {
		t.Errorf("Sharpe = %f, want 0", got)
	}
	if got := calculateSortinoRatio([]float64{0.01, 0.02, 0}, 252); got != 0 {
		t.Errorf("Sortino without downside = %f, want 0", got)
	}
}

func TestCalculateCAGR(t *testing.T) {
	first := t0
	last := t0.AddDate(2, 0, 0)
	got := calculateCAGR(121, first, last)
	// 2024 is a leap year, so the span is a little over two years.
	if math.Abs(got-10) > 0.01 {
		t.Errorf("CAGR = %f, want ~10", got)
	}
	if calculateCAGR(150, first, first) != 0 {
		t.Error("zero-length period should give zero CAGR")
	}
	if calculateCAGR(-5, first, last) != -100 {
		t.Error("wiped-out equity should give -100")
	}
}

func TestSortTrades(t *testing.T) {
	trades := []Trade{
		{ExitIndex: 9, EntryIndex: 3, Direction: core.Short},
		{ExitIndex: 7, EntryIndex: 5, Direction: core.Long},
		{ExitIndex: 9, EntryIndex: 3, Direction: core.Long},
		{ExitIndex: 9, EntryIndex: 1, Direction: core.Short},
	}
	sortTrades(trades)

	want := []struct {
		exit, entry int
		dir         core.Direction
	}{
		{7, 5, core.Long}, {9, 1, core.Short}, {9, 3, core.Long}, {9, 3, core.Short},
	}
	for i, w := range want {
		tr := trades[i]
		if tr.ExitIndex != w.exit || tr.EntryIndex != w.entry || tr.Direction != w.dir {
			t.Errorf("trades[%d] = %d/%d/%s, want %d/%d/%s", i, tr.ExitIndex, tr.EntryIndex, tr.Direction, w.exit, w.entry, w.dir)
		}
	}
}
