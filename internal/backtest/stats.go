package backtest

import (
	"math"
	"sort"
	"time"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
)

// InitialEquity seeds every equity curve.
const InitialEquity = 100.0

const daysPerYear = 365.25

// sortTrades orders trades by exit, then entry, then direction; the equity
// curve compounds in this order.
func sortTrades(trades []Trade) {
	sort.SliceStable(trades, func(a, b int) bool {
		ta, tb := trades[a], trades[b]
		if ta.ExitIndex != tb.ExitIndex {
			return ta.ExitIndex < tb.ExitIndex
		}
		if ta.EntryIndex != tb.EntryIndex {
			return ta.EntryIndex < tb.EntryIndex
		}
		return ta.Direction < tb.Direction
	})
}

// EquityCurve compounds trade returns starting at InitialEquity. The first
// point is the seed at start; each trade adds a point at its exit.
func EquityCurve(trades []Trade, start time.Time) []EquityPoint {
	curve := make([]EquityPoint, 0, len(trades)+1)
	curve = append(curve, EquityPoint{Time: start, Equity: InitialEquity})
	equity := InitialEquity
	for _, t := range trades {
		equity *= 1 + t.PnLPct/100
		curve = append(curve, EquityPoint{Time: t.ExitTime, Equity: equity})
	}
	return curve
}

// barReturns returns one realized return per bar in [from, to], zero on
// bars where nothing closed. Trades must be sorted.
func barReturns(trades []Trade, from, to int) []float64 {
	if to < from {
		return nil
	}
	growth := make([]float64, to-from+1)
	for i := range growth {
		growth[i] = 1
	}
	for _, t := range trades {
		if t.ExitIndex < from || t.ExitIndex > to {
			continue
		}
		growth[t.ExitIndex-from] *= 1 + t.PnLPct/100
	}
	for i := range growth {
		growth[i]--
	}
	return growth
}

// CalculateStats computes performance statistics. returns is the per-bar
// return series of the whole simulated window, flat bars included.
func CalculateStats(trades []Trade, equity []EquityPoint, returns []float64, periodsPerYear float64) Stats {
	stats := Stats{
		TotalTrades:  len(trades),
		ProfitFactor: core.Undefined,
		SharpeRatio:  calculateSharpeRatio(returns, periodsPerYear),
		SortinoRatio: calculateSortinoRatio(returns, periodsPerYear),
	}
	if len(trades) == 0 {
		return stats
	}

	rs := make([]float64, len(trades))
	var held int
	for i, t := range trades {
		rs[i] = t.RealizedR
		stats.TotalR += t.RealizedR
		held += t.BarsHeld
		if t.IsWin() {
			stats.WinningTrades++
		} else {
			stats.LosingTrades++
		}
	}
	n := float64(len(trades))
	stats.WinRate = float64(stats.WinningTrades) / n * 100
	stats.ProfitFactor = profitFactor(rs)
	stats.Expectancy = stats.TotalR / n
	stats.AvgBarsHeld = float64(held) / n

	values := make([]float64, len(equity))
	for i, p := range equity {
		values[i] = p.Equity
	}
	final := values[len(values)-1]
	stats.TotalReturn = final - InitialEquity
	stats.MaxDrawdown, stats.AvgDrawdown = calculateDrawdowns(values)

	first, last := trades[0].EntryTime, trades[0].ExitTime
	for _, t := range trades {
		if t.EntryTime.Before(first) {
			first = t.EntryTime
		}
		if t.ExitTime.After(last) {
			last = t.ExitTime
		}
	}
	stats.CAGR = calculateCAGR(final, first, last)
	return stats
}

// profitFactor is gross winning R over gross losing R.
func profitFactor(rs []float64) float64 {
	var gain, loss float64
	for _, r := range rs {
		if r > 0 {
			gain += r
		} else {
			loss -= r
		}
	}
	if loss == 0 {
		return core.Undefined
	}
	return gain / loss
}

// calculateDrawdowns returns the deepest decline below the running peak and
// the mean depth of all drawdown episodes, both in percent.
func calculateDrawdowns(equity []float64) (maxDD, avgDD float64) {
	var peak, depth float64
	var episodes []float64
	for _, e := range equity {
		if e >= peak {
			if depth > 0 {
				episodes = append(episodes, depth)
				depth = 0
			}
			peak = e
			continue
		}
		if dd := (peak - e) / peak * 100; dd > depth {
			depth = dd
		}
	}
	if depth > 0 {
		episodes = append(episodes, depth)
	}

	var sum float64
	for _, d := range episodes {
		sum += d
		maxDD = math.Max(maxDD, d)
	}
	if len(episodes) > 0 {
		avgDD = sum / float64(len(episodes))
	}
	return maxDD, avgDD
}

// calculateCAGR annualizes the equity growth between the first entry and
// the last exit.
func calculateCAGR(final float64, first, last time.Time) float64 {
	years := last.Sub(first).Hours() / 24 / daysPerYear
	if years <= 0 {
		return 0
	}
	if final <= 0 {
		return -100
	}
	return (math.Pow(final/InitialEquity, 1/years) - 1) * 100
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// calculateSharpeRatio computes risk-adjusted return
// Assumes risk-free rate of 0 for simplicity
func calculateSharpeRatio(returns []float64, periodsPerYear float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	m := mean(returns)

	var variance float64
	for _, r := range returns {
		variance += (r - m) * (r - m)
	}
	stdDev := math.Sqrt(variance / float64(len(returns)-1))
	if stdDev == 0 {
		return 0
	}
	return m / stdDev * math.Sqrt(periodsPerYear)
}

// calculateSortinoRatio penalizes only downside deviation.
func calculateSortinoRatio(returns []float64, periodsPerYear float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	var downside float64
	for _, r := range returns {
		if r < 0 {
			downside += r * r
		}
	}
	dd := math.Sqrt(downside / float64(len(returns)))
	if dd == 0 {
		return 0
	}
	return mean(returns) / dd * math.Sqrt(periodsPerYear)
}
