package backtest

import (
	"fmt"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"github.com/Dimmiditutto/TradingAgents-sub000/internal/structure"
)

var eventKeys = []string{
	string(structure.BOSUp),
	string(structure.BOSDown),
	string(structure.CHOCHUp),
	string(structure.CHOCHDown),
	string(structure.NoEvent),
}

var directionKeys = []string{string(core.Long), string(core.Short)}

var holdBuckets = []struct {
	max int
	key string
}{
	{2, "1-2"},
	{5, "3-5"},
	{10, "6-10"},
	{20, "11-20"},
}

var holdKeys = []string{"1-2", "3-5", "6-10", "11-20", "21+"}

var scoreKeys = func() []string {
	keys := make([]string, 10)
	for d := range keys {
		keys[d] = fmt.Sprintf("%d-%d", d*10, d*10+10)
	}
	return keys
}()

// ScoreBand returns the decile band of a score, e.g. "70-80". 100 falls in
// "90-100".
func ScoreBand(score float64) string {
	d := int(score / 10)
	if d > 9 {
		d = 9
	}
	if d < 0 {
		d = 0
	}
	return scoreKeys[d]
}

// HoldBucket returns the hold-duration bucket of a trade.
func HoldBucket(bars int) string {
	for _, b := range holdBuckets {
		if bars <= b.max {
			return b.key
		}
	}
	return "21+"
}

// BuildBreakdowns groups trades along every breakdown dimension.
func BuildBreakdowns(trades []Trade) Breakdowns {
	return Breakdowns{
		ByEvent:     bucketize(trades, eventKeys, func(t Trade) string { return string(t.EventType) }),
		ByDirection: bucketize(trades, directionKeys, func(t Trade) string { return string(t.Direction) }),
		ByScore:     bucketize(trades, scoreKeys, func(t Trade) string { return ScoreBand(t.Score) }),
		ByHold:      bucketize(trades, holdKeys, func(t Trade) string { return HoldBucket(t.BarsHeld) }),
	}
}

func bucketize(trades []Trade, keys []string, keyOf func(Trade) string) []Bucket {
	groups := make(map[string][]float64, len(keys))
	for _, t := range trades {
		k := keyOf(t)
		groups[k] = append(groups[k], t.RealizedR)
	}

	var out []Bucket
	for _, k := range keys {
		rs, ok := groups[k]
		if !ok {
			continue
		}
		b := Bucket{Key: k, Trades: len(rs), ProfitFactor: profitFactor(rs)}
		for _, r := range rs {
			b.TotalR += r
			if r > 0 {
				b.Wins++
			}
		}
		b.WinRate = float64(b.Wins) / float64(b.Trades) * 100
		b.AvgR = b.TotalR / float64(b.Trades)
		out = append(out, b)
	}
	return out
}
