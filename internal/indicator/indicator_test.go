package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barsFromCloses(closes []float64, spread float64) []core.Bar {
	base := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]core.Bar, len(closes))
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		bars[i] = core.Bar{
			Time:   base.AddDate(0, 0, i),
			Open:   open,
			High:   math.Max(open, c) + spread,
			Low:    math.Min(open, c) - spread,
			Close:  c,
			Volume: 1000 + float64(i%7)*100,
		}
	}
	return bars
}

func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func wave(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 10*math.Sin(float64(i)/6) + 0.1*float64(i)
	}
	return out
}

func TestATR_ConstantRange(t *testing.T) {
	bars := barsFromCloses(make([]float64, 30), 1) // flat close at 0 with ±1 spread
	atr := ATR(bars, 14)

	assert.True(t, math.IsNaN(atr[12]))
	assert.InDelta(t, 2.0, atr[13], 1e-12)
	assert.InDelta(t, 2.0, atr[29], 1e-12)
}

func TestRSI_Extremes(t *testing.T) {
	up := RSI(linear(30, 100, 1), 14)
	assert.True(t, math.IsNaN(up[13]), "rsi needs period changes")
	assert.Equal(t, 100.0, up[14])

	flat := RSI(linear(30, 100, 0), 14)
	assert.Equal(t, 50.0, flat[29])

	down := RSI(linear(30, 100, -1), 14)
	assert.InDelta(t, 0.0, down[29], 1e-12)
}

func TestDMI_FlatSeriesHasNoTrendStrength(t *testing.T) {
	bars := barsFromCloses(linear(60, 100, 0), 0)
	dmi := DMI(bars, 14)

	for i := 27; i < len(bars); i++ {
		require.False(t, math.IsNaN(dmi.ADX[i]), "adx defined at %d", i)
		assert.Equal(t, 0.0, dmi.ADX[i])
	}
}

func TestDMI_Uptrend(t *testing.T) {
	bars := barsFromCloses(linear(80, 100, 1), 0.5)
	dmi := DMI(bars, 14)

	last := len(bars) - 1
	assert.Greater(t, dmi.PlusDI[last], dmi.MinusDI[last])
	assert.Greater(t, dmi.ADX[last], 50.0)
	assert.True(t, math.IsNaN(dmi.ADX[14]), "adx needs two smoothing passes")
}

func TestSuperTrend_FlipsOnlyThroughActiveBand(t *testing.T) {
	closes := append(linear(40, 100, 1), linear(40, 139, -2)...)
	bars := barsFromCloses(closes, 0.5)
	st := SuperTrend(bars, 10, 3)

	assert.Equal(t, 0, st.Dir[8], "warm-up")
	assert.Equal(t, 1, st.Dir[39], "uptrend after the rise")
	assert.Equal(t, -1, st.Dir[79], "downtrend after the fall")

	// the lower band only ratchets up while the trend holds
	for i := 11; i < 40; i++ {
		if st.Dir[i] == 1 && st.Dir[i-1] == 1 {
			assert.GreaterOrEqual(t, st.Line[i], st.Line[i-1], "ratchet at %d", i)
		}
	}

	flips := 0
	for i := 10; i < len(bars); i++ {
		if st.Dir[i] != st.Dir[i-1] {
			flips++
			if st.Dir[i] == -1 {
				assert.Less(t, bars[i].Close, st.Line[i-1], "flip needs a close through the active band")
			}
		}
	}
	assert.Equal(t, 1, flips)
}

func TestLinReg(t *testing.T) {
	lr := LinReg(linear(30, 5, 2), 10)

	assert.True(t, math.IsNaN(lr.Slope[8]))
	assert.InDelta(t, 2.0, lr.Slope[20], 1e-9)
	assert.InDelta(t, 45.0, lr.Value[20], 1e-9)
	assert.InDelta(t, 1.0, lr.R2[20], 1e-9)

	flat := LinReg(linear(30, 5, 0), 10)
	assert.Equal(t, 0.0, flat.R2[20])
	assert.Equal(t, 0.0, flat.Slope[20])
}

func TestEfficiencyRatio(t *testing.T) {
	er := EfficiencyRatio(linear(20, 10, 1), 5)
	assert.InDelta(t, 1.0, er[10], 1e-12)

	zigzag := EfficiencyRatio([]float64{10, 11, 10, 11, 10, 11, 10}, 4)
	assert.InDelta(t, 0.0, zigzag[6], 1e-12)

	flat := EfficiencyRatio(linear(20, 10, 0), 5)
	assert.True(t, math.IsNaN(flat[10]), "zero path length is undefined")
}

func TestMACD_Alignment(t *testing.T) {
	m := MACD(linear(60, 100, 1), 12, 26, 9)

	assert.True(t, math.IsNaN(m.Line[24]))
	assert.False(t, math.IsNaN(m.Line[25]))
	assert.True(t, math.IsNaN(m.Signal[32]))
	assert.False(t, math.IsNaN(m.Signal[33]))
	assert.Greater(t, m.Line[59], 0.0)
}

func TestCompute_PrefixInvariant(t *testing.T) {
	bars := barsFromCloses(wave(320), 0.8)
	p := DefaultPeriods()
	full := Compute(bars, p)
	require.Len(t, full, len(bars))

	for _, k := range []int{30, 120, 201, 260} {
		prefix := Compute(bars[:k+1], p)
		for j := 0; j <= k; j++ {
			assertSameFrame(t, full[j], prefix[j], j)
		}
	}
}

func assertSameFrame(t *testing.T, a, b Frame, idx int) {
	t.Helper()
	pairs := [][2]float64{
		{a.EMAFast, b.EMAFast}, {a.EMASlow, b.EMASlow}, {a.SMALong, b.SMALong},
		{a.RSI, b.RSI}, {a.MACD, b.MACD}, {a.MACDSignal, b.MACDSignal},
		{a.ATR, b.ATR}, {a.ADX, b.ADX}, {a.PlusDI, b.PlusDI}, {a.SuperTrend, b.SuperTrend},
		{a.BBUpper, b.BBUpper}, {a.LinRegSlope, b.LinRegSlope}, {a.LinRegR2, b.LinRegR2},
		{a.EfficiencyRatio, b.EfficiencyRatio}, {a.RelVolume, b.RelVolume},
	}
	for f, p := range pairs {
		if math.IsNaN(p[0]) && math.IsNaN(p[1]) {
			continue
		}
		if p[0] != p[1] {
			t.Fatalf("frame %d field %d differs: %v vs %v", idx, f, p[0], p[1])
		}
	}
	if a.SuperTrendDir != b.SuperTrendDir {
		t.Fatalf("frame %d supertrend dir differs", idx)
	}
}

func TestProjectCloud_IsForwardShifted(t *testing.T) {
	bars := barsFromCloses(wave(120), 0.5)
	p := CloudPeriods{Tenkan: 9, Kijun: 26, SenkouB: 52}
	cloud := ProjectCloud(bars, p)

	require.Len(t, cloud.SpanA, len(bars)+26)
	assert.Equal(t, 40, cloud.Origin(66))

	// values stored past the series end were produced by bars that exist
	prefix := ProjectCloud(bars[:cloud.Origin(130)+1], p)
	assert.Equal(t, cloud.SpanB[130], prefix.SpanB[130])
}

func TestCloud_Position(t *testing.T) {
	c := Cloud{
		Displacement: 1,
		SpanA:        []float64{math.NaN(), 10, 12},
		SpanB:        []float64{math.NaN(), 8, 14},
	}
	assert.Equal(t, "", c.Position(0, 9))
	assert.Equal(t, "above", c.Position(1, 10.5))
	assert.Equal(t, "inside", c.Position(1, 9))
	assert.Equal(t, "below", c.Position(2, 11))
	assert.Equal(t, "", c.Position(5, 11))
}
