package indicator

import (
	"fmt"
	"math"

	"github.com/Dimmiditutto/TradingAgents-sub000/internal/core"
)

// Periods holds every indicator lookback.
type Periods struct {
	EMAFast        int          `mapstructure:"ema_fast"`
	EMASlow        int          `mapstructure:"ema_slow"`
	SMALong        int          `mapstructure:"sma_long"`
	RSI            int          `mapstructure:"rsi"`
	MACDFast       int          `mapstructure:"macd_fast"`
	MACDSlow       int          `mapstructure:"macd_slow"`
	MACDSignal     int          `mapstructure:"macd_signal"`
	ATR            int          `mapstructure:"atr"`
	ADX            int          `mapstructure:"adx"`
	SuperTrend     int          `mapstructure:"supertrend"`
	SuperTrendMult float64      `mapstructure:"supertrend_mult"`
	Bollinger      int          `mapstructure:"bollinger"`
	BollingerK     float64      `mapstructure:"bollinger_k"`
	LinReg         int          `mapstructure:"linreg"`
	Efficiency     int          `mapstructure:"efficiency"`
	Volume         int          `mapstructure:"volume"`
	Cloud          CloudPeriods `mapstructure:"cloud"`
}

// DefaultPeriods returns the conventional lookbacks.
func DefaultPeriods() Periods {
	return Periods{
		EMAFast:        20,
		EMASlow:        50,
		SMALong:        200,
		RSI:            14,
		MACDFast:       12,
		MACDSlow:       26,
		MACDSignal:     9,
		ATR:            14,
		ADX:            14,
		SuperTrend:     10,
		SuperTrendMult: 3,
		Bollinger:      20,
		BollingerK:     2,
		LinReg:         20,
		Efficiency:     10,
		Volume:         20,
		Cloud:          CloudPeriods{Tenkan: 9, Kijun: 26, SenkouB: 52},
	}
}

// Longest returns the largest lookback, a lower bound for a useful warm-up.
func (p Periods) Longest() int {
	longest := 0
	for _, v := range []int{p.EMAFast, p.EMASlow, p.SMALong, p.RSI + 1, p.MACDSlow + p.MACDSignal,
		p.ATR, 2 * p.ADX, p.SuperTrend, p.Bollinger, p.LinReg, p.Efficiency + 1, p.Volume} {
		if v > longest {
			longest = v
		}
	}
	return longest
}

// Validate checks that every lookback is positive.
func (p Periods) Validate() error {
	named := []struct {
		name string
		v    int
	}{
		{"ema_fast", p.EMAFast}, {"ema_slow", p.EMASlow}, {"sma_long", p.SMALong},
		{"rsi", p.RSI}, {"macd_fast", p.MACDFast}, {"macd_slow", p.MACDSlow},
		{"macd_signal", p.MACDSignal}, {"atr", p.ATR}, {"adx", p.ADX},
		{"supertrend", p.SuperTrend}, {"bollinger", p.Bollinger}, {"linreg", p.LinReg},
		{"efficiency", p.Efficiency}, {"volume", p.Volume},
		{"cloud.tenkan", p.Cloud.Tenkan}, {"cloud.kijun", p.Cloud.Kijun}, {"cloud.senkou_b", p.Cloud.SenkouB},
	}
	for _, n := range named {
		if n.v < 1 {
			return core.WrapError(core.ErrInvalidConfig,
				fmt.Errorf("indicator period %s must be >= 1, got %d", n.name, n.v))
		}
	}
	if p.MACDFast >= p.MACDSlow {
		return core.WrapError(core.ErrInvalidConfig,
			fmt.Errorf("macd_fast must be below macd_slow"))
	}
	if p.SuperTrendMult <= 0 || p.BollingerK <= 0 {
		return core.WrapError(core.ErrInvalidConfig,
			fmt.Errorf("supertrend_mult and bollinger_k must be positive"))
	}
	return nil
}

// Frame is a bar augmented with its causal indicator values.
type Frame struct {
	core.Bar

	EMAFast float64
	EMASlow float64
	SMALong float64

	RSI        float64
	MACD       float64
	MACDSignal float64
	MACDHist   float64

	ATR        float64
	ATRPercent float64

	PlusDI  float64
	MinusDI float64
	ADX     float64

	SuperTrend    float64
	SuperTrendDir int

	BBUpper  float64
	BBMiddle float64
	BBLower  float64
	BBWidth  float64

	LinRegValue float64
	LinRegSlope float64
	LinRegR2    float64

	EfficiencyRatio float64 // NaN when undefined

	VolumeSMA float64
	RelVolume float64
}

// Compute derives the frame series. Frame k is a function of bars[0..k] only,
// so computing over a longer series never changes earlier frames.
func Compute(bars []core.Bar, p Periods) []Frame {
	closes := core.Closes(bars)

	emaFast := EMA(closes, p.EMAFast)
	emaSlow := EMA(closes, p.EMASlow)
	smaLong := SMA(closes, p.SMALong)
	rsi := RSI(closes, p.RSI)
	macd := MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	atr := ATR(bars, p.ATR)
	dmi := DMI(bars, p.ADX)
	st := SuperTrend(bars, p.SuperTrend, p.SuperTrendMult)
	bb := Bollinger(closes, p.Bollinger, p.BollingerK)
	lr := LinReg(closes, p.LinReg)
	er := EfficiencyRatio(closes, p.Efficiency)
	volAvg, relVol := RelativeVolume(core.Volumes(bars), p.Volume)

	frames := make([]Frame, len(bars))
	for i, b := range bars {
		atrPct := math.NaN()
		if !math.IsNaN(atr[i]) && b.Close != 0 {
			atrPct = atr[i] / b.Close * 100
		}
		frames[i] = Frame{
			Bar:             b,
			EMAFast:         emaFast[i],
			EMASlow:         emaSlow[i],
			SMALong:         smaLong[i],
			RSI:             rsi[i],
			MACD:            macd.Line[i],
			MACDSignal:      macd.Signal[i],
			MACDHist:        macd.Hist[i],
			ATR:             atr[i],
			ATRPercent:      atrPct,
			PlusDI:          dmi.PlusDI[i],
			MinusDI:         dmi.MinusDI[i],
			ADX:             dmi.ADX[i],
			SuperTrend:      st.Line[i],
			SuperTrendDir:   st.Dir[i],
			BBUpper:         bb.Upper[i],
			BBMiddle:        bb.Middle[i],
			BBLower:         bb.Lower[i],
			BBWidth:         bb.Width[i],
			LinRegValue:     lr.Value[i],
			LinRegSlope:     lr.Slope[i],
			LinRegR2:        lr.R2[i],
			EfficiencyRatio: er[i],
			VolumeSMA:       volAvg[i],
			RelVolume:       relVol[i],
		}
	}
	return frames
}
