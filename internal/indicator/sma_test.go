package indicator

import (
	"math"
	"testing"
)

func TestSMA_Calculate(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14, 15}

	sma := SMA(prices, 3)

	// SMA(3) for [10,11,12,13,14,15] aligned to the input:
	// [NaN, NaN, 11, 12, 13, 14]
	expected := []float64{math.NaN(), math.NaN(), 11, 12, 13, 14}

	if len(sma) != len(prices) {
		t.Fatalf("expected %d values, got %d", len(prices), len(sma))
	}

	for i, v := range expected {
		if math.IsNaN(v) {
			if !math.IsNaN(sma[i]) {
				t.Errorf("sma[%d] = %f, want NaN", i, sma[i])
			}
			continue
		}
		if sma[i] != v {
			t.Errorf("sma[%d] = %f, want %f", i, sma[i], v)
		}
	}
}

func TestSMA_NotEnoughData(t *testing.T) {
	prices := []float64{10, 11}
	sma := SMA(prices, 5)

	for i, v := range sma {
		if !math.IsNaN(v) {
			t.Errorf("sma[%d] = %f, want NaN", i, v)
		}
	}
}

func TestEMA_Calculate(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14, 15}
	ema := EMA(prices, 3)

	// First EMA = SMA = 11
	if ema[2] != 11 {
		t.Errorf("first EMA should equal SMA, got %f", ema[2])
	}

	// value_k = a*x_k + (1-a)*value_{k-1}, a = 0.5
	if want := 0.5*13 + 0.5*11; !almostEqual(ema[3], want, 1e-12) {
		t.Errorf("ema[3] = %f, want %f", ema[3], want)
	}

	for i := 3; i < len(ema); i++ {
		if ema[i] <= ema[i-1] {
			t.Errorf("EMA should be increasing, ema[%d]=%f <= ema[%d]=%f", i, ema[i], i-1, ema[i-1])
		}
	}
}

func TestRMA_SeedsWithFirstDefinedWindow(t *testing.T) {
	values := []float64{math.NaN(), 2, 4, 6, 8}
	rma := RMA(values, 2)

	if !math.IsNaN(rma[1]) {
		t.Errorf("rma[1] should still be warming up, got %f", rma[1])
	}
	if rma[2] != 3 {
		t.Errorf("rma[2] = %f, want seed 3", rma[2])
	}
	if want := 0.5*6 + 0.5*3; rma[3] != want {
		t.Errorf("rma[3] = %f, want %f", rma[3], want)
	}
}

func TestStdDev(t *testing.T) {
	sd := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 8)
	if !almostEqual(sd[7], 2, 1e-12) {
		t.Errorf("population stddev = %f, want 2", sd[7])
	}
}

func TestHighestLowest(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5}
	hi := Highest(values, 3)
	lo := Lowest(values, 3)
	if hi[4] != 5 || lo[4] != 1 {
		t.Errorf("window [4,1,5]: highest=%f lowest=%f", hi[4], lo[4])
	}
	if hi[2] != 4 || lo[2] != 1 {
		t.Errorf("window [3,1,4]: highest=%f lowest=%f", hi[2], lo[2])
	}
}

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}
