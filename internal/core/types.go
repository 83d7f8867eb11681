package core

import (
	"math"
	"time"
)

// Bar represents a single OHLCV candle
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Instrument is a named, already-fetched bar series.
type Instrument struct {
	Symbol string
	Bars   []Bar
}

// Direction represents the side of a signal or trade
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// Directions lists both sides in evaluation order.
var Directions = []Direction{Long, Short}

// Sign returns +1 for long and -1 for short.
func (d Direction) Sign() float64 {
	if d == Short {
		return -1
	}
	return 1
}

// Opposite returns the other side.
func (d Direction) Opposite() Direction {
	if d == Short {
		return Long
	}
	return Short
}

// Undefined marks a non-negative ratio whose denominator is zero
// (risk/reward with zero risk, profit factor with no losing trades).
const Undefined = -1.0

// IsUndefined reports whether x carries the Undefined sentinel.
func IsUndefined(x float64) bool {
	return x == Undefined
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Closes extracts the close prices of a series.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the volumes of a series.
func Volumes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}
