package core

import "fmt"

// SeriesViolation describes the first bar that breaks the input contract.
// It is the cause carried by ErrInvalidSeries.
type SeriesViolation struct {
	Index  int
	Reason string
}

func (v *SeriesViolation) Error() string {
	return fmt.Sprintf("bar %d: %s", v.Index, v.Reason)
}

// ValidateSeries checks ordering, uniqueness and per-bar invariants.
// Malformed input is rejected, never repaired: dropping a bar would shift
// every index downstream.
func ValidateSeries(bars []Bar) error {
	for i, b := range bars {
		if reason := validateBar(b); reason != "" {
			return invalid(i, reason)
		}
		if i == 0 {
			continue
		}
		prev := bars[i-1].Time
		switch {
		case b.Time.Equal(prev):
			return invalid(i, "duplicate timestamp "+b.Time.Format("2006-01-02T15:04:05Z07:00"))
		case b.Time.Before(prev):
			return invalid(i, "timestamp not ascending")
		}
	}
	return nil
}

func validateBar(b Bar) string {
	for _, v := range [...]float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
		if !IsFinite(v) {
			return "non-finite value"
		}
	}
	switch {
	case b.Volume < 0:
		return "negative volume"
	case b.High < b.Low:
		return "high below low"
	case b.High < b.Open || b.High < b.Close:
		return "high below open/close"
	case b.Low > b.Open || b.Low > b.Close:
		return "low above open/close"
	}
	return ""
}

func invalid(i int, reason string) error {
	return WrapError(ErrInvalidSeries, &SeriesViolation{Index: i, Reason: reason})
}
