package core

import (
	"math"
	"testing"
)

func TestDirection_Sign(t *testing.T) {
	if Long.Sign() != 1 {
		t.Errorf("Long.Sign() = %v, want 1", Long.Sign())
	}
	if Short.Sign() != -1 {
		t.Errorf("Short.Sign() = %v, want -1", Short.Sign())
	}
	if Long.Opposite() != Short || Short.Opposite() != Long {
		t.Error("Opposite should swap sides")
	}
}

func TestIsFinite(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want bool
	}{
		{"zero", 0, true},
		{"nan", math.NaN(), false},
		{"+inf", math.Inf(1), false},
		{"-inf", math.Inf(-1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFinite(tt.in); got != tt.want {
				t.Errorf("IsFinite(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestUndefined(t *testing.T) {
	if !IsUndefined(Undefined) {
		t.Error("Undefined should be recognised")
	}
	if IsUndefined(0) {
		t.Error("zero is a defined ratio")
	}
}
