package mathutil

import (
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		val      float64
		lo       float64
		hi       float64
		expected float64
	}{
		{
			name:     "Within interval",
			val:      275,
			lo:       0,
			hi:       1000,
			expected: 275,
		},
		{
			name:     "Below lower bound",
			val:      -5,
			lo:       0,
			hi:       100,
			expected: 0,
		},
		{
			name:     "Above upper bound",
			val:      150,
			lo:       0,
			hi:       100,
			expected: 100,
		},
		{
			name:     "Exactly on bound",
			val:      100,
			lo:       0,
			hi:       100,
			expected: 100,
		},
		{
			name:     "Degenerate interval",
			val:      10,
			lo:       5,
			hi:       5,
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.val, tt.lo, tt.hi); got != tt.expected {
				t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.val, tt.lo, tt.hi, got, tt.expected)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(1.0, 1.0+1e-13, 1e-12) {
		t.Error("expected values within 1e-12 to compare equal")
	}
	if WithinTolerance(1.0, 1.1, 1e-12) {
		t.Error("expected values apart by 0.1 to compare unequal")
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		val      float64
		expected float64
	}{
		{1.005, 1.0}, // binary representation of 1.005 is slightly below
		{1.004, 1.0},
		{123.456, 123.46},
		{-2.345, -2.35},
		{0, 0},
	}

	for _, tt := range tests {
		if got := Round(tt.val); got != tt.expected {
			t.Errorf("Round(%v) = %v, want %v", tt.val, got, tt.expected)
		}
	}
}

func TestMinMax(t *testing.T) {
	if Min(2, 3) != 2 || Min(3, 2) != 2 {
		t.Error("Min returned wrong value")
	}
	if Max(2, 3) != 3 || Max(3, 2) != 3 {
		t.Error("Max returned wrong value")
	}
}
