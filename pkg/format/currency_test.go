package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{
			name:     "Small positive amount",
			amount:   275,
			expected: "$275.00",
		},
		{
			name:     "Thousands separator",
			amount:   123750,
			expected: "$123,750.00",
		},
		{
			name:     "Negative amount",
			amount:   -24500.5,
			expected: "-$24,500.50",
		},
		{
			name:     "Zero",
			amount:   0,
			expected: "$0.00",
		},
		{
			name:     "Millions",
			amount:   1234567.89,
			expected: "$1,234,567.89",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.amount); got != tt.expected {
				t.Errorf("Currency(%v) = %q, want %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(0.8182); got != "81.82%" {
		t.Errorf("Percent(0.8182) = %q, want %q", got, "81.82%")
	}
	if got := Percent(0); got != "0.00%" {
		t.Errorf("Percent(0) = %q, want %q", got, "0.00%")
	}
}
