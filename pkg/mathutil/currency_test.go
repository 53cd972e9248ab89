package mathutil

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRoundCents(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"round half to even, nearest even above", "1.235", "1.24"},
		{"round half to even, nearest even below", "1.245", "1.24"},
		{"no rounding needed", "1.23", "1.23"},
		{"large number", "12345.678", "12345.68"},
		{"negative value", "-1.235", "-1.24"},
		{"zero", "0", "0"},
		{"exactly one cent", "0.01", "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundCents(decimal.RequireFromString(tt.input))
			want := decimal.RequireFromString(tt.expected)
			if !got.Equal(want) {
				t.Errorf("RoundCents(%s) = %s, want %s", tt.input, got, want)
			}
		})
	}
}
