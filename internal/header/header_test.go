package header

import (
	"math"
	"testing"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		input    interface{}
		expected string
	}{
		{"Slit_1.0", "Slit_1.0"},
		{1800.0, "1800.0"},
		{58756.75, "58756.75"},
		{-12.5, "-12.5"},
		{0.0, "0.0"},
		{1e-17, "1e-17"},
		{2.5e-05, "2.5e-05"},
		{float32(1.5), "1.5"},
		{math.Inf(1), "inf"},
		{math.NaN(), "nan"},
		{42, "42"},
		{int64(4711), "4711"},
		{false, "False"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := FormatValue(tt.input); got != tt.expected {
			t.Errorf("FormatValue(%v) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
