package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatINR(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected string
	}{
		{name: "zero", amount: "0", expected: "₹0.00"},
		{name: "three digits", amount: "999.5", expected: "₹999.50"},
		{name: "thousands", amount: "1000", expected: "₹1,000.00"},
		{name: "lakhs", amount: "1234567.89", expected: "₹12,34,567.89"},
		{name: "crore", amount: "10000000", expected: "₹1,00,00,000.00"},
		{name: "negative", amount: "-45000", expected: "-₹45,000.00"},
		{name: "rounds half up", amount: "10.005", expected: "₹10.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatINR(decimal.RequireFromString(tt.amount))
			if got != tt.expected {
				t.Errorf("FormatINR(%s) = %q, want %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name     string
		part     string
		whole    string
		expected string
	}{
		{name: "zero whole is fully covered", part: "0", whole: "0", expected: "100"},
		{name: "half", part: "50", whole: "100", expected: "50"},
		{name: "capped", part: "300", whole: "100", expected: "100"},
		{name: "rounded", part: "1", whole: "3", expected: "33.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percent(decimal.RequireFromString(tt.part), decimal.RequireFromString(tt.whole))
			if !got.Equal(decimal.RequireFromString(tt.expected)) {
				t.Errorf("Percent(%s, %s) = %s, want %s", tt.part, tt.whole, got, tt.expected)
			}
		})
	}
}

func TestFloorMoney(t *testing.T) {
	got := FloorMoney(decimal.RequireFromString("3333.339"))
	if !got.Equal(decimal.RequireFromString("3333.33")) {
		t.Errorf("FloorMoney = %s, want 3333.33", got)
	}
}
