package format

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected string
	}{
		{"Zero", "0", "$0.00"},
		{"Small", "5.5", "$5.50"},
		{"Thousands", "1234.56", "$1,234.56"},
		{"Millions", "1234567.891", "$1,234,567.89"},
		{"Negative", "-43000", "-$43,000.00"},
		{"Rounds to zero", "-0.001", "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Currency(decimal.RequireFromString(tt.amount))
			if got != tt.expected {
				t.Errorf("Currency(%s) = %s, expected %s", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestNumericCurrency(t *testing.T) {
	if got := NumericCurrency(decimal.RequireFromString("-1234.5")); got != "-1,234.50" {
		t.Errorf("NumericCurrency() = %s, expected -1,234.50", got)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		value    string
		places   int32
		expected string
	}{
		{"8.5", 2, "8.50%"},
		{"80", 2, "80.00%"},
		{"4.125", 3, "4.125%"},
		{"-3.333", 1, "-3.3%"},
	}
	for _, tt := range tests {
		got := Percent(decimal.RequireFromString(tt.value), tt.places)
		if got != tt.expected {
			t.Errorf("Percent(%s, %d) = %s, expected %s", tt.value, tt.places, got, tt.expected)
		}
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio(decimal.RequireFromString("1.2549")); got != "1.25" {
		t.Errorf("Ratio() = %s, expected 1.25", got)
	}
}
