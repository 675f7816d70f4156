package mathutil

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Round up at midpoint", "1.235", "1.24"},
		{"Round down below midpoint", "1.234", "1.23"},
		{"No rounding needed", "1.23", "1.23"},
		{"Large number", "12345.678", "12345.68"},
		{"Negative number round down", "-1.234", "-1.23"},
		{"Zero", "0", "0"},
		{"Very small positive", "0.001", "0"},
		{"Nearly two cents", "0.019", "0.02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(d(tt.input))
			if !result.Equal(d(tt.expected)) {
				t.Errorf("Round(%s) = %s, expected %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"Exactly zero", "0", true},
		{"Very small positive", "0.001", true},
		{"Very small negative", "-0.001", true},
		{"Just above tolerance", "0.02", false},
		{"Just below negative tolerance", "-0.02", false},
		{"Exactly tolerance", "0.01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsZero(d(tt.input)); got != tt.expected {
				t.Errorf("IsZero(%s) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSignHelpers(t *testing.T) {
	if !IsPositive(d("0.02")) || IsPositive(d("0.01")) {
		t.Errorf("IsPositive tolerance boundary incorrect")
	}
	if !IsNegative(d("-0.02")) || IsNegative(d("-0.01")) {
		t.Errorf("IsNegative tolerance boundary incorrect")
	}
	if !WithinTolerance(d("100.004"), d("100"), d("0.01")) {
		t.Errorf("WithinTolerance expected true")
	}
}

func TestClampZero(t *testing.T) {
	if got := ClampZero(d("-5")); !got.IsZero() {
		t.Errorf("ClampZero(-5) = %s, expected 0", got)
	}
	if got := ClampZero(d("5")); !got.Equal(d("5")) {
		t.Errorf("ClampZero(5) = %s, expected 5", got)
	}
}

func TestSafeDivide(t *testing.T) {
	if _, ok := SafeDivide(d("10"), decimal.Zero); ok {
		t.Errorf("SafeDivide by zero should report false")
	}
	got, ok := SafeDivide(d("10"), d("4"))
	if !ok || !got.Equal(d("2.5")) {
		t.Errorf("SafeDivide(10, 4) = %s, %v", got, ok)
	}
}

func TestCalculatePercentage(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		total    string
		expected string
	}{
		{"Quarter", "25", "100", "25"},
		{"Zero total", "25", "0", "0"},
		{"Occupancy", "8", "10", "80"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePercentage(d(tt.value), d(tt.total))
			if !got.Equal(d(tt.expected)) {
				t.Errorf("CalculatePercentage() = %s, expected %s", got, tt.expected)
			}
		})
	}
}

func TestApplyPercentage(t *testing.T) {
	got := ApplyPercentage(d("1800"), d("8"))
	if !got.Equal(d("144")) {
		t.Errorf("ApplyPercentage(1800, 8) = %s, expected 144", got)
	}
}

func TestPowInt(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		exp      int
		expected string
	}{
		{"Zero exponent", "1.5", 0, "1"},
		{"Square", "1.5", 2, "2.25"},
		{"Cube", "2", 3, "8"},
		{"Tenth", "1.1", 10, "2.5937424601"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PowInt(d(tt.base), tt.exp)
			if !got.Equal(d(tt.expected)) {
				t.Errorf("PowInt(%s, %d) = %s, expected %s", tt.base, tt.exp, got, tt.expected)
			}
		})
	}
}

func TestPowFrac(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		exp      string
		expected string
	}{
		{"Zero exponent", "1.03", "0", "1"},
		{"Whole exponent", "1.03", "2", "1.0609"},
		{"Half year", "1.21", "0.5", "1.1"},
		{"Quarter", "1.0001", "0.25", "1.0000249990625547"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PowFrac(d(tt.base), d(tt.exp))
			if err != nil {
				t.Fatalf("PowFrac(%s, %s) error = %v", tt.base, tt.exp, err)
			}
			if !WithinTolerance(got, d(tt.expected), d("0.0000000001")) {
				t.Errorf("PowFrac(%s, %s) = %s, expected %s", tt.base, tt.exp, got, tt.expected)
			}
		})
	}

	if _, err := PowFrac(d("-1.5"), d("0.5")); err == nil {
		t.Errorf("PowFrac(-1.5, 0.5) expected error")
	}
}
