// Package mathutil provides common mathematical utility functions on decimals.
package mathutil

import (
	"fmt"

	"github.com/iwvelando/property-analyzer/pkg/constants"
	"github.com/shopspring/decimal"
)

var (
	hundred   = decimal.NewFromInt(100)
	tolerance = decimal.NewFromFloat(constants.CurrencyTolerance)
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val decimal.Decimal) decimal.Decimal {
	return val.Round(constants.CurrencyPlaces)
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val decimal.Decimal) bool {
	return val.Abs().LessThanOrEqual(tolerance)
}

// IsPositive checks if a value is positive (greater than tolerance)
func IsPositive(val decimal.Decimal) bool {
	return val.GreaterThan(tolerance)
}

// IsNegative checks if a value is negative (less than negative tolerance)
func IsNegative(val decimal.Decimal) bool {
	return val.LessThan(tolerance.Neg())
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tol decimal.Decimal) bool {
	return val1.Sub(val2).Abs().LessThanOrEqual(tol)
}

// ClampZero returns val, or zero when val is negative.
func ClampZero(val decimal.Decimal) decimal.Decimal {
	if val.IsNegative() {
		return decimal.Zero
	}
	return val
}

// SafeDivide divides numerator by denominator and reports false instead of
// panicking when the denominator is zero.
func SafeDivide(numerator, denominator decimal.Decimal) (decimal.Decimal, bool) {
	if denominator.IsZero() {
		return decimal.Zero, false
	}
	return numerator.Div(denominator), true
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total decimal.Decimal) decimal.Decimal {
	quotient, ok := SafeDivide(value, total)
	if !ok {
		return decimal.Zero
	}
	return quotient.Mul(hundred)
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage decimal.Decimal) decimal.Decimal {
	return value.Mul(percentage).Div(hundred)
}

// PowInt raises base to a non-negative integer exponent, keeping
// constants.PowerPrecision decimal places.
func PowInt(base decimal.Decimal, exp int) decimal.Decimal {
	if exp <= 0 {
		return decimal.NewFromInt(1)
	}
	// Only a zero base with a negative exponent fails, and exp is positive here.
	result, err := base.PowWithPrecision(decimal.NewFromInt(int64(exp)), constants.PowerPrecision)
	if err != nil {
		return decimal.Zero
	}
	return result.Round(constants.PowerPrecision)
}

// PowFrac raises a positive base to a fractional exponent, keeping
// constants.PowerPrecision decimal places.
func PowFrac(base, exp decimal.Decimal) (decimal.Decimal, error) {
	if exp.IsZero() {
		return decimal.NewFromInt(1), nil
	}
	if !base.IsPositive() {
		return decimal.Zero, fmt.Errorf("fractional power of non-positive base %s", base)
	}
	result, err := base.PowWithPrecision(exp, constants.PowerPrecision)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to raise %s to %s: %w", base, exp, err)
	}
	return result.Round(constants.PowerPrecision), nil
}
