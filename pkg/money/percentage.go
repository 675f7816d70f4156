package money

import (
	"fmt"

	"github.com/iwvelando/property-analyzer/pkg/constants"
	"github.com/iwvelando/property-analyzer/pkg/format"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Percentage is a decimal percentage: 4.5 means 4.5%.
type Percentage struct {
	value     decimal.Decimal
	unbounded bool
}

// NewPercentage creates a finite Percentage.
func NewPercentage(value decimal.Decimal) Percentage {
	return Percentage{value: value}
}

// NewPercentageFromFloat creates a finite Percentage from a float.
func NewPercentageFromFloat(value float64) Percentage {
	return Percentage{value: decimal.NewFromFloat(value)}
}

// NewPercentageInRange creates a Percentage and fails when value lies outside
// the inclusive [min, max] bounds.
func NewPercentageInRange(value, min, max decimal.Decimal) (Percentage, error) {
	if value.LessThan(min) || value.GreaterThan(max) {
		return Percentage{}, fmt.Errorf("%w: %s%% not within [%s%%, %s%%]", ErrOutOfRange, value, min, max)
	}
	return Percentage{value: value}, nil
}

// ZeroPercentage returns 0%.
func ZeroPercentage() Percentage {
	return Percentage{value: decimal.Zero}
}

// UnboundedPercentage returns the unbounded Percentage.
func UnboundedPercentage() Percentage {
	return Percentage{unbounded: true}
}

// ParsePercentage reads a string such as "8.50%" or "∞%".
func ParsePercentage(s string) (Percentage, error) {
	p, err := parseString(s)
	if err != nil {
		return Percentage{}, err
	}
	return Percentage{value: p.amount, unbounded: p.unbounded}, nil
}

// MustParsePercentage is ParsePercentage that panics on error.
func MustParsePercentage(s string) Percentage {
	p, err := ParsePercentage(s)
	if err != nil {
		panic(err)
	}
	return p
}

// PercentageFromValue converts ints, floats, strings, decimals and other
// Percentage values.
func PercentageFromValue(value interface{}) (Percentage, error) {
	p, err := parseValue(value)
	if err != nil {
		return Percentage{}, err
	}
	return Percentage{value: p.amount, unbounded: p.unbounded}, nil
}

// PercentageFromValueOr is PercentageFromValue that substitutes def on failure.
func PercentageFromValueOr(value interface{}, def Percentage) Percentage {
	p, err := PercentageFromValue(value)
	if err != nil {
		return def
	}
	return p
}

// IsUnbounded reports whether p is the unbounded value.
func (p Percentage) IsUnbounded() bool {
	return p.unbounded
}

// Value returns the percentage number (4.5 for 4.5%), or zero when unbounded.
func (p Percentage) Value() decimal.Decimal {
	if p.unbounded {
		return decimal.Zero
	}
	return p.value
}

// Fraction returns value/100 for use in formulas (0.045 for 4.5%).
func (p Percentage) Fraction() decimal.Decimal {
	if p.unbounded {
		return decimal.Zero
	}
	return p.value.Div(hundred)
}

// IsZero returns true for exactly 0%.
func (p Percentage) IsZero() bool {
	return !p.unbounded && p.value.IsZero()
}

// IsNegative returns true for a finite negative percentage.
func (p Percentage) IsNegative() bool {
	return !p.unbounded && p.value.IsNegative()
}

// Add returns p + other.
func (p Percentage) Add(other Percentage) Percentage {
	if p.unbounded || other.unbounded {
		return UnboundedPercentage()
	}
	return Percentage{value: p.value.Add(other.value)}
}

// Sub returns p - other.
func (p Percentage) Sub(other Percentage) Percentage {
	if p.unbounded || other.unbounded {
		return UnboundedPercentage()
	}
	return Percentage{value: p.value.Sub(other.value)}
}

// Mul returns p multiplied by a plain factor.
func (p Percentage) Mul(factor decimal.Decimal) Percentage {
	if p.unbounded {
		return p
	}
	return Percentage{value: p.value.Mul(factor)}
}

// Div returns p divided by a plain divisor.
func (p Percentage) Div(divisor decimal.Decimal) (Percentage, error) {
	if divisor.IsZero() {
		return Percentage{}, ErrDivisionByZero
	}
	if p.unbounded {
		return p, nil
	}
	return Percentage{value: p.value.Div(divisor)}, nil
}

// Round returns p rounded to the given number of decimal places.
func (p Percentage) Round(places int32) Percentage {
	if p.unbounded {
		return p
	}
	return Percentage{value: p.value.Round(places)}
}

// Cmp compares p and other and returns -1, 0 or +1.
func (p Percentage) Cmp(other Percentage) int {
	switch {
	case p.unbounded && other.unbounded:
		return 0
	case p.unbounded:
		return 1
	case other.unbounded:
		return -1
	}
	return p.value.Cmp(other.value)
}

// Equal returns true if p and other are the same value.
func (p Percentage) Equal(other Percentage) bool {
	return p.Cmp(other) == 0
}

// GreaterThan returns true if p > other.
func (p Percentage) GreaterThan(other Percentage) bool {
	return p.Cmp(other) > 0
}

// LessThan returns true if p < other.
func (p Percentage) LessThan(other Percentage) bool {
	return p.Cmp(other) < 0
}

// Format renders p with the given number of decimal places.
func (p Percentage) Format(places int32) string {
	if p.unbounded {
		return constants.UnboundedSymbol + "%"
	}
	return format.Percent(p.value, places)
}

// String renders p with constants.PercentagePlaces decimals, e.g. "8.50%".
func (p Percentage) String() string {
	return p.Format(constants.PercentagePlaces)
}

// MarshalText implements encoding.TextMarshaler using the display format.
func (p Percentage) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Percentage) UnmarshalText(text []byte) error {
	parsedPct, err := ParsePercentage(string(text))
	if err != nil {
		return err
	}
	*p = parsedPct
	return nil
}
