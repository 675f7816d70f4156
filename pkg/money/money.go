// Package money provides exact decimal Money and Percentage value types with
// an explicit unbounded state.
//
// Both types are immutable: every operation returns a new value. A value is
// either finite or unbounded; any arithmetic mixing the two yields unbounded,
// and unbounded compares greater than every finite value.
package money

import (
	"fmt"

	"github.com/iwvelando/property-analyzer/pkg/constants"
	"github.com/iwvelando/property-analyzer/pkg/format"
	"github.com/iwvelando/property-analyzer/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Money is an exact amount in the base currency unit.
type Money struct {
	amount    decimal.Decimal
	unbounded bool
}

// New creates a finite Money value from a decimal amount.
func New(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// NewFromInt creates a finite Money value from whole currency units.
func NewFromInt(amount int64) Money {
	return Money{amount: decimal.NewFromInt(amount)}
}

// NewFromFloat creates a finite Money value from a float. The float is read
// through its shortest decimal representation.
func NewFromFloat(amount float64) Money {
	return Money{amount: decimal.NewFromFloat(amount)}
}

// Zero returns a zero Money value.
func Zero() Money {
	return Money{amount: decimal.Zero}
}

// Unbounded returns the unbounded Money value.
func Unbounded() Money {
	return Money{unbounded: true}
}

// Parse reads a string such as "$1,234.56" or "∞".
func Parse(s string) (Money, error) {
	p, err := parseString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: p.amount, unbounded: p.unbounded}, nil
}

// MustParse is Parse that panics on error. Intended for tests and constants.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// FromValue converts ints, floats, strings, decimals, Money and Percentage
// values into Money.
func FromValue(value interface{}) (Money, error) {
	p, err := parseValue(value)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: p.amount, unbounded: p.unbounded}, nil
}

// FromValueOr is FromValue that substitutes def on conversion failure.
func FromValueOr(value interface{}, def Money) Money {
	m, err := FromValue(value)
	if err != nil {
		return def
	}
	return m
}

// IsUnbounded reports whether m is the unbounded value.
func (m Money) IsUnbounded() bool {
	return m.unbounded
}

// Decimal returns the finite amount. Unbounded values report ErrUnbounded.
func (m Money) Decimal() (decimal.Decimal, error) {
	if m.unbounded {
		return decimal.Zero, ErrUnbounded
	}
	return m.amount, nil
}

// Amount returns the finite amount, or zero for unbounded values.
func (m Money) Amount() decimal.Decimal {
	if m.unbounded {
		return decimal.Zero
	}
	return m.amount
}

// IsZero returns true if the amount is exactly zero.
func (m Money) IsZero() bool {
	return !m.unbounded && m.amount.IsZero()
}

// IsPositive returns true if the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.unbounded || m.amount.IsPositive()
}

// IsNegative returns true if the amount is strictly less than zero.
func (m Money) IsNegative() bool {
	return !m.unbounded && m.amount.IsNegative()
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	if m.unbounded || other.unbounded {
		return Unbounded()
	}
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns m - other. Subtracting involving an unbounded operand yields
// unbounded.
func (m Money) Sub(other Money) Money {
	if m.unbounded || other.unbounded {
		return Unbounded()
	}
	return Money{amount: m.amount.Sub(other.amount)}
}

// Mul returns m multiplied by a plain factor.
func (m Money) Mul(factor decimal.Decimal) Money {
	if m.unbounded {
		return m
	}
	return Money{amount: m.amount.Mul(factor)}
}

// MulInt returns m multiplied by n.
func (m Money) MulInt(n int) Money {
	return m.Mul(decimal.NewFromInt(int64(n)))
}

// ApplyPercentage returns p percent of m, e.g. 8% of $1,800 is $144.
func (m Money) ApplyPercentage(p Percentage) Money {
	if m.unbounded || p.unbounded {
		return Unbounded()
	}
	return Money{amount: m.amount.Mul(p.Fraction())}
}

// Div returns m divided by a plain divisor.
func (m Money) Div(divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, ErrDivisionByZero
	}
	if m.unbounded {
		return m, nil
	}
	return Money{amount: m.amount.Div(divisor)}, nil
}

// DivInt returns m divided by n.
func (m Money) DivInt(n int) (Money, error) {
	return m.Div(decimal.NewFromInt(int64(n)))
}

// Ratio returns m / other as a plain number.
func (m Money) Ratio(other Money) (decimal.Decimal, error) {
	if m.unbounded || other.unbounded {
		return decimal.Zero, ErrUnbounded
	}
	quotient, ok := mathutil.SafeDivide(m.amount, other.amount)
	if !ok {
		return decimal.Zero, ErrDivisionByZero
	}
	return quotient, nil
}

// PercentOf returns m as a percentage of other, e.g. $20 of $80 is 25%.
func (m Money) PercentOf(other Money) (Percentage, error) {
	if m.unbounded || other.unbounded {
		return UnboundedPercentage(), nil
	}
	if other.amount.IsZero() {
		return Percentage{}, ErrDivisionByZero
	}
	return Percentage{value: mathutil.CalculatePercentage(m.amount, other.amount)}, nil
}

// Neg returns -m. The unbounded value has no negative counterpart and is
// returned unchanged.
func (m Money) Neg() Money {
	if m.unbounded {
		return m
	}
	return Money{amount: m.amount.Neg()}
}

// Abs returns |m|.
func (m Money) Abs() Money {
	if m.unbounded {
		return m
	}
	return Money{amount: m.amount.Abs()}
}

// ClampZero returns m, or zero when m is negative.
func (m Money) ClampZero() Money {
	if m.IsNegative() {
		return Zero()
	}
	return m
}

// Round returns m rounded to cents.
func (m Money) Round() Money {
	if m.unbounded {
		return m
	}
	return Money{amount: mathutil.Round(m.amount)}
}

// Cmp compares m and other and returns -1, 0 or +1.
func (m Money) Cmp(other Money) int {
	switch {
	case m.unbounded && other.unbounded:
		return 0
	case m.unbounded:
		return 1
	case other.unbounded:
		return -1
	}
	return m.amount.Cmp(other.amount)
}

// Equal returns true if m and other are the same value.
func (m Money) Equal(other Money) bool {
	return m.Cmp(other) == 0
}

// GreaterThan returns true if m > other.
func (m Money) GreaterThan(other Money) bool {
	return m.Cmp(other) > 0
}

// GreaterThanOrEqual returns true if m >= other.
func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.Cmp(other) >= 0
}

// LessThan returns true if m < other.
func (m Money) LessThan(other Money) bool {
	return m.Cmp(other) < 0
}

// LessThanOrEqual returns true if m <= other.
func (m Money) LessThanOrEqual(other Money) bool {
	return m.Cmp(other) <= 0
}

// Sum adds all values.
func Sum(values ...Money) Money {
	total := Zero()
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Max returns the larger of a and b.
func Max(a, b Money) Money {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min(a, b Money) Money {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// String formats m as "$1,234.56", or "∞" when unbounded.
func (m Money) String() string {
	if m.unbounded {
		return constants.UnboundedSymbol
	}
	return format.Currency(m.amount)
}

// GoString is used by %#v.
func (m Money) GoString() string {
	return fmt.Sprintf("money.Money(%s)", m.String())
}

// MarshalText implements encoding.TextMarshaler using the display format.
func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Money) UnmarshalText(text []byte) error {
	parsedMoney, err := Parse(string(text))
	if err != nil {
		return err
	}
	*m = parsedMoney
	return nil
}
