package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentageFraction(t *testing.T) {
	p := NewPercentageFromFloat(4.5)
	assert.True(t, p.Fraction().Equal(decimal.RequireFromString("0.045")), "got %s", p.Fraction())
	assert.True(t, UnboundedPercentage().Fraction().IsZero())
}

func TestNewPercentageInRange(t *testing.T) {
	min := decimal.Zero
	max := decimal.NewFromInt(30)
	unit := decimal.RequireFromString("0.01")

	tests := []struct {
		name    string
		value   decimal.Decimal
		wantErr bool
	}{
		{"At minimum", min, false},
		{"At maximum", max, false},
		{"Inside", decimal.NewFromInt(7), false},
		{"Below minimum", min.Sub(unit), true},
		{"Above maximum", max.Add(unit), true},
		{"Whole unit above maximum", max.Add(decimal.NewFromInt(1)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPercentageInRange(tt.value, min, max)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.True(t, p.Value().Equal(tt.value))
		})
	}
}

func TestPercentageFormatting(t *testing.T) {
	assert.Equal(t, "8.50%", NewPercentageFromFloat(8.5).String())
	assert.Equal(t, "80.00%", NewPercentage(decimal.NewFromInt(80)).String())
	assert.Equal(t, "7.125%", NewPercentageFromFloat(7.125).Format(3))
	assert.Equal(t, "∞%", UnboundedPercentage().String())
}

func TestPercentageRoundTrip(t *testing.T) {
	for _, raw := range []string{"0", "8.5", "7.125", "-12.345", "999.99"} {
		for _, places := range []int32{1, 2, 3} {
			original := MustParsePercentage(raw)
			reparsed, err := ParsePercentage(original.Format(places))
			require.NoError(t, err)
			assert.True(t, reparsed.Equal(original.Round(places)),
				"%s at %d places round-tripped to %s", raw, places, reparsed.Format(places))
		}
	}

	reparsed, err := ParsePercentage(UnboundedPercentage().String())
	require.NoError(t, err)
	assert.True(t, reparsed.IsUnbounded())
}

func TestPercentageUnbounded(t *testing.T) {
	inf := UnboundedPercentage()
	finite := NewPercentageFromFloat(999.99)

	assert.True(t, inf.GreaterThan(finite))
	assert.True(t, finite.LessThan(inf))
	assert.True(t, inf.Equal(UnboundedPercentage()))
	assert.True(t, inf.Add(finite).IsUnbounded())
	assert.True(t, finite.Sub(inf).IsUnbounded())
	assert.True(t, inf.Mul(decimal.NewFromInt(3)).IsUnbounded())
}

func TestPercentageArithmetic(t *testing.T) {
	sum := NewPercentageFromFloat(8).Add(NewPercentageFromFloat(5)).Add(NewPercentageFromFloat(5))
	assert.Equal(t, "18.00%", sum.String())

	half, err := NewPercentageFromFloat(9).Div(decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.Equal(t, "4.50%", half.String())

	_, err = half.Div(decimal.Zero)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestPercentageFromValue(t *testing.T) {
	p, err := PercentageFromValue("8.50%")
	require.NoError(t, err)
	assert.Equal(t, "8.50%", p.String())

	p = PercentageFromValueOr("abc", ZeroPercentage())
	assert.True(t, p.IsZero())
}
