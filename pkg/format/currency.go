// Package format renders decimal amounts for display.
package format

import (
	"strings"

	"github.com/iwvelando/property-analyzer/pkg/constants"
	"github.com/shopspring/decimal"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount decimal.Decimal) string {
	formatted := formatPositive(amount.Abs(), constants.CurrencyPlaces)
	if amount.Round(constants.CurrencyPlaces).IsNegative() {
		return "-$" + formatted
	}
	return "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.Round(constants.CurrencyPlaces).IsNegative() {
		sign = "-"
	}
	return sign + formatPositive(amount.Abs(), constants.CurrencyPlaces)
}

// Percent returns a percentage string with the given number of decimals (e.g., "8.50%").
func Percent(value decimal.Decimal, places int32) string {
	return value.StringFixed(places) + "%"
}

// Ratio returns a plain fixed-precision number such as a DSCR (e.g., "1.25").
func Ratio(value decimal.Decimal) string {
	return value.StringFixed(constants.RatioPlaces)
}

func formatPositive(value decimal.Decimal, places int32) string {
	formatted := value.StringFixed(places)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := ""
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	if decPart == "" {
		return intPart
	}
	return intPart + "." + decPart
}
