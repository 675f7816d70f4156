package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	// ErrConversion is returned when a value cannot be read as a decimal amount.
	ErrConversion = errors.New("value conversion failed")

	// ErrDivisionByZero is returned by division helpers when the divisor is zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrOutOfRange is returned by bounded constructors.
	ErrOutOfRange = errors.New("value out of range")

	// ErrUnbounded is returned when an unbounded value would have to be
	// expressed as a plain number.
	ErrUnbounded = errors.New("unbounded value has no numeric representation")
)

var unboundedTokens = map[string]struct{}{
	"∞":         {},
	"+∞":        {},
	"inf":       {},
	"+inf":      {},
	"infinity":  {},
	"+infinity": {},
	"unbounded": {},
}

// parsed is the intermediate result shared by Money and Percentage parsing.
type parsed struct {
	amount    decimal.Decimal
	unbounded bool
}

// parseString strips currency and percentage decoration ($ , % and any
// whitespace) and parses what is left.
func parseString(raw string) (parsed, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == '$' || r == ',' || r == '%' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	if cleaned == "" {
		return parsed{}, fmt.Errorf("%w: empty value %q", ErrConversion, raw)
	}
	if _, ok := unboundedTokens[strings.ToLower(cleaned)]; ok {
		return parsed{unbounded: true}, nil
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return parsed{}, fmt.Errorf("%w: %q is not a number: %v", ErrConversion, raw, err)
	}
	return parsed{amount: amount}, nil
}

// parseValue converts the loosely typed values found in deal inputs.
func parseValue(value interface{}) (parsed, error) {
	switch v := value.(type) {
	case nil:
		return parsed{}, fmt.Errorf("%w: nil value", ErrConversion)
	case string:
		return parseString(v)
	case int:
		return parsed{amount: decimal.NewFromInt(int64(v))}, nil
	case int32:
		return parsed{amount: decimal.NewFromInt(int64(v))}, nil
	case int64:
		return parsed{amount: decimal.NewFromInt(v)}, nil
	case uint:
		return parsed{amount: decimal.NewFromInt(int64(v))}, nil
	case uint64:
		return parsed{amount: decimal.NewFromInt(int64(v))}, nil
	case float32:
		return parseFloat(float64(v))
	case float64:
		return parseFloat(v)
	case json.Number:
		return parseString(v.String())
	case decimal.Decimal:
		return parsed{amount: v}, nil
	case Money:
		return parsed{amount: v.amount, unbounded: v.unbounded}, nil
	case Percentage:
		return parsed{amount: v.value, unbounded: v.unbounded}, nil
	case fmt.Stringer:
		return parseString(v.String())
	default:
		return parsed{}, fmt.Errorf("%w: unsupported type %T", ErrConversion, value)
	}
}

func parseFloat(v float64) (parsed, error) {
	switch {
	case math.IsNaN(v):
		return parsed{}, fmt.Errorf("%w: NaN", ErrConversion)
	case math.IsInf(v, 1):
		return parsed{unbounded: true}, nil
	case math.IsInf(v, -1):
		return parsed{}, fmt.Errorf("%w: negative infinity", ErrConversion)
	}
	return parsed{amount: decimal.NewFromFloat(v)}, nil
}
