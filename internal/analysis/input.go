package analysis

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/property-analyzer/pkg/datetime"
	"github.com/iwvelando/property-analyzer/pkg/loans"
	"github.com/iwvelando/property-analyzer/pkg/money"
)

// Input is the flat deal input an analysis is built from.
type Input map[string]interface{}

// clone returns a shallow copy of in with nested maps and slices copied.
func (in Input) clone() Input {
	out := make(Input, len(in))
	for k, v := range in {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[k] = deepCopy(val)
		}
		return m
	case Input:
		return map[string]interface{}(t.clone())
	case []interface{}:
		s := make([]interface{}, len(t))
		for i, val := range t {
			s[i] = deepCopy(val)
		}
		return s
	case map[string]string:
		m := make(map[string]string, len(t))
		for k, val := range t {
			m[k] = val
		}
		return m
	default:
		return v
	}
}

// has reports whether key is present with a non-empty value.
func (in Input) has(key string) bool {
	v, ok := in[key]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// amount reads key as Money. Missing or blank values are zero.
func (in Input) amount(key string) (money.Money, error) {
	if !in.has(key) {
		return money.Zero(), nil
	}
	m, err := money.FromValue(in[key])
	if err != nil {
		return money.Zero(), fmt.Errorf("%s: %w", key, err)
	}
	return m, nil
}

// amountOrZero reads key as Money, treating malformed values as zero.
func (in Input) amountOrZero(key string) money.Money {
	m, err := in.amount(key)
	if err != nil {
		return money.Zero()
	}
	return m
}

func (in Input) percent(key string) (money.Percentage, error) {
	if !in.has(key) {
		return money.ZeroPercentage(), nil
	}
	p, err := money.PercentageFromValue(in[key])
	if err != nil {
		return money.ZeroPercentage(), fmt.Errorf("%s: %w", key, err)
	}
	return p, nil
}

func (in Input) percentOrZero(key string) money.Percentage {
	p, err := in.percent(key)
	if err != nil {
		return money.ZeroPercentage()
	}
	return p
}

// percentOr reads key as a Percentage, falling back to def when absent.
func (in Input) percentOr(key string, def float64) money.Percentage {
	if !in.has(key) {
		return money.NewPercentageFromFloat(def)
	}
	return in.percentOrZero(key)
}

// integer reads key as a whole number. Fractional values are an error.
func (in Input) integer(key string) (int, error) {
	if !in.has(key) {
		return 0, nil
	}
	m, err := money.FromValue(in[key])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	d, err := m.Decimal()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("%s: %s is not a whole number", key, d)
	}
	return int(d.IntPart()), nil
}

func (in Input) integerOrZero(key string) int {
	n, err := in.integer(key)
	if err != nil {
		return 0
	}
	return n
}

// flag accepts booleans, numbers and the strings true/yes/on/1.
func (in Input) flag(key string) bool {
	switch v := in[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "on", "1", "y":
			return true
		}
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		return false
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return false
	}
}

func (in Input) text(key string) string {
	switch v := in[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func (in Input) date(key string) (time.Time, error) {
	t, err := datetime.ParseISO(in.text(key))
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", key, err)
	}
	return t, nil
}

// loan builds the LoanDetails for a slot whose fields are named
// <prefix>_loan_amount, <prefix>_loan_interest_rate, <prefix>_loan_term and
// <prefix>_interest_only.
func (in Input) loan(prefix string) (loans.LoanDetails, error) {
	amount, err := in.amount(prefix + "_loan_amount")
	if err != nil {
		return loans.LoanDetails{}, err
	}
	rate, err := in.percent(prefix + "_loan_interest_rate")
	if err != nil {
		return loans.LoanDetails{}, err
	}
	term, err := in.integer(prefix + "_loan_term")
	if err != nil {
		return loans.LoanDetails{}, err
	}
	return loans.LoanDetails{
		Amount:       amount,
		InterestRate: rate,
		TermMonths:   term,
		InterestOnly: in.flag(prefix + "_interest_only"),
	}, nil
}

// hasLoan reports whether a slot declares a non-zero loan amount.
func (in Input) hasLoan(prefix string) bool {
	return in.amountOrZero(prefix + "_loan_amount").IsPositive()
}
