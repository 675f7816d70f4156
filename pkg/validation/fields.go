package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/iwvelando/property-analyzer/pkg/datetime"
	"github.com/iwvelando/property-analyzer/pkg/money"
	"github.com/shopspring/decimal"
)

// FieldError identifies the offending field and the violated constraint.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func fieldErrorf(field, format string, args ...interface{}) error {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Field pairs an input key with the human-readable name used in messages.
type Field struct {
	Key   string
	Label string
}

// Message returns the text of err, or "" when err is nil. Use it to turn any
// validator into a message-returning check.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// numeric reads a finite decimal out of a loosely typed input value.
func numeric(value interface{}, field string) (decimal.Decimal, error) {
	amount, err := money.FromValue(value)
	if err != nil {
		return decimal.Zero, fieldErrorf(field, "must be a number")
	}
	d, err := amount.Decimal()
	if err != nil {
		return decimal.Zero, fieldErrorf(field, "must be a finite number")
	}
	return d, nil
}

// ValidatePositiveNumber fails when value is not a number greater than zero.
func ValidatePositiveNumber(value interface{}, field string) error {
	d, err := numeric(value, field)
	if err != nil {
		return err
	}
	if !d.IsPositive() {
		return fieldErrorf(field, "must be greater than 0")
	}
	return nil
}

// ValidateNonNegativeNumber fails when value is not a number of at least zero.
func ValidateNonNegativeNumber(value interface{}, field string) error {
	d, err := numeric(value, field)
	if err != nil {
		return err
	}
	if d.IsNegative() {
		return fieldErrorf(field, "cannot be negative")
	}
	return nil
}

// ValidatePercentage fails when value lies outside the inclusive [min, max] range.
func ValidatePercentage(value interface{}, field string, min, max float64) error {
	d, err := numeric(value, field)
	if err != nil {
		return err
	}
	if _, err := money.NewPercentageInRange(d, decimal.NewFromFloat(min), decimal.NewFromFloat(max)); err != nil {
		return fieldErrorf(field, "must be between %s%% and %s%%",
			decimal.NewFromFloat(min), decimal.NewFromFloat(max))
	}
	return nil
}

// ValidatePercentageDefault is ValidatePercentage over [0, 100].
func ValidatePercentageDefault(value interface{}, field string) error {
	return ValidatePercentage(value, field, 0, 100)
}

// ValidateNumericRange is a generic inclusive bounds check for non-monetary numbers.
func ValidateNumericRange(value interface{}, min, max float64, field string) error {
	d, err := numeric(value, field)
	if err != nil {
		return err
	}
	if d.LessThan(decimal.NewFromFloat(min)) || d.GreaterThan(decimal.NewFromFloat(max)) {
		return fieldErrorf(field, "must be between %s and %s",
			decimal.NewFromFloat(min), decimal.NewFromFloat(max))
	}
	return nil
}

// ValidateWholeNumber fails unless value is a number without a fractional
// part, such as a count of months or units.
func ValidateWholeNumber(value interface{}, field string) error {
	d, err := numeric(value, field)
	if err != nil {
		return err
	}
	if !d.Equal(d.Truncate(0)) {
		return fieldErrorf(field, "must be a whole number")
	}
	return nil
}

// ValidateUUID fails unless value is a string holding a UUID.
func ValidateUUID(value interface{}, field string) error {
	s, ok := value.(string)
	if !ok {
		return fieldErrorf(field, "must be a UUID string")
	}
	if _, err := uuid.Parse(strings.TrimSpace(s)); err != nil {
		return fieldErrorf(field, "must be a valid UUID")
	}
	return nil
}

// ValidateDateFormat fails unless value is an ISO-8601 date, optionally with a
// trailing "Z".
func ValidateDateFormat(value interface{}, field string) error {
	s, ok := value.(string)
	if !ok {
		return fieldErrorf(field, "must be an ISO-8601 date string")
	}
	if _, err := datetime.ParseISO(s); err != nil {
		return fieldErrorf(field, "must be an ISO-8601 date (YYYY-MM-DD)")
	}
	return nil
}

// ValidateRequiredFields fails on the first key in required that is missing
// from data or holds nil. Empty strings count as missing.
func ValidateRequiredFields(data map[string]interface{}, required []Field) error {
	for _, f := range required {
		value, ok := data[f.Key]
		if !ok || value == nil {
			return fieldErrorf(f.Label, "is required")
		}
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			return fieldErrorf(f.Label, "is required")
		}
	}
	return nil
}

// Collector is the non-failing validation mode: it records every failure
// message instead of stopping at the first.
type Collector struct {
	errs []error
}

// Check records err when it is non-nil and reports whether the check passed.
func (c *Collector) Check(err error) bool {
	if err == nil {
		return true
	}
	c.errs = append(c.errs, err)
	return false
}

// Messages returns the recorded failure messages in order.
func (c *Collector) Messages() []string {
	if len(c.errs) == 0 {
		return nil
	}
	messages := make([]string, 0, len(c.errs))
	for _, err := range c.errs {
		messages = append(messages, err.Error())
	}
	return messages
}

// Err returns the first recorded error, or nil.
func (c *Collector) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return c.errs[0]
}

// Joined returns all recorded errors joined together, or nil.
func (c *Collector) Joined() error {
	return errors.Join(c.errs...)
}
