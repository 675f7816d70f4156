// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/property-analyzer/pkg/constants"
)

const (
	// DateLayout is the ISO-8601 calendar date layout.
	DateLayout = constants.DateLayout

	daysPerYear = 365.25
)

// isoLayouts are tried in order by ParseISO. A trailing "Z" is accepted by
// the RFC 3339 layouts and stripped before trying the local ones.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	DateLayout,
}

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseISO parses an ISO-8601 date or date-time such as "2027-06-01",
// "2027-06-01T00:00:00" or "2027-06-01T00:00:00Z".
func ParseISO(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}

	if strings.HasSuffix(trimmed, "Z") {
		stripped := strings.TrimSuffix(trimmed, "Z")
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, stripped); err == nil {
				return t, nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("%q is not an ISO-8601 date", value)
}

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}

// DateBeforeDate returns true if first is strictly before second.
func DateBeforeDate(first, second time.Time) bool {
	return first.Before(second)
}

// YearsBetween returns the fractional number of years from start to end,
// negative when end precedes start.
func YearsBetween(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24 / daysPerYear
}

// MonthsBetween returns the number of whole calendar months from start to end.
func MonthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*constants.MonthsPerYear + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	return months
}
