// Package report projects an analysis into a flattened, display-ready view.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iwvelando/property-analyzer/internal/analysis"
	"github.com/iwvelando/property-analyzer/pkg/money"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MetricsKey is the key under which Augment stores the metrics.
const MetricsKey = "metrics"

// Field is one labeled, formatted value.
type Field struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Report is the flattened view of an analysis. Inputs are sorted by key;
// metrics list the core vocabulary first and type-specific keys after.
type Report struct {
	ID           string  `json:"id" yaml:"id"`
	AnalysisType string  `json:"analysis_type" yaml:"analysis_type"`
	Inputs       []Field `json:"inputs" yaml:"inputs"`
	Metrics      []Field `json:"metrics" yaml:"metrics"`
}

// Metric returns the value of a metric by key.
func (r Report) Metric(key string) (string, bool) {
	for _, f := range r.Metrics {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Build creates the report for an analysis from freshly computed metrics.
func Build(a *analysis.Analysis) Report {
	return FromParts(a.ID(), a.Type().Name(), a.Input(), a.Metrics())
}

// FromParts creates a report from raw inputs and already computed metrics.
func FromParts(id, analysisType string, input map[string]interface{}, metrics analysis.Metrics) Report {
	r := Report{ID: id, AnalysisType: analysisType}

	inputKeys := make([]string, 0, len(input))
	for k := range input {
		if k == MetricsKey {
			continue
		}
		inputKeys = append(inputKeys, k)
	}
	sort.Strings(inputKeys)
	for _, k := range inputKeys {
		r.Inputs = append(r.Inputs, Field{Key: k, Label: Label(k), Value: FormatInput(k, input[k])})
	}

	for _, k := range orderedMetricKeys(metrics) {
		r.Metrics = append(r.Metrics, Field{Key: k, Label: Label(k), Value: metrics[k]})
	}
	return r
}

// Augment returns a copy of input with the metrics added under MetricsKey.
func Augment(input map[string]interface{}, metrics analysis.Metrics) map[string]interface{} {
	out := make(map[string]interface{}, len(input)+1)
	for k, v := range input {
		out[k] = v
	}
	out[MetricsKey] = map[string]string(metrics.Copy())
	return out
}

func orderedMetricKeys(metrics analysis.Metrics) []string {
	keys := make([]string, 0, len(metrics))
	seen := make(map[string]bool, len(metrics))
	for _, k := range analysis.CoreMetricKeys {
		if _, ok := metrics[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var extra []string
	for k := range metrics {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

var acronyms = map[string]string{
	"noi":   "NOI",
	"roi":   "ROI",
	"dscr":  "DSCR",
	"ltv":   "LTV",
	"hoa":   "HOA",
	"coa":   "COA",
	"ltr":   "LTR",
	"id":    "ID",
	"capex": "CapEx",
}

// Label turns a snake_case key into a title such as "Monthly Cash Flow".
// A cases.Caser is stateful, so each call builds its own.
func Label(key string) string {
	titleCaser := cases.Title(language.English)
	words := strings.Split(key, "_")
	for i, w := range words {
		if a, ok := acronyms[w]; ok {
			words[i] = a
			continue
		}
		words[i] = titleCaser.String(w)
	}
	return strings.Join(words, " ")
}

// plainNumberSuffixes mark inputs that are counts or durations, not money.
var plainNumberSuffixes = []string{"_term", "_duration", "_units", "floors", "_months", "_count"}

// FormatInput renders an input value for display: percentages as "8.50%",
// amounts as currency, counts and text unchanged.
func FormatInput(key string, value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case string:
		if !looksNumeric(v) {
			return v
		}
	case []interface{}, map[string]interface{}:
		return fmt.Sprint(v)
	}

	if strings.HasSuffix(key, "_percentage") || strings.HasSuffix(key, "_interest_rate") {
		if p, err := money.PercentageFromValue(value); err == nil {
			return p.String()
		}
	}
	for _, suffix := range plainNumberSuffixes {
		if strings.HasSuffix(key, suffix) {
			return fmt.Sprint(value)
		}
	}
	if m, err := money.FromValue(value); err == nil {
		return m.Round().String()
	}
	return fmt.Sprint(value)
}

func looksNumeric(s string) bool {
	_, err := money.Parse(s)
	return err == nil
}
