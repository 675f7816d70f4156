// Package output renders analysis reports and amortization schedules.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/iwvelando/property-analyzer/internal/report"
	"github.com/iwvelando/property-analyzer/pkg/constants"
	"github.com/iwvelando/property-analyzer/pkg/loans"
	"github.com/iwvelando/property-analyzer/pkg/validation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Write renders reports in the named output format.
func Write(w io.Writer, format string, reports []report.Report) error {
	if err := validation.ValidateOutputFormat(format); err != nil {
		return err
	}
	switch format {
	case constants.OutputFormatCSV:
		return CsvFormat(w, reports)
	case constants.OutputFormatJSON:
		return JSONFormat(w, reports)
	case constants.OutputFormatYAML:
		return YAMLFormat(w, reports)
	default:
		return PrettyFormat(w, reports)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, reports []report.Report) error {
	p := message.NewPrinter(language.English)
	for i, r := range reports {
		if _, err := p.Fprintf(w, "--- %s analysis %s ---\n", r.AnalysisType, r.ID); err != nil {
			return err
		}
		if err := prettySection(p, w, "Inputs", r.Inputs); err != nil {
			return err
		}
		if err := prettySection(p, w, "Metrics", r.Metrics); err != nil {
			return err
		}
		if i < len(reports)-1 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}

func prettySection(p *message.Printer, w io.Writer, title string, fields []report.Field) error {
	width := 0
	for _, f := range fields {
		if len(f.Label) > width {
			width = len(f.Label)
		}
	}
	if _, err := p.Fprintf(w, "%s (%d)\n", title, len(fields)); err != nil {
		return err
	}
	row := fmt.Sprintf("  %%-%ds | %%s\n", width)
	for _, f := range fields {
		if _, err := p.Fprintf(w, row, f.Label, f.Value); err != nil {
			return err
		}
	}
	return nil
}

// CsvFormat outputs one row per metric: id, analysis type, key, label, value.
func CsvFormat(w io.Writer, reports []report.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "analysis_type", "metric", "label", "value"}); err != nil {
		return err
	}
	for _, r := range reports {
		for _, f := range r.Metrics {
			if err := cw.Write([]string{r.ID, r.AnalysisType, f.Key, f.Label, f.Value}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSONFormat outputs the reports as an indented JSON array.
func JSONFormat(w io.Writer, reports []report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(reports)
}

// YAMLFormat outputs the reports as a YAML sequence.
func YAMLFormat(w io.Writer, reports []report.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reports); err != nil {
		return err
	}
	return enc.Close()
}

// ScheduleRow is the display form of one amortization period.
type ScheduleRow struct {
	Month     int    `json:"month" yaml:"month"`
	Date      string `json:"date" yaml:"date"`
	Principal string `json:"principal" yaml:"principal"`
	Interest  string `json:"interest" yaml:"interest"`
	Total     string `json:"total" yaml:"total"`
	Balance   string `json:"ending_balance" yaml:"ending_balance"`
}

// ScheduleRows converts schedule entries to display rows.
func ScheduleRows(schedule []loans.ScheduleEntry) []ScheduleRow {
	rows := make([]ScheduleRow, 0, len(schedule))
	for _, e := range schedule {
		rows = append(rows, ScheduleRow{
			Month:     e.Month,
			Date:      e.Date.Format(constants.DateLayout),
			Principal: e.Principal.String(),
			Interest:  e.Interest.String(),
			Total:     e.Total.String(),
			Balance:   e.EndingBalance.String(),
		})
	}
	return rows
}

// WriteSchedule renders an amortization schedule in the named output format.
func WriteSchedule(w io.Writer, format string, schedule []loans.ScheduleEntry) error {
	if err := validation.ValidateOutputFormat(format); err != nil {
		return err
	}
	rows := ScheduleRows(schedule)
	switch format {
	case constants.OutputFormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"month", "date", "principal", "interest", "total", "ending_balance"}); err != nil {
			return err
		}
		for _, r := range rows {
			if err := cw.Write([]string{fmt.Sprint(r.Month), r.Date, r.Principal, r.Interest, r.Total, r.Balance}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case constants.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case constants.OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	}

	p := message.NewPrinter(language.English)
	if _, err := p.Fprintf(w, "Month | Date       | Principal     | Interest      | Total         | Balance\n"); err != nil {
		return err
	}
	if _, err := p.Fprintf(w, "_____ | __________ | _____________ | _____________ | _____________ | _____________\n"); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := p.Fprintf(w, "%5d | %s | %13s | %13s | %13s | %13s\n",
			r.Month, r.Date, r.Principal, r.Interest, r.Total, r.Balance); err != nil {
			return err
		}
	}
	return nil
}
