package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/property-analyzer/internal/config"
	"github.com/iwvelando/property-analyzer/internal/report"
)

const ltrDeal = `
analysis_type: LTR
purchase_price: 200000
monthly_rent: 1800
property_taxes: 200
insurance: 100
management_fee_percentage: 8
capex_percentage: 5
vacancy_percentage: 5
repairs_percentage: 5
loan1_loan_amount: 160000
loan1_loan_interest_rate: 4.5
loan1_loan_term: 360
loan1_loan_down_payment: 40000
loan1_loan_closing_costs: 3000
`

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name     string
		config   config.LoggingConfig
		override string
		wantErr  bool
	}{
		{name: "Defaults", config: config.LoggingConfig{}},
		{name: "Console debug", config: config.LoggingConfig{Level: "debug", Format: "console"}},
		{name: "Override wins", config: config.LoggingConfig{Level: "bogus"}, override: "warn"},
		{name: "Invalid level", config: config.LoggingConfig{Level: "loud"}, wantErr: true},
		{name: "Invalid format", config: config.LoggingConfig{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.config, tt.override)
			if (err != nil) != tt.wantErr {
				t.Fatalf("initializeLogger() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Errorf("initializeLogger() returned nil logger")
			}
		})
	}
}

func TestInitializeLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "analyzer.log")
	logger, err := initializeLogger(config.LoggingConfig{Level: "info", OutputFile: path}, "")
	if err != nil {
		t.Fatalf("initializeLogger() error = %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if !strings.Contains(string(content), "hello") {
		t.Errorf("log file content = %q", content)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	base := []string{"--env-file", filepath.Join(t.TempDir(), "absent.env"), "--log-level", "error"}
	cmd.SetArgs(append(args, base...))
	err := cmd.Execute()
	return out.String(), err
}

func writeDeal(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deal.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write deal: %v", err)
	}
	return path
}

func TestAnalyzeCommandJSON(t *testing.T) {
	out, err := execute(t, "analyze", writeDeal(t, ltrDeal), "-o", "json")
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}

	var reports []report.Report
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("analyze produced invalid JSON: %v\n%s", err, out)
	}
	if len(reports) != 1 {
		t.Fatalf("analyze produced %d reports, expected 1", len(reports))
	}
	if value, _ := reports[0].Metric("monthly_cash_flow"); value != "$275.30" {
		t.Errorf("monthly_cash_flow = %s, expected $275.30", value)
	}
}

func TestAnalyzeCommandReadsRegistry(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(confPath, []byte("registry:\n  capacity: 1\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	deals := "- id: 3f2504e0-4f89-41d3-9a0c-0305e82c3301\n" + indent(ltrDeal) +
		"- id: 9b2d1c4e-7a3f-4e8b-b1d2-2c5e6f708192\n" + indent(ltrDeal)

	out, err := execute(t, "analyze", writeDeal(t, deals), "--config", confPath, "-o", "json")
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}

	var reports []report.Report
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("analyze produced invalid JSON: %v\n%s", err, out)
	}
	if len(reports) != 2 {
		t.Fatalf("analyze produced %d reports, expected 2", len(reports))
	}
	for _, r := range reports {
		if value, _ := r.Metric("cash_on_cash_return"); value != "7.68%" {
			t.Errorf("report %s cash_on_cash_return = %s, expected 7.68%%", r.ID, value)
		}
	}
	if reports[1].ID != "9b2d1c4e-7a3f-4e8b-b1d2-2c5e6f708192" {
		t.Errorf("second report id = %s", reports[1].ID)
	}
}

// indent turns a top-level YAML mapping into the body of a sequence item.
func indent(mapping string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimSpace(mapping), "\n") {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func TestAnalyzeCommandPretty(t *testing.T) {
	out, err := execute(t, "analyze", writeDeal(t, ltrDeal))
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}
	if !strings.Contains(out, "--- LTR analysis") || !strings.Contains(out, "7.68%") {
		t.Errorf("analyze pretty output:\n%s", out)
	}
}

func TestAnalyzeCommandInvalidDeal(t *testing.T) {
	invalid := writeDeal(t, "analysis_type: LTR\npurchase_price: 0\nmonthly_rent: 1\nproperty_taxes: 1\ninsurance: 1\n")

	if _, err := execute(t, "analyze", invalid); err == nil {
		t.Errorf("analyze expected a validation error")
	}

	out, err := execute(t, "analyze", invalid, writeDeal(t, ltrDeal), "--continue-on-error", "-o", "csv")
	if err == nil || !strings.Contains(err.Error(), "1 deal(s) failed validation") {
		t.Errorf("analyze --continue-on-error error = %v", err)
	}
	if !strings.Contains(out, "monthly_cash_flow") {
		t.Errorf("analyze --continue-on-error should still report the valid deal:\n%s", out)
	}
}

func TestAnalyzeCommandBadFormat(t *testing.T) {
	if _, err := execute(t, "analyze", writeDeal(t, ltrDeal), "-o", "xml"); err == nil {
		t.Errorf("analyze expected an output format error")
	}
}

func TestAmortizeCommand(t *testing.T) {
	out, err := execute(t, "amortize", "--amount", "12000", "--rate", "0", "--term", "12", "--start", "2025-01-01", "-o", "csv")
	if err != nil {
		t.Fatalf("amortize error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 13 {
		t.Fatalf("amortize produced %d lines, expected 13:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[12], "12,2025-12-01") {
		t.Errorf("amortize last row = %s", lines[12])
	}

	if _, err := execute(t, "amortize", "--amount", "12000", "--rate", "45"); err == nil {
		t.Errorf("amortize expected a rate limit error")
	}
}

func TestTypesCommand(t *testing.T) {
	out, err := execute(t, "types")
	if err != nil {
		t.Fatalf("types error = %v", err)
	}
	for _, name := range []string{"LTR", "PadSplit BRRRR", "Multi-Family"} {
		if !strings.Contains(out, name) {
			t.Errorf("types output missing %s:\n%s", name, out)
		}
	}
}
