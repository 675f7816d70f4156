package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iwvelando/property-analyzer/internal/analysis"
	"github.com/iwvelando/property-analyzer/pkg/constants"
	"github.com/iwvelando/property-analyzer/pkg/testutil"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestLoadConfigurationDefaults(t *testing.T) {
	conf, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Output.Format != constants.OutputFormatPretty {
		t.Errorf("Output.Format = %s, expected %s", conf.Output.Format, constants.OutputFormatPretty)
	}
	if conf.Limits.MaxInterestRate != constants.DefaultMaxInterestRate {
		t.Errorf("Limits.MaxInterestRate = %v, expected %v", conf.Limits.MaxInterestRate, constants.DefaultMaxInterestRate)
	}
	if conf.Limits.MaxLoanTermMonths != constants.DefaultMaxLoanTermMonths {
		t.Errorf("Limits.MaxLoanTermMonths = %d, expected %d", conf.Limits.MaxLoanTermMonths, constants.DefaultMaxLoanTermMonths)
	}
	if conf.Registry.TTL != time.Hour {
		t.Errorf("Registry.TTL = %s, expected 1h", conf.Registry.TTL)
	}
	if conf.Registry.Capacity != constants.DefaultRegistryCapacity {
		t.Errorf("Registry.Capacity = %d, expected %d", conf.Registry.Capacity, constants.DefaultRegistryCapacity)
	}
	if conf.Returns.ZeroInvestmentPolicy != constants.ZeroInvestmentPolicyZero {
		t.Errorf("Returns.ZeroInvestmentPolicy = %s", conf.Returns.ZeroInvestmentPolicy)
	}

	if conf.Settings() != analysis.DefaultSettings() {
		t.Errorf("Settings() = %+v, expected %+v", conf.Settings(), analysis.DefaultSettings())
	}
}

func TestLoadConfigurationFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
logging:
  level: debug
  format: console
output:
  format: json
limits:
  maxInterestRate: 20
  maxLoanTermMonths: 240
  maxRenovationMonths: 12
balloon:
  annualEscalationRate: 3
leaseOption:
  maxRentCreditPercentage: 10
brrrr:
  defaultRefinanceLtv: 70
returns:
  zeroInvestmentPolicy: capped
registry:
  ttl: 15m
  capacity: 10
`)

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	settings := conf.Settings()
	expected := analysis.Settings{
		MaxRenovationMonths:     12,
		AnnualEscalationRate:    3,
		MaxRentCreditPercentage: 10,
		DefaultRefinanceLTV:     70,
		ZeroInvestmentPolicy:    constants.ZeroInvestmentPolicyCapped,
	}
	expected.Limits.MaxInterestRate = 20
	expected.Limits.MaxTermMonths = 240
	if settings != expected {
		t.Errorf("Settings() = %+v, expected %+v", settings, expected)
	}

	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("Logging = %+v", conf.Logging)
	}
	if conf.Output.Format != constants.OutputFormatJSON {
		t.Errorf("Output.Format = %s, expected json", conf.Output.Format)
	}
	if conf.Registry.TTL != 15*time.Minute || conf.Registry.Capacity != 10 {
		t.Errorf("Registry = %+v", conf.Registry)
	}
}

func TestLoadConfigurationEnvironmentOverride(t *testing.T) {
	t.Setenv("PROPERTY_ANALYZER_OUTPUT_FORMAT", "csv")
	t.Setenv("PROPERTY_ANALYZER_RETURNS_ZEROINVESTMENTPOLICY", "unbounded")

	conf, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if conf.Output.Format != constants.OutputFormatCSV {
		t.Errorf("Output.Format = %s, expected csv", conf.Output.Format)
	}
	if conf.Returns.ZeroInvestmentPolicy != constants.ZeroInvestmentPolicyUnbounded {
		t.Errorf("Returns.ZeroInvestmentPolicy = %s, expected unbounded", conf.Returns.ZeroInvestmentPolicy)
	}
}

func TestLoadConfigurationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Invalid output format", "output:\n  format: xml\n"},
		{"Invalid log level", "logging:\n  level: loud\n"},
		{"Invalid policy", "returns:\n  zeroInvestmentPolicy: sometimes\n"},
		{"Interest rate above 100", "limits:\n  maxInterestRate: 150\n"},
		{"Zero capacity", "registry:\n  capacity: 0\n"},
		{"Malformed YAML", "output: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "config.yaml", tt.content)
			if _, err := LoadConfiguration(path); err == nil {
				t.Errorf("LoadConfiguration() expected error but got none")
			}
		})
	}

	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("LoadConfiguration() expected error for a missing file")
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "PROPERTY_ANALYZER_TEST_DOTENV=loaded\n")
	t.Setenv("PROPERTY_ANALYZER_TEST_DOTENV", "")
	os.Unsetenv("PROPERTY_ANALYZER_TEST_DOTENV")

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env"), path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("PROPERTY_ANALYZER_TEST_DOTENV"); got != "loaded" {
		t.Errorf("PROPERTY_ANALYZER_TEST_DOTENV = %q, expected loaded", got)
	}
}

func TestDefault(t *testing.T) {
	if Default().Output.Format != constants.OutputFormatPretty {
		t.Errorf("Default() output format = %s", Default().Output.Format)
	}
}

func TestSettingsDriveAnalysis(t *testing.T) {
	path := writeFile(t, "config.yaml", "limits:\n  maxInterestRate: 4\n")
	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	// The LTR fixture borrows at 4.5%, above the configured ceiling.
	if _, err := analysis.New(testutil.LTRDeal(), analysis.WithSettings(conf.Settings())); err == nil {
		t.Errorf("analysis.New() expected the configured rate limit to reject the deal")
	}
}
