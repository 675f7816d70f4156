// Package config defines the engine configuration and includes functions for
// loading it and for loading deal input files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/iwvelando/property-analyzer/internal/analysis"
	"github.com/iwvelando/property-analyzer/pkg/constants"
	"github.com/iwvelando/property-analyzer/pkg/loans"
	"github.com/iwvelando/property-analyzer/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for property-analyzer.
type Configuration struct {
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging,omitempty"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output,omitempty"`
	Limits      LimitsConfig      `mapstructure:"limits" yaml:"limits,omitempty"`
	Balloon     BalloonConfig     `mapstructure:"balloon" yaml:"balloon,omitempty"`
	LeaseOption LeaseOptionConfig `mapstructure:"leaseOption" yaml:"leaseOption,omitempty"`
	BRRRR       BRRRRConfig       `mapstructure:"brrrr" yaml:"brrrr,omitempty"`
	Returns     ReturnsConfig     `mapstructure:"returns" yaml:"returns,omitempty"`
	Registry    RegistryConfig    `mapstructure:"registry" yaml:"registry,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, json, yaml
}

// LimitsConfig bounds the loan terms and renovation periods accepted in deals.
type LimitsConfig struct {
	MaxInterestRate     float64 `mapstructure:"maxInterestRate" yaml:"maxInterestRate,omitempty"`
	MaxLoanTermMonths   int     `mapstructure:"maxLoanTermMonths" yaml:"maxLoanTermMonths,omitempty"`
	MaxRenovationMonths int     `mapstructure:"maxRenovationMonths" yaml:"maxRenovationMonths,omitempty"`
}

// BalloonConfig controls post-balloon projections.
type BalloonConfig struct {
	AnnualEscalationRate float64 `mapstructure:"annualEscalationRate" yaml:"annualEscalationRate,omitempty"`
}

// LeaseOptionConfig controls lease option rent credits.
type LeaseOptionConfig struct {
	MaxRentCreditPercentage float64 `mapstructure:"maxRentCreditPercentage" yaml:"maxRentCreditPercentage,omitempty"`
}

// BRRRRConfig controls BRRRR defaults.
type BRRRRConfig struct {
	DefaultRefinanceLTV float64 `mapstructure:"defaultRefinanceLtv" yaml:"defaultRefinanceLtv,omitempty"`
}

// ReturnsConfig controls how returns on zero investment are reported.
type ReturnsConfig struct {
	ZeroInvestmentPolicy string `mapstructure:"zeroInvestmentPolicy" yaml:"zeroInvestmentPolicy,omitempty"` // zero, unbounded, capped
}

// RegistryConfig sizes the in-process metrics registry.
type RegistryConfig struct {
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl,omitempty"`
	Capacity int           `mapstructure:"capacity" yaml:"capacity,omitempty"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("limits.maxInterestRate", constants.DefaultMaxInterestRate)
	v.SetDefault("limits.maxLoanTermMonths", constants.DefaultMaxLoanTermMonths)
	v.SetDefault("limits.maxRenovationMonths", constants.DefaultMaxRenovationMonths)
	v.SetDefault("balloon.annualEscalationRate", constants.DefaultAnnualEscalationRate)
	v.SetDefault("leaseOption.maxRentCreditPercentage", constants.DefaultMaxRentCreditPercentage)
	v.SetDefault("brrrr.defaultRefinanceLtv", constants.DefaultRefinanceLTV)
	v.SetDefault("returns.zeroInvestmentPolicy", constants.ZeroInvestmentPolicyZero)
	v.SetDefault("registry.ttl", constants.DefaultRegistryTTL)
	v.SetDefault("registry.capacity", constants.DefaultRegistryCapacity)
}

// Default returns the built-in configuration.
func Default() *Configuration {
	conf, err := LoadConfiguration("")
	if err != nil {
		panic(fmt.Sprintf("built-in configuration is invalid: %v", err))
	}
	return conf
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. An empty path yields the defaults. Every key may be
// overridden from the environment, e.g. PROPERTY_ANALYZER_OUTPUT_FORMAT.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %w", err)
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := configuration.ValidateConfiguration(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &configuration, nil
}

// LoadDotEnv loads environment variables from the given .env files. Missing
// files are skipped; variables already set are not overwritten.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ValidateConfiguration checks every value and returns all problems joined.
func (c *Configuration) ValidateConfiguration() error {
	var collector validation.Collector

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		collector.Check(fmt.Errorf("invalid log level: %s", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		collector.Check(fmt.Errorf("invalid log format: %s", c.Logging.Format))
	}
	collector.Check(validation.ValidateOutputFormat(c.Output.Format))

	collector.Check(validation.ValidatePercentageDefault(c.Limits.MaxInterestRate, "limits.maxInterestRate"))
	collector.Check(validation.ValidatePositiveNumber(c.Limits.MaxLoanTermMonths, "limits.maxLoanTermMonths"))
	collector.Check(validation.ValidatePositiveNumber(c.Limits.MaxRenovationMonths, "limits.maxRenovationMonths"))
	collector.Check(validation.ValidatePercentageDefault(c.Balloon.AnnualEscalationRate, "balloon.annualEscalationRate"))
	collector.Check(validation.ValidatePercentageDefault(c.LeaseOption.MaxRentCreditPercentage, "leaseOption.maxRentCreditPercentage"))
	collector.Check(validation.ValidatePercentage(c.BRRRR.DefaultRefinanceLTV, "brrrr.defaultRefinanceLtv", 0.01, 100))

	switch c.Returns.ZeroInvestmentPolicy {
	case constants.ZeroInvestmentPolicyZero, constants.ZeroInvestmentPolicyUnbounded, constants.ZeroInvestmentPolicyCapped:
	default:
		collector.Check(fmt.Errorf("expected zero investment policy of %s, %s or %s, got %s",
			constants.ZeroInvestmentPolicyZero, constants.ZeroInvestmentPolicyUnbounded,
			constants.ZeroInvestmentPolicyCapped, c.Returns.ZeroInvestmentPolicy))
	}

	if c.Registry.TTL <= 0 {
		collector.Check(fmt.Errorf("registry.ttl must be greater than 0, got %s", c.Registry.TTL))
	}
	collector.Check(validation.ValidatePositiveNumber(c.Registry.Capacity, "registry.capacity"))

	return collector.Joined()
}

// Settings converts the configuration into analysis settings.
func (c *Configuration) Settings() analysis.Settings {
	return analysis.Settings{
		Limits: loans.Limits{
			MaxInterestRate: c.Limits.MaxInterestRate,
			MaxTermMonths:   c.Limits.MaxLoanTermMonths,
		},
		MaxRenovationMonths:     c.Limits.MaxRenovationMonths,
		AnnualEscalationRate:    c.Balloon.AnnualEscalationRate,
		MaxRentCreditPercentage: c.LeaseOption.MaxRentCreditPercentage,
		DefaultRefinanceLTV:     c.BRRRR.DefaultRefinanceLTV,
		ZeroInvestmentPolicy:    c.Returns.ZeroInvestmentPolicy,
	}
}
