// Package constants provides shared constants for the property-analyzer application.
package constants

// DateLayout is the ISO-8601 calendar date layout accepted for deal dates
// and used when dating amortization periods.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyPlaces is the number of decimal places used for currency
	CurrencyPlaces = 2

	// PercentagePlaces is the default number of decimal places for percentages
	PercentagePlaces = 2

	// RatioPlaces is the number of decimal places for plain ratios such as DSCR
	RatioPlaces = 2

	// PowerPrecision is the number of decimal places kept while raising
	// decimals to integer powers.
	PowerPrecision = 28

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Loan limits
const (
	// DefaultMaxInterestRate is the highest accepted annual interest rate in percent
	DefaultMaxInterestRate = 30.0

	// DefaultMaxLoanTermMonths is the longest accepted loan term
	DefaultMaxLoanTermMonths = 360

	// MinLoanTermMonths is the shortest accepted loan term
	MinLoanTermMonths = 1

	// DefaultMaxRenovationMonths caps BRRRR initial loan terms and renovation durations
	DefaultMaxRenovationMonths = 24

	// LoanSlotCount is the number of generic loan slots (loan1..loan3)
	LoanSlotCount = 3
)

// Strategy defaults
const (
	// DefaultAnnualEscalationRate is the yearly growth applied to rent, taxes and
	// insurance when projecting past a balloon date, in percent
	DefaultAnnualEscalationRate = 2.5

	// DefaultMaxRentCreditPercentage caps lease option rent credits as a share
	// of the strike price
	DefaultMaxRentCreditPercentage = 25.0

	// DefaultRefinanceLTV is the loan-to-value used for the maximum allowable
	// offer when a BRRRR deal does not declare one
	DefaultRefinanceLTV = 75.0

	// CappedReturnPercentage is the sentinel return used by the capped
	// zero-investment policy
	CappedReturnPercentage = "999.99"
)

// Zero-investment return policies
const (
	// ZeroInvestmentPolicyZero reports 0% returns when nothing was invested
	ZeroInvestmentPolicyZero = "zero"

	// ZeroInvestmentPolicyUnbounded reports unbounded returns when nothing was invested
	ZeroInvestmentPolicyUnbounded = "unbounded"

	// ZeroInvestmentPolicyCapped reports CappedReturnPercentage when nothing was invested
	ZeroInvestmentPolicyCapped = "capped"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "PROPERTY_ANALYZER"
)

// Registry defaults
const (
	// DefaultRegistryTTL is how long registered metrics stay readable
	DefaultRegistryTTL = "1h"

	// DefaultRegistryCapacity is the maximum number of registered analyses
	DefaultRegistryCapacity = 1024
)

// Display symbols
const (
	// UnboundedSymbol is printed instead of a number for unbounded values
	UnboundedSymbol = "∞"

	// NotApplicable is printed for metrics that have no meaningful value
	NotApplicable = "N/A"
)
