package analysis

import (
	"time"

	"github.com/iwvelando/property-analyzer/pkg/constants"
	"github.com/iwvelando/property-analyzer/pkg/loans"
	"go.uber.org/zap"
)

// Settings holds the engine limits and product policies applied to every
// analysis.
type Settings struct {
	Limits                  loans.Limits
	MaxRenovationMonths     int
	AnnualEscalationRate    float64 // percent per year, post-balloon projections
	MaxRentCreditPercentage float64 // percent of strike price
	DefaultRefinanceLTV     float64 // percent
	ZeroInvestmentPolicy    string
}

// DefaultSettings returns the built-in limits and policies.
func DefaultSettings() Settings {
	return Settings{
		Limits:                  loans.DefaultLimits(),
		MaxRenovationMonths:     constants.DefaultMaxRenovationMonths,
		AnnualEscalationRate:    constants.DefaultAnnualEscalationRate,
		MaxRentCreditPercentage: constants.DefaultMaxRentCreditPercentage,
		DefaultRefinanceLTV:     constants.DefaultRefinanceLTV,
		ZeroInvestmentPolicy:    constants.ZeroInvestmentPolicyZero,
	}
}

// Option customizes an Analysis at construction.
type Option func(*Analysis)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analysis) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithSettings replaces the default settings.
func WithSettings(settings Settings) Option {
	return func(a *Analysis) {
		a.settings = settings
	}
}

// WithClock sets the time source used for balloon dates.
func WithClock(now func() time.Time) Option {
	return func(a *Analysis) {
		if now != nil {
			a.now = now
		}
	}
}

// WithZeroInvestmentPolicy overrides only the zero-investment return policy.
func WithZeroInvestmentPolicy(policy string) Option {
	return func(a *Analysis) {
		a.settings.ZeroInvestmentPolicy = policy
	}
}
