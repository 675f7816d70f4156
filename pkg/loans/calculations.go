// Package loans provides loan payment and amortization utilities.
package loans

import (
	"fmt"
	"time"

	"github.com/iwvelando/property-analyzer/pkg/constants"
	"github.com/iwvelando/property-analyzer/pkg/mathutil"
	"github.com/iwvelando/property-analyzer/pkg/money"
	"github.com/iwvelando/property-analyzer/pkg/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var monthsPerYear = decimal.NewFromInt(constants.MonthsPerYear)

// LoanDetails describes one loan slot. Each slot gets its own value; they are
// never shared between slots.
type LoanDetails struct {
	Amount       money.Money
	InterestRate money.Percentage // annual
	TermMonths   int
	InterestOnly bool
}

// Limits bounds the loan terms accepted by Validate.
type Limits struct {
	MaxInterestRate float64
	MaxTermMonths   int
}

// DefaultLimits returns the standard 30% / 360 month limits.
func DefaultLimits() Limits {
	return Limits{
		MaxInterestRate: constants.DefaultMaxInterestRate,
		MaxTermMonths:   constants.DefaultMaxLoanTermMonths,
	}
}

// Validate enforces amount > 0, 0 <= rate <= max and 1 <= term <= max. The
// slot name prefixes the field in the returned *validation.FieldError.
func (l LoanDetails) Validate(slot string, limits Limits) error {
	if err := validation.ValidatePositiveNumber(l.Amount, slot+" loan amount"); err != nil {
		return err
	}
	if err := validation.ValidatePercentage(l.InterestRate, slot+" interest rate", 0, limits.MaxInterestRate); err != nil {
		return err
	}
	if err := validation.ValidateNumericRange(l.TermMonths, constants.MinLoanTermMonths, float64(limits.MaxTermMonths), slot+" loan term"); err != nil {
		return err
	}
	return nil
}

// PaymentBreakdown splits the first period's payment into principal and interest.
type PaymentBreakdown struct {
	Payment   money.Money
	Principal money.Money
	Interest  money.Money
}

// MonthlyRate converts an annual percentage into a monthly fractional rate.
func MonthlyRate(annualRate money.Percentage) decimal.Decimal {
	return annualRate.Fraction().Div(monthsPerYear)
}

// CalculateMonthlyPayment calculates the monthly payment for a loan.
//
// A non-positive principal or term yields a zero payment. A zero rate
// spreads the principal evenly regardless of the interest-only flag. An
// interest-only loan pays principal times the monthly rate. Otherwise the
// standard amortization formula P*r(1+r)^n/((1+r)^n-1) applies.
func CalculateMonthlyPayment(l LoanDetails) PaymentBreakdown {
	principal := l.Amount.Amount()
	n := l.TermMonths
	if l.Amount.IsUnbounded() || !principal.IsPositive() || n <= 0 {
		return PaymentBreakdown{Payment: money.Zero(), Principal: money.Zero(), Interest: money.Zero()}
	}

	r := MonthlyRate(l.InterestRate)
	if r.IsZero() {
		payment := principal.Div(decimal.NewFromInt(int64(n)))
		return PaymentBreakdown{
			Payment:   money.New(payment),
			Principal: money.New(payment),
			Interest:  money.Zero(),
		}
	}

	interest := principal.Mul(r)
	if l.InterestOnly {
		return PaymentBreakdown{
			Payment:   money.New(interest),
			Principal: money.Zero(),
			Interest:  money.New(interest),
		}
	}

	factor := mathutil.PowInt(decimal.NewFromInt(1).Add(r), n)
	payment := principal.Mul(r).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1)))
	return PaymentBreakdown{
		Payment:   money.New(payment),
		Principal: money.New(payment.Sub(interest)),
		Interest:  money.New(interest),
	}
}

// CalculateInterestPayment calculates the interest portion of a payment on
// the given balance.
func CalculateInterestPayment(balance money.Money, annualRate money.Percentage) money.Money {
	return balance.Mul(MonthlyRate(annualRate))
}

// ScheduleEntry is one period of an amortization schedule.
type ScheduleEntry struct {
	Month         int
	Date          time.Time
	Principal     money.Money
	Interest      money.Money
	Total         money.Money
	EndingBalance money.Money
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule creates the amortization schedule for a loan. Period 1 is
// dated startDate and each later period one month after the previous one.
// monthsToCalculate limits the schedule to its first periods; 0 means the
// full term.
//
// Amounts are kept to the cent. On a full schedule the final period absorbs
// any residual so the ending balance is exactly zero. Interest-only loans
// never reduce principal; their balance is still outstanding at the end.
func (g *AmortizationScheduleGenerator) GenerateSchedule(l LoanDetails, startDate time.Time, monthsToCalculate int) ([]ScheduleEntry, error) {
	if monthsToCalculate < 0 || monthsToCalculate > l.TermMonths {
		return nil, fmt.Errorf("months to calculate %d outside loan term of %d months", monthsToCalculate, l.TermMonths)
	}
	if l.Amount.IsUnbounded() || !l.Amount.IsPositive() || l.TermMonths <= 0 {
		return nil, nil
	}

	months := monthsToCalculate
	if months == 0 {
		months = l.TermMonths
	}

	r := MonthlyRate(l.InterestRate)
	interestOnly := l.InterestOnly && !r.IsZero()
	payment := mathutil.Round(CalculateMonthlyPayment(l).Payment.Amount())
	balance := l.Amount.Amount()

	g.logger.Debug(fmt.Sprintf("generating %d of %d periods for %s at %s", months, l.TermMonths, l.Amount, l.InterestRate),
		zap.String("op", "loans.GenerateSchedule"),
		zap.Bool("interestOnly", interestOnly),
	)

	schedule := make([]ScheduleEntry, 0, months)
	for month := 1; month <= months; month++ {
		interest := mathutil.Round(balance.Mul(r))

		var principal decimal.Decimal
		switch {
		case interestOnly:
			principal = decimal.Zero
		case month == l.TermMonths:
			principal = balance
		default:
			principal = payment.Sub(interest)
			if principal.GreaterThan(balance) {
				principal = balance
			}
		}

		balance = balance.Sub(principal)
		schedule = append(schedule, ScheduleEntry{
			Month:         month,
			Date:          startDate.AddDate(0, month-1, 0),
			Principal:     money.New(principal),
			Interest:      money.New(interest),
			Total:         money.New(principal.Add(interest)),
			EndingBalance: money.New(balance),
		})

		if balance.IsZero() && month < months {
			g.logger.Debug(fmt.Sprintf("loan paid off after %d periods", month),
				zap.String("op", "loans.GenerateSchedule"),
			)
			break
		}
	}

	return schedule, nil
}

// RemainingBalance returns the balance left after monthsPaid payments.
func (g *AmortizationScheduleGenerator) RemainingBalance(l LoanDetails, monthsPaid int) (money.Money, error) {
	if monthsPaid <= 0 {
		return l.Amount, nil
	}
	if monthsPaid > l.TermMonths {
		monthsPaid = l.TermMonths
	}
	schedule, err := g.GenerateSchedule(l, time.Time{}, monthsPaid)
	if err != nil {
		return money.Zero(), err
	}
	if len(schedule) == 0 {
		return money.Zero(), nil
	}
	return schedule[len(schedule)-1].EndingBalance, nil
}

// Totals sums the principal and interest columns of a schedule.
func Totals(schedule []ScheduleEntry) (principal, interest money.Money) {
	principal, interest = money.Zero(), money.Zero()
	for _, entry := range schedule {
		principal = principal.Add(entry.Principal)
		interest = interest.Add(entry.Interest)
	}
	return principal, interest
}
