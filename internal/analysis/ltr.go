package analysis

import (
	"fmt"
	"time"

	"github.com/iwvelando/property-analyzer/pkg/constants"
	"github.com/iwvelando/property-analyzer/pkg/datetime"
	"github.com/iwvelando/property-analyzer/pkg/format"
	"github.com/iwvelando/property-analyzer/pkg/loans"
	"github.com/iwvelando/property-analyzer/pkg/mathutil"
	"github.com/iwvelando/property-analyzer/pkg/money"
	"github.com/iwvelando/property-analyzer/pkg/validation"
	"github.com/shopspring/decimal"
)

// Balloon metric keys.
const (
	KeyBalloonDueDate             = "balloon_due_date"
	KeyYearsToBalloon             = "years_to_balloon"
	KeyPostBalloonMonthlyRent     = "post_balloon_monthly_rent"
	KeyPostBalloonPropertyTaxes   = "post_balloon_property_taxes"
	KeyPostBalloonInsurance       = "post_balloon_insurance"
	KeyPostBalloonLoanPayment     = "post_balloon_loan_payment"
	KeyPostBalloonMonthlyCashFlow = "post_balloon_monthly_cash_flow"
	KeyBalloonPaymentAmount       = "balloon_payment_amount"
	KeyBalloonRefinanceMaxLoan    = "balloon_refinance_max_loan"
)

const (
	balloonRefinanceSlot          = "balloon_refinance"
	balloonRefinanceLTVPercentage = "balloon_refinance_ltv_percentage"
)

var balloonRequiredFields = []validation.Field{
	{Key: "balloon_due_date", Label: "Balloon Due Date"},
	{Key: balloonRefinanceLTVPercentage, Label: "Balloon Refinance LTV Percentage"},
	{Key: "balloon_refinance_loan_amount", Label: "Balloon Refinance Loan Amount"},
	{Key: "balloon_refinance_loan_interest_rate", Label: "Balloon Refinance Interest Rate"},
	{Key: "balloon_refinance_loan_term", Label: "Balloon Refinance Loan Term"},
}

// ltr is a long-term rental, optionally financed with a balloon loan that is
// refinanced on its due date.
type ltr struct {
	base
}

func (ltr) balloon(a *Analysis) bool {
	return a.input.flag("has_balloon_payment")
}

func (s ltr) validate(a *Analysis) error {
	if err := s.base.validate(a); err != nil {
		return err
	}
	if !s.balloon(a) {
		return nil
	}
	in := a.input
	if err := validation.ValidateRequiredFields(in, balloonRequiredFields); err != nil {
		return err
	}
	if err := validation.ValidateDateFormat(in["balloon_due_date"], "balloon_due_date"); err != nil {
		return err
	}
	due, err := in.date("balloon_due_date")
	if err != nil {
		return err
	}
	if !datetime.DateBeforeDate(a.now(), due) {
		return &validation.FieldError{Field: "balloon_due_date", Message: "must be in the future"}
	}
	if err := validation.ValidatePercentage(in[balloonRefinanceLTVPercentage], balloonRefinanceLTVPercentage, 0, 100); err != nil {
		return err
	}
	if err := validation.ValidatePositiveNumber(in[balloonRefinanceLTVPercentage], balloonRefinanceLTVPercentage); err != nil {
		return err
	}
	if in.has("loan_start_date") {
		if err := validation.ValidateDateFormat(in["loan_start_date"], "loan_start_date"); err != nil {
			return err
		}
	}
	return a.validateLoan(balloonRefinanceSlot, a.settings.Limits)
}

// loanPayments switches to the balloon refinance terms once the due date has
// been reached.
func (s ltr) loanPayments(a *Analysis) (money.Money, error) {
	if s.balloon(a) {
		due, err := a.input.date("balloon_due_date")
		if err != nil {
			return money.Zero(), err
		}
		if !a.now().Before(due) {
			refinance, err := a.input.loan(balloonRefinanceSlot)
			if err != nil {
				return money.Zero(), err
			}
			return payment(refinance), nil
		}
	}
	return s.base.loanPayments(a)
}

func (s ltr) metrics(a *Analysis) (Metrics, error) {
	if !s.balloon(a) {
		return Metrics{}, nil
	}
	return s.balloonMetrics(a)
}

// balloonMetrics projects the deal to the balloon due date. Rent, taxes,
// insurance and property value grow by the configured escalation rate
// compounded over the fractional years until the due date.
func (s ltr) balloonMetrics(a *Analysis) (Metrics, error) {
	in := a.input
	due, err := in.date("balloon_due_date")
	if err != nil {
		return nil, err
	}
	years := datetime.YearsBetween(a.now(), due)
	if years < 0 {
		years = 0
	}
	growth, err := escalationFactor(a.settings.AnnualEscalationRate, years)
	if err != nil {
		return nil, err
	}

	rent, err := in.amount("monthly_rent")
	if err != nil {
		return nil, err
	}
	taxes, err := in.amount("property_taxes")
	if err != nil {
		return nil, err
	}
	insurance, err := in.amount("insurance")
	if err != nil {
		return nil, err
	}
	hoa, err := in.amount("hoa_coa_coop")
	if err != nil {
		return nil, err
	}

	postRent := rent.Mul(growth).Round()
	postTaxes := taxes.Mul(growth).Round()
	postInsurance := insurance.Mul(growth).Round()

	postExpenses, err := a.percentageCosts(postRent, true)
	if err != nil {
		return nil, err
	}
	postExpenses = postExpenses.Add(postTaxes).Add(postInsurance).Add(hoa)
	if a.typ.PadSplit {
		padSplit, err := a.padSplitExpensesOn(postRent)
		if err != nil {
			return nil, err
		}
		postExpenses = postExpenses.Add(padSplit)
	}

	refinance, err := in.loan(balloonRefinanceSlot)
	if err != nil {
		return nil, err
	}
	postPayment := payment(refinance)

	balloonAmount, err := s.balloonPaymentAmount(a, due)
	if err != nil {
		return nil, err
	}

	value, err := in.amount("purchase_price")
	if err != nil {
		return nil, err
	}
	if in.has("after_repair_value") {
		if value, err = in.amount("after_repair_value"); err != nil {
			return nil, err
		}
	}
	ltv, err := in.percent(balloonRefinanceLTVPercentage)
	if err != nil {
		return nil, err
	}
	maxLoan := value.Mul(growth).ApplyPercentage(ltv).Round()

	return Metrics{
		KeyBalloonDueDate:             due.Format(constants.DateLayout),
		KeyYearsToBalloon:             format.Ratio(decimal.NewFromFloat(years)),
		KeyPostBalloonMonthlyRent:     postRent.String(),
		KeyPostBalloonPropertyTaxes:   postTaxes.String(),
		KeyPostBalloonInsurance:       postInsurance.String(),
		KeyPostBalloonLoanPayment:     postPayment.String(),
		KeyPostBalloonMonthlyCashFlow: postRent.Sub(postExpenses).Sub(postPayment).Round().String(),
		KeyBalloonPaymentAmount:       balloonAmount.Round().String(),
		KeyBalloonRefinanceMaxLoan:    maxLoan.String(),
	}, nil
}

// balloonPaymentAmount is the combined balance of the original loans left on
// the due date. Payments are counted from loan_start_date, or from today.
func (s ltr) balloonPaymentAmount(a *Analysis, due time.Time) (money.Money, error) {
	start := a.now()
	if a.input.has("loan_start_date") {
		var err error
		if start, err = a.input.date("loan_start_date"); err != nil {
			return money.Zero(), err
		}
	}
	monthsPaid := datetime.MonthsBetween(start, due)

	details, err := a.slotLoans()
	if err != nil {
		return money.Zero(), err
	}
	total := money.Zero()
	for i, d := range details {
		balance, err := remainingBalance(a.schedules, d, monthsPaid)
		if err != nil {
			return money.Zero(), fmt.Errorf("balloon balance of loan %d: %w", i+1, err)
		}
		total = total.Add(balance)
	}
	return total, nil
}

func remainingBalance(g *loans.AmortizationScheduleGenerator, d loans.LoanDetails, monthsPaid int) (money.Money, error) {
	if monthsPaid >= d.TermMonths && !d.InterestOnly {
		return money.Zero(), nil
	}
	if monthsPaid > d.TermMonths {
		monthsPaid = d.TermMonths
	}
	return g.RemainingBalance(d, monthsPaid)
}

// escalationFactor returns (1 + rate/100)^years.
func escalationFactor(ratePercent, years float64) (decimal.Decimal, error) {
	base := decimal.NewFromInt(1).Add(money.NewPercentageFromFloat(ratePercent).Fraction())
	return mathutil.PowFrac(base, decimal.NewFromFloat(years))
}
