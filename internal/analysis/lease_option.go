package analysis

import (
	"strconv"

	"github.com/iwvelando/property-analyzer/pkg/constants"
	"github.com/iwvelando/property-analyzer/pkg/money"
	"github.com/iwvelando/property-analyzer/pkg/validation"
)

// Lease option metric keys.
const (
	KeyTotalRentCredits       = "total_rent_credits"
	KeyEffectivePurchasePrice = "effective_purchase_price"
	KeyOptionROI              = "option_roi"
	KeyBreakevenMonths        = "breakeven_months"
)

// leaseOption controls a property through a lease with an option to buy at
// the strike price. Only the option fee and setup costs are invested.
type leaseOption struct {
	base
}

func (leaseOption) requiredFields() []validation.Field {
	return []validation.Field{
		{Key: "monthly_rent", Label: "Monthly Rent"},
		{Key: "option_consideration_fee", Label: "Option Consideration Fee"},
		{Key: "option_term_months", Label: "Option Term"},
		{Key: "monthly_rent_credit", Label: "Monthly Rent Credit"},
		{Key: "strike_price", Label: "Strike Price"},
	}
}

func (s leaseOption) validate(a *Analysis) error {
	in := a.input
	if err := s.base.validate(a); err != nil {
		return err
	}
	if err := validation.ValidatePositiveNumber(in["option_consideration_fee"], "option_consideration_fee"); err != nil {
		return err
	}
	maxTerm := float64(a.settings.Limits.MaxTermMonths)
	if err := validation.ValidateNumericRange(in["option_term_months"], constants.MinLoanTermMonths, maxTerm, "option_term_months"); err != nil {
		return err
	}
	if err := validation.ValidateWholeNumber(in["option_term_months"], "option_term_months"); err != nil {
		return err
	}
	if err := validation.ValidateNonNegativeNumber(in["monthly_rent_credit"], "monthly_rent_credit"); err != nil {
		return err
	}
	if err := validation.ValidatePositiveNumber(in["strike_price"], "strike_price"); err != nil {
		return err
	}
	strike, err := in.amount("strike_price")
	if err != nil {
		return err
	}
	price, err := in.amount("purchase_price")
	if err != nil {
		return err
	}
	if !strike.GreaterThan(price) {
		return &validation.FieldError{Field: "strike_price", Message: "must be greater than purchase_price"}
	}
	return nil
}

// loanPayments is always zero: the property is not financed until the
// option is exercised.
func (leaseOption) loanPayments(*Analysis) (money.Money, error) {
	return money.Zero(), nil
}

func (leaseOption) cashInvested(a *Analysis) (money.Money, error) {
	fee, err := a.input.amount("option_consideration_fee")
	if err != nil {
		return money.Zero(), err
	}
	setup, err := a.setupCosts()
	if err != nil {
		return money.Zero(), err
	}
	return fee.Add(setup), nil
}

// totalRentCredits is the monthly credit over the option term, capped at the
// configured share of the strike price.
func (leaseOption) totalRentCredits(a *Analysis) (money.Money, error) {
	credit, err := a.input.amount("monthly_rent_credit")
	if err != nil {
		return money.Zero(), err
	}
	term, err := a.input.integer("option_term_months")
	if err != nil {
		return money.Zero(), err
	}
	strike, err := a.input.amount("strike_price")
	if err != nil {
		return money.Zero(), err
	}
	ceiling := strike.ApplyPercentage(money.NewPercentageFromFloat(a.settings.MaxRentCreditPercentage))
	return money.Min(credit.MulInt(term), ceiling), nil
}

func (s leaseOption) effectivePurchasePrice(a *Analysis) (money.Money, error) {
	strike, err := a.input.amount("strike_price")
	if err != nil {
		return money.Zero(), err
	}
	credits, err := s.totalRentCredits(a)
	if err != nil {
		return money.Zero(), err
	}
	return strike.Sub(credits), nil
}

// optionROI is the cash flow over the whole option term relative to the
// cash invested.
func (leaseOption) optionROI(a *Analysis) (money.Percentage, error) {
	monthly, err := a.monthlyCashFlow()
	if err != nil {
		return money.ZeroPercentage(), err
	}
	term, err := a.input.integer("option_term_months")
	if err != nil {
		return money.ZeroPercentage(), err
	}
	invested, err := a.totalCashInvested()
	if err != nil {
		return money.ZeroPercentage(), err
	}
	return a.returnOn(monthly.Round().MulInt(term), invested)
}

// breakevenMonths is the number of whole months of cash flow needed to
// recover the cash invested. It is N/A when cash flow is not positive.
func (leaseOption) breakevenMonths(a *Analysis) string {
	monthly := a.MonthlyCashFlow().Round()
	invested := a.TotalCashInvested()
	if invested.IsZero() {
		return "0"
	}
	if !monthly.IsPositive() {
		return constants.NotApplicable
	}
	ratio, err := invested.Ratio(monthly)
	if err != nil {
		a.fallback(KeyBreakevenMonths, err)
		return constants.NotApplicable
	}
	return strconv.FormatInt(ratio.Ceil().IntPart(), 10)
}

func (s leaseOption) metrics(a *Analysis) (Metrics, error) {
	credits := a.safeMoney(KeyTotalRentCredits, func() (money.Money, error) { return s.totalRentCredits(a) })
	effective := a.safeMoney(KeyEffectivePurchasePrice, func() (money.Money, error) { return s.effectivePurchasePrice(a) })
	roi := a.safePercentage(KeyOptionROI, func() (money.Percentage, error) { return s.optionROI(a) })
	return Metrics{
		KeyTotalRentCredits:       credits.Round().String(),
		KeyEffectivePurchasePrice: effective.Round().String(),
		KeyOptionROI:              roi.String(),
		KeyBreakevenMonths:        s.breakevenMonths(a),
	}, nil
}
