package analysis

import (
	"fmt"

	"github.com/iwvelando/property-analyzer/pkg/constants"
	"github.com/iwvelando/property-analyzer/pkg/loans"
	"github.com/iwvelando/property-analyzer/pkg/money"
	"github.com/iwvelando/property-analyzer/pkg/validation"
)

var baseRequiredFields = []validation.Field{
	{Key: "purchase_price", Label: "Purchase Price"},
	{Key: "property_taxes", Label: "Property Taxes"},
	{Key: "insurance", Label: "Insurance"},
}

var nonNegativeKeys = []string{
	"property_taxes", "insurance", "hoa_coa_coop",
	"closing_costs", "renovation_costs", "assignment_fee", "marketing_costs", "furnishing_costs",
	"utilities", "internet", "cleaning", "pest_control", "landscaping",
	"other_income",
}

var percentageKeys = []string{
	"management_fee_percentage", "capex_percentage", "vacancy_percentage",
	"repairs_percentage", "padsplit_platform_percentage",
}

// validateBase runs the checks shared by every analysis type.
func (a *Analysis) validateBase() error {
	in := a.input
	if err := validation.ValidateRequiredFields(in, baseRequiredFields); err != nil {
		return err
	}
	if err := validation.ValidateRequiredFields(in, a.strategy.requiredFields()); err != nil {
		return err
	}
	if in.has("id") {
		if err := validation.ValidateUUID(in["id"], "id"); err != nil {
			return err
		}
	}
	if err := validation.ValidatePositiveNumber(in["purchase_price"], "purchase_price"); err != nil {
		return err
	}
	for _, key := range nonNegativeKeys {
		if !in.has(key) {
			continue
		}
		if err := validation.ValidateNonNegativeNumber(in[key], key); err != nil {
			return err
		}
	}
	for _, key := range percentageKeys {
		if !in.has(key) {
			continue
		}
		if err := validation.ValidatePercentageDefault(in[key], key); err != nil {
			return err
		}
	}
	for _, slot := range loanSlots {
		if !in.has(slot + "_loan_amount") {
			continue
		}
		// an explicit zero amount marks an unused slot
		if amount, err := in.amount(slot + "_loan_amount"); err == nil && amount.IsZero() {
			continue
		}
		if err := a.validateLoan(slot, a.settings.Limits); err != nil {
			return err
		}
	}
	return nil
}

// validateLoan checks the loan terms and out-of-pocket fields of one slot.
func (a *Analysis) validateLoan(slot string, limits loans.Limits) error {
	if term := slot + "_loan_term"; a.input.has(term) {
		if err := validation.ValidateWholeNumber(a.input[term], slot+" loan term"); err != nil {
			return err
		}
	}
	details, err := a.input.loan(slot)
	if err != nil {
		return &validation.FieldError{Field: slot, Message: err.Error()}
	}
	if err := details.Validate(slot, limits); err != nil {
		return err
	}
	for _, suffix := range []string{"_loan_down_payment", "_loan_closing_costs"} {
		key := slot + suffix
		if !a.input.has(key) {
			continue
		}
		if err := validation.ValidateNonNegativeNumber(a.input[key], key); err != nil {
			return err
		}
	}
	return nil
}

// loanSlots are the generic loan slots iterated by the base calculations.
var loanSlots = func() []string {
	slots := make([]string, 0, constants.LoanSlotCount)
	for i := 1; i <= constants.LoanSlotCount; i++ {
		slots = append(slots, fmt.Sprintf("loan%d", i))
	}
	return slots
}()

// slotLoans returns the details of every declared loan slot, in slot order.
func (a *Analysis) slotLoans() ([]loans.LoanDetails, error) {
	var result []loans.LoanDetails
	for _, slot := range loanSlots {
		if !a.input.hasLoan(slot) {
			continue
		}
		details, err := a.input.loan(slot)
		if err != nil {
			return nil, err
		}
		result = append(result, details)
	}
	return result, nil
}

// payment returns the monthly payment of one loan, rounded to cents.
func payment(details loans.LoanDetails) money.Money {
	return loans.CalculateMonthlyPayment(details).Payment.Round()
}

// base supplies the default strategy behavior: rent-based income and
// expenses, generic loan slots and no captured equity.
type base struct{}

func (base) requiredFields() []validation.Field {
	return []validation.Field{{Key: "monthly_rent", Label: "Monthly Rent"}}
}

func (base) validate(a *Analysis) error {
	return validation.ValidateNonNegativeNumber(a.input["monthly_rent"], "monthly_rent")
}

func (base) monthlyIncome(a *Analysis) (money.Money, error) {
	return a.input.amount("monthly_rent")
}

func (base) expenseBase(a *Analysis) (money.Money, error) {
	return a.input.amount("monthly_rent")
}

func (base) vacancyIsExpense() bool {
	return true
}

func (base) loanPayments(a *Analysis) (money.Money, error) {
	details, err := a.slotLoans()
	if err != nil {
		return money.Zero(), err
	}
	total := money.Zero()
	for _, d := range details {
		total = total.Add(payment(d))
	}
	return total, nil
}

func (base) cashInvested(a *Analysis) (money.Money, error) {
	return a.slotCashInvested()
}

func (base) equityCaptured(*Analysis) (money.Money, error) {
	return money.Zero(), nil
}

func (base) metrics(*Analysis) (Metrics, error) {
	return Metrics{}, nil
}

var setupCostKeys = []string{"closing_costs", "renovation_costs", "assignment_fee", "marketing_costs"}

// setupCosts sums the deal-level costs paid in cash, including furnishing
// for PadSplit types.
func (a *Analysis) setupCosts() (money.Money, error) {
	keys := setupCostKeys
	if a.typ.PadSplit {
		keys = append(keys[:len(keys):len(keys)], "furnishing_costs")
	}
	total := money.Zero()
	for _, key := range keys {
		cost, err := a.input.amount(key)
		if err != nil {
			return money.Zero(), err
		}
		total = total.Add(cost)
	}
	return total, nil
}

// slotCashInvested sums down payments and closing costs of the loan slots
// plus setup costs. Without any loan the purchase is paid in cash.
func (a *Analysis) slotCashInvested() (money.Money, error) {
	total := money.Zero()
	financed := false
	for _, slot := range loanSlots {
		if !a.input.hasLoan(slot) {
			continue
		}
		financed = true
		for _, suffix := range []string{"_loan_down_payment", "_loan_closing_costs"} {
			cost, err := a.input.amount(slot + suffix)
			if err != nil {
				return money.Zero(), err
			}
			total = total.Add(cost)
		}
	}
	if !financed {
		price, err := a.input.amount("purchase_price")
		if err != nil {
			return money.Zero(), err
		}
		total = total.Add(price)
	}
	setup, err := a.setupCosts()
	if err != nil {
		return money.Zero(), err
	}
	return total.Add(setup).ClampZero(), nil
}
