package analysis

import (
	"github.com/iwvelando/property-analyzer/pkg/loans"
	"github.com/iwvelando/property-analyzer/pkg/money"
	"github.com/iwvelando/property-analyzer/pkg/validation"
)

// BRRRR metric keys.
const (
	KeyEquityCaptured        = "equity_captured"
	KeyCashRecouped          = "cash_recouped"
	KeyHoldingCosts          = "holding_costs"
	KeyMaximumAllowableOffer = "maximum_allowable_offer"
	KeyTotalProjectCost      = "total_project_cost"
	KeyInitialLoanPayment    = "initial_loan_payment"
	KeyRefinanceLoanPayment  = "refinance_loan_payment"
)

const (
	initialSlot   = "initial"
	refinanceSlot = "refinance"
)

// brrrr is a buy, rehab, rent, refinance deal. The initial loan carries the
// purchase through renovation; cash flow is measured on the refinance loan.
type brrrr struct {
	base
}

func (brrrr) requiredFields() []validation.Field {
	return []validation.Field{
		{Key: "monthly_rent", Label: "Monthly Rent"},
		{Key: "after_repair_value", Label: "After Repair Value"},
		{Key: "renovation_costs", Label: "Renovation Costs"},
		{Key: "renovation_duration", Label: "Renovation Duration"},
		{Key: "initial_loan_amount", Label: "Initial Loan Amount"},
		{Key: "initial_loan_interest_rate", Label: "Initial Loan Interest Rate"},
		{Key: "initial_loan_term", Label: "Initial Loan Term"},
		{Key: "refinance_loan_amount", Label: "Refinance Loan Amount"},
		{Key: "refinance_loan_interest_rate", Label: "Refinance Loan Interest Rate"},
		{Key: "refinance_loan_term", Label: "Refinance Loan Term"},
	}
}

func (s brrrr) validate(a *Analysis) error {
	in := a.input
	if err := s.base.validate(a); err != nil {
		return err
	}
	if err := validation.ValidatePositiveNumber(in["after_repair_value"], "after_repair_value"); err != nil {
		return err
	}
	maxRenovation := float64(a.settings.MaxRenovationMonths)
	if err := validation.ValidateNumericRange(in["renovation_duration"], 1, maxRenovation, "renovation_duration"); err != nil {
		return err
	}
	if err := validation.ValidateWholeNumber(in["renovation_duration"], "renovation_duration"); err != nil {
		return err
	}

	// The initial loan only has to last through renovation.
	initialLimits := loans.Limits{
		MaxInterestRate: a.settings.Limits.MaxInterestRate,
		MaxTermMonths:   a.settings.MaxRenovationMonths,
	}
	if err := a.validateLoan(initialSlot, initialLimits); err != nil {
		return err
	}
	if err := a.validateLoan(refinanceSlot, a.settings.Limits); err != nil {
		return err
	}

	if in.has("refinance_ltv_percentage") {
		if err := validation.ValidatePercentageDefault(in["refinance_ltv_percentage"], "refinance_ltv_percentage"); err != nil {
			return err
		}
	}
	return nil
}

// loanPayments returns the refinance payment. The initial payment only
// matters during renovation and is accounted for in holding costs.
func (brrrr) loanPayments(a *Analysis) (money.Money, error) {
	refinance, err := a.input.loan(refinanceSlot)
	if err != nil {
		return money.Zero(), err
	}
	return payment(refinance), nil
}

// holdingCosts is monthly fixed costs plus interest-only carry on the
// initial loan, for every month of renovation.
func (brrrr) holdingCosts(a *Analysis) (money.Money, error) {
	fixed, err := a.fixedCosts()
	if err != nil {
		return money.Zero(), err
	}
	initial, err := a.input.loan(initialSlot)
	if err != nil {
		return money.Zero(), err
	}
	months, err := a.input.integer("renovation_duration")
	if err != nil {
		return money.Zero(), err
	}
	carry := loans.CalculateInterestPayment(initial.Amount, initial.InterestRate).Round()
	return fixed.Add(carry).MulInt(months), nil
}

// closingCosts is the deal-level closing costs plus the initial loan's.
func (brrrr) closingCosts(a *Analysis) (money.Money, error) {
	closing, err := a.input.amount("closing_costs")
	if err != nil {
		return money.Zero(), err
	}
	loanClosing, err := a.input.amount("initial_loan_closing_costs")
	if err != nil {
		return money.Zero(), err
	}
	return closing.Add(loanClosing), nil
}

func (s brrrr) totalProjectCost(a *Analysis) (money.Money, error) {
	price, err := a.input.amount("purchase_price")
	if err != nil {
		return money.Zero(), err
	}
	renovation, err := a.input.amount("renovation_costs")
	if err != nil {
		return money.Zero(), err
	}
	holding, err := s.holdingCosts(a)
	if err != nil {
		return money.Zero(), err
	}
	closing, err := s.closingCosts(a)
	if err != nil {
		return money.Zero(), err
	}
	return money.Sum(price, renovation, holding, closing), nil
}

// cashRecouped is what the refinance returns after paying off the initial
// loan and the refinance closing costs. It is never negative.
func (brrrr) cashRecouped(a *Analysis) (money.Money, error) {
	refinance, err := a.input.amount("refinance_loan_amount")
	if err != nil {
		return money.Zero(), err
	}
	initial, err := a.input.amount("initial_loan_amount")
	if err != nil {
		return money.Zero(), err
	}
	closing, err := a.input.amount("refinance_loan_closing_costs")
	if err != nil {
		return money.Zero(), err
	}
	return refinance.Sub(initial).Sub(closing).ClampZero(), nil
}

// cashInvested is the initial out-of-pocket cost less the cash recouped by
// the refinance. Both steps are clamped at zero.
func (s brrrr) cashInvested(a *Analysis) (money.Money, error) {
	down, err := a.input.amount("initial_loan_down_payment")
	if err != nil {
		return money.Zero(), err
	}
	loanClosing, err := a.input.amount("initial_loan_closing_costs")
	if err != nil {
		return money.Zero(), err
	}
	setup, err := a.setupCosts()
	if err != nil {
		return money.Zero(), err
	}
	holding, err := s.holdingCosts(a)
	if err != nil {
		return money.Zero(), err
	}
	initialCash := money.Sum(down, loanClosing, setup, holding).ClampZero()

	recouped, err := s.cashRecouped(a)
	if err != nil {
		return money.Zero(), err
	}
	return initialCash.Sub(recouped).ClampZero(), nil
}

// equityCaptured is the after-repair value less the total project cost.
func (s brrrr) equityCaptured(a *Analysis) (money.Money, error) {
	arv, err := a.input.amount("after_repair_value")
	if err != nil {
		return money.Zero(), err
	}
	cost, err := s.totalProjectCost(a)
	if err != nil {
		return money.Zero(), err
	}
	return arv.Sub(cost), nil
}

// maximumAllowableOffer is the refinance target loan (ARV x LTV) less
// renovation, holding and closing costs, never negative.
func (s brrrr) maximumAllowableOffer(a *Analysis) (money.Money, error) {
	arv, err := a.input.amount("after_repair_value")
	if err != nil {
		return money.Zero(), err
	}
	ltv := a.input.percentOr("refinance_ltv_percentage", a.settings.DefaultRefinanceLTV)
	renovation, err := a.input.amount("renovation_costs")
	if err != nil {
		return money.Zero(), err
	}
	holding, err := s.holdingCosts(a)
	if err != nil {
		return money.Zero(), err
	}
	closing, err := s.closingCosts(a)
	if err != nil {
		return money.Zero(), err
	}
	target := arv.ApplyPercentage(ltv)
	return target.Sub(money.Sum(renovation, holding, closing)).ClampZero(), nil
}

func (s brrrr) metrics(a *Analysis) (Metrics, error) {
	initial, err := a.input.loan(initialSlot)
	if err != nil {
		return nil, err
	}
	refinance := a.safeMoney(KeyRefinanceLoanPayment, func() (money.Money, error) { return s.loanPayments(a) })
	m := Metrics{
		KeyInitialLoanPayment:   payment(initial).String(),
		KeyRefinanceLoanPayment: refinance.String(),
	}
	for key, fn := range map[string]func(*Analysis) (money.Money, error){
		KeyEquityCaptured:        s.equityCaptured,
		KeyCashRecouped:          s.cashRecouped,
		KeyHoldingCosts:          s.holdingCosts,
		KeyMaximumAllowableOffer: s.maximumAllowableOffer,
		KeyTotalProjectCost:      s.totalProjectCost,
	} {
		fn := fn
		m[key] = a.safeMoney(key, func() (money.Money, error) { return fn(a) }).Round().String()
	}
	return m, nil
}
