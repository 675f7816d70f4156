// Package analysis turns flat deal inputs into investment metrics for the
// supported deal strategies.
package analysis

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/property-analyzer/internal/telemetry"
	"github.com/iwvelando/property-analyzer/pkg/constants"
	"github.com/iwvelando/property-analyzer/pkg/format"
	"github.com/iwvelando/property-analyzer/pkg/loans"
	"github.com/iwvelando/property-analyzer/pkg/money"
	"github.com/iwvelando/property-analyzer/pkg/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Metrics maps metric names to display-ready values such as "$1,234.56".
type Metrics map[string]string

// Copy returns an independent copy of m.
func (m Metrics) Copy() Metrics {
	if m == nil {
		return nil
	}
	out := make(Metrics, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Core metric keys shared by every analysis type.
const (
	KeyMonthlyCashFlow          = "monthly_cash_flow"
	KeyAnnualCashFlow           = "annual_cash_flow"
	KeyTotalCashInvested        = "total_cash_invested"
	KeyCashOnCashReturn         = "cash_on_cash_return"
	KeyROI                      = "roi"
	KeyNOI                      = "noi"
	KeyCapRate                  = "cap_rate"
	KeyDSCR                     = "dscr"
	KeyOperatingExpenseRatio    = "operating_expense_ratio"
	KeyMonthlyIncome            = "monthly_income"
	KeyMonthlyOperatingExpenses = "monthly_operating_expenses"
	KeyMonthlyLoanPayments      = "monthly_loan_payments"
)

// CoreMetricKeys lists the type-independent metric vocabulary in display order.
var CoreMetricKeys = []string{
	KeyMonthlyIncome,
	KeyMonthlyOperatingExpenses,
	KeyMonthlyLoanPayments,
	KeyMonthlyCashFlow,
	KeyAnnualCashFlow,
	KeyTotalCashInvested,
	KeyCashOnCashReturn,
	KeyROI,
	KeyNOI,
	KeyCapRate,
	KeyDSCR,
	KeyOperatingExpenseRatio,
}

var monthsPerYear = decimal.NewFromInt(constants.MonthsPerYear)

// strategy is implemented by the closed set of deal strategies in this
// package. Methods that have a shared default come from base.
type strategy interface {
	requiredFields() []validation.Field
	validate(a *Analysis) error
	monthlyIncome(a *Analysis) (money.Money, error)
	expenseBase(a *Analysis) (money.Money, error)
	vacancyIsExpense() bool
	loanPayments(a *Analysis) (money.Money, error)
	cashInvested(a *Analysis) (money.Money, error)
	equityCaptured(a *Analysis) (money.Money, error)
	metrics(a *Analysis) (Metrics, error)
}

// Analysis is one validated deal and the calculations over it. It is never
// modified after construction; every metric is recomputed from the input.
type Analysis struct {
	id        string
	input     Input
	typ       Type
	strategy  strategy
	settings  Settings
	logger    *zap.Logger
	now       func() time.Time
	schedules *loans.AmortizationScheduleGenerator
}

// New validates data and returns the analysis for its analysis_type. It is
// the single dispatch point from analysis_type to strategy:
//
//	LTR, PadSplit LTR      -> long-term rental (optional balloon mode)
//	BRRRR, PadSplit BRRRR  -> buy, rehab, rent, refinance
//	Lease Option           -> lease option
//	Multi-Family           -> multi-family
//
// Unknown types fail with ErrUnknownAnalysisType. Input failures wrap
// ErrValidation and carry a *validation.FieldError. No analysis is returned
// with an error.
func New(data map[string]interface{}, opts ...Option) (*Analysis, error) {
	a := &Analysis{
		input:    Input(data).clone(),
		settings: DefaultSettings(),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.schedules = loans.NewAmortizationScheduleGenerator(a.logger)

	if err := validation.ValidateRequiredFields(a.input, []validation.Field{{Key: "analysis_type", Label: "Analysis Type"}}); err != nil {
		telemetry.RecordAnalysis("", telemetry.StatusInvalid)
		return nil, invalid(err)
	}
	typ, err := ParseType(a.input.text("analysis_type"))
	if err != nil {
		telemetry.RecordAnalysis("unknown", telemetry.StatusInvalid)
		return nil, err
	}
	a.typ = typ

	switch typ.Kind {
	case KindLTR:
		a.strategy = &ltr{}
	case KindBRRRR:
		a.strategy = &brrrr{}
	case KindLeaseOption:
		a.strategy = &leaseOption{}
	case KindMultiFamily:
		a.strategy = &multiFamily{}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAnalysisType, typ)
	}

	if err := a.validateBase(); err != nil {
		return nil, a.rejected(err)
	}
	if err := a.strategy.validate(a); err != nil {
		return nil, a.rejected(err)
	}

	if a.input.has("id") {
		a.id = a.input.text("id")
	} else {
		a.id = uuid.New().String()
	}

	telemetry.RecordAnalysis(typ.Name(), telemetry.StatusOK)
	a.logger.Debug(fmt.Sprintf("created %s analysis %s", typ, a.id),
		zap.String("op", "analysis.New"),
	)
	return a, nil
}

func (a *Analysis) rejected(err error) error {
	telemetry.RecordAnalysis(a.typ.Name(), telemetry.StatusInvalid)
	a.logger.Debug("analysis input rejected",
		zap.String("op", "analysis.New"),
		zap.String("analysisType", a.typ.Name()),
		zap.Error(err),
	)
	return invalid(err)
}

// ID returns the analysis id, taken from the input "id" field or generated.
func (a *Analysis) ID() string {
	return a.id
}

// Type returns the parsed analysis type.
func (a *Analysis) Type() Type {
	return a.typ
}

// Input returns a copy of the validated input.
func (a *Analysis) Input() map[string]interface{} {
	return a.input.clone()
}

// MonthlyIncome returns the monthly income the cash flow is based on.
func (a *Analysis) MonthlyIncome() money.Money {
	return a.safeMoney(KeyMonthlyIncome, func() (money.Money, error) { return a.strategy.monthlyIncome(a) })
}

// OperatingExpenses returns monthly operating expenses, excluding debt service.
func (a *Analysis) OperatingExpenses() money.Money {
	return a.safeMoney(KeyMonthlyOperatingExpenses, a.operatingExpenses)
}

// LoanPayments returns the monthly debt service used for cash flow.
func (a *Analysis) LoanPayments() money.Money {
	return a.safeMoney(KeyMonthlyLoanPayments, func() (money.Money, error) { return a.strategy.loanPayments(a) })
}

// MonthlyCashFlow returns income minus operating expenses minus loan
// payments. Any failure yields zero.
func (a *Analysis) MonthlyCashFlow() money.Money {
	return a.safeMoney(KeyMonthlyCashFlow, a.monthlyCashFlow)
}

// AnnualCashFlow returns twelve months of cash flow.
func (a *Analysis) AnnualCashFlow() money.Money {
	return a.safeMoney(KeyAnnualCashFlow, a.annualCashFlow)
}

// TotalCashInvested returns the out-of-pocket cost of the deal, never negative.
func (a *Analysis) TotalCashInvested() money.Money {
	return a.safeMoney(KeyTotalCashInvested, a.totalCashInvested)
}

// CashOnCashReturn returns annual cash flow over total cash invested, in
// percent to two places. The zero-investment policy decides the result when
// nothing was invested.
func (a *Analysis) CashOnCashReturn() money.Percentage {
	return a.safePercentage(KeyCashOnCashReturn, a.cashOnCashReturn)
}

// ROI returns annual cash flow plus captured equity over total cash invested.
func (a *Analysis) ROI() money.Percentage {
	return a.safePercentage(KeyROI, a.roi)
}

// NOI returns annual net operating income.
func (a *Analysis) NOI() money.Money {
	return a.safeMoney(KeyNOI, a.noi)
}

// CapRate returns annual NOI over purchase price.
func (a *Analysis) CapRate() money.Percentage {
	return a.safePercentage(KeyCapRate, a.capRate)
}

// DSCR returns monthly NOI over monthly debt service, or zero without debt.
func (a *Analysis) DSCR() decimal.Decimal {
	return a.safeDecimal(KeyDSCR, a.dscr)
}

// OperatingExpenseRatio returns operating expenses over income.
func (a *Analysis) OperatingExpenseRatio() money.Percentage {
	return a.safePercentage(KeyOperatingExpenseRatio, a.operatingExpenseRatio)
}

// Metrics computes the full report: core metrics first, then the metrics
// specific to the analysis type. The returned map belongs to the caller.
func (a *Analysis) Metrics() Metrics {
	out := a.coreMetrics()
	for k, v := range a.typeMetrics() {
		out[k] = v
	}
	return out
}

func (a *Analysis) coreMetrics() Metrics {
	return Metrics{
		KeyMonthlyIncome:            a.MonthlyIncome().Round().String(),
		KeyMonthlyOperatingExpenses: a.OperatingExpenses().Round().String(),
		KeyMonthlyLoanPayments:      a.LoanPayments().Round().String(),
		KeyMonthlyCashFlow:          a.MonthlyCashFlow().Round().String(),
		KeyAnnualCashFlow:           a.AnnualCashFlow().Round().String(),
		KeyTotalCashInvested:        a.TotalCashInvested().Round().String(),
		KeyCashOnCashReturn:         a.CashOnCashReturn().String(),
		KeyROI:                      a.ROI().String(),
		KeyNOI:                      a.NOI().Round().String(),
		KeyCapRate:                  a.CapRate().String(),
		KeyDSCR:                     format.Ratio(a.DSCR()),
		KeyOperatingExpenseRatio:    a.OperatingExpenseRatio().String(),
	}
}

func (a *Analysis) typeMetrics() (result Metrics) {
	op := "analysis." + a.typ.Kind.String() + ".metrics"
	defer func() {
		if r := recover(); r != nil {
			a.fallback(op, fmt.Errorf("panic: %v", r))
			result = Metrics{}
		}
	}()
	m, err := a.strategy.metrics(a)
	if err != nil {
		a.fallback(op, err)
		return Metrics{}
	}
	return m
}

func (a *Analysis) monthlyCashFlow() (money.Money, error) {
	income, err := a.strategy.monthlyIncome(a)
	if err != nil {
		return money.Zero(), err
	}
	expenses, err := a.operatingExpenses()
	if err != nil {
		return money.Zero(), err
	}
	payments, err := a.strategy.loanPayments(a)
	if err != nil {
		return money.Zero(), err
	}
	return income.Sub(expenses).Sub(payments), nil
}

func (a *Analysis) annualCashFlow() (money.Money, error) {
	monthly, err := a.monthlyCashFlow()
	if err != nil {
		return money.Zero(), err
	}
	return monthly.Round().MulInt(constants.MonthsPerYear), nil
}

func (a *Analysis) totalCashInvested() (money.Money, error) {
	invested, err := a.strategy.cashInvested(a)
	if err != nil {
		return money.Zero(), err
	}
	return invested.ClampZero(), nil
}

func (a *Analysis) cashOnCashReturn() (money.Percentage, error) {
	annual, err := a.annualCashFlow()
	if err != nil {
		return money.ZeroPercentage(), err
	}
	invested, err := a.totalCashInvested()
	if err != nil {
		return money.ZeroPercentage(), err
	}
	return a.returnOn(annual, invested)
}

func (a *Analysis) roi() (money.Percentage, error) {
	annual, err := a.annualCashFlow()
	if err != nil {
		return money.ZeroPercentage(), err
	}
	equity, err := a.strategy.equityCaptured(a)
	if err != nil {
		return money.ZeroPercentage(), err
	}
	invested, err := a.totalCashInvested()
	if err != nil {
		return money.ZeroPercentage(), err
	}
	return a.returnOn(annual.Add(equity), invested)
}

// returnOn expresses gain as a percentage of invested, applying the
// zero-investment policy when invested is not positive.
func (a *Analysis) returnOn(gain, invested money.Money) (money.Percentage, error) {
	if !invested.IsPositive() {
		return a.zeroInvestmentReturn(), nil
	}
	p, err := gain.Round().PercentOf(invested.Round())
	if err != nil {
		return money.ZeroPercentage(), err
	}
	return p.Round(constants.PercentagePlaces), nil
}

func (a *Analysis) zeroInvestmentReturn() money.Percentage {
	switch a.settings.ZeroInvestmentPolicy {
	case constants.ZeroInvestmentPolicyUnbounded:
		return money.UnboundedPercentage()
	case constants.ZeroInvestmentPolicyCapped:
		return money.MustParsePercentage(constants.CappedReturnPercentage)
	default:
		return money.ZeroPercentage()
	}
}

func (a *Analysis) netOperatingIncome() (money.Money, error) {
	income, err := a.strategy.monthlyIncome(a)
	if err != nil {
		return money.Zero(), err
	}
	expenses, err := a.operatingExpenses()
	if err != nil {
		return money.Zero(), err
	}
	return income.Sub(expenses), nil
}

func (a *Analysis) noi() (money.Money, error) {
	monthly, err := a.netOperatingIncome()
	if err != nil {
		return money.Zero(), err
	}
	return monthly.Mul(monthsPerYear), nil
}

func (a *Analysis) capRate() (money.Percentage, error) {
	annual, err := a.noi()
	if err != nil {
		return money.ZeroPercentage(), err
	}
	price, err := a.input.amount("purchase_price")
	if err != nil {
		return money.ZeroPercentage(), err
	}
	return ratioPercentage(annual, price)
}

func (a *Analysis) dscr() (decimal.Decimal, error) {
	monthly, err := a.netOperatingIncome()
	if err != nil {
		return decimal.Zero, err
	}
	payments, err := a.strategy.loanPayments(a)
	if err != nil {
		return decimal.Zero, err
	}
	if !payments.IsPositive() {
		return decimal.Zero, nil
	}
	ratio, err := monthly.Ratio(payments)
	if err != nil {
		return decimal.Zero, err
	}
	return ratio.Round(constants.RatioPlaces), nil
}

func (a *Analysis) operatingExpenseRatio() (money.Percentage, error) {
	expenses, err := a.operatingExpenses()
	if err != nil {
		return money.ZeroPercentage(), err
	}
	income, err := a.strategy.monthlyIncome(a)
	if err != nil {
		return money.ZeroPercentage(), err
	}
	return ratioPercentage(expenses, income)
}

// ratioPercentage returns part/whole in percent, or 0% when whole is not
// positive.
func ratioPercentage(part, whole money.Money) (money.Percentage, error) {
	if !whole.IsPositive() {
		return money.ZeroPercentage(), nil
	}
	p, err := part.PercentOf(whole)
	if err != nil {
		return money.ZeroPercentage(), err
	}
	return p.Round(constants.PercentagePlaces), nil
}

// operatingExpenses is fixed costs plus percentage costs on the strategy's
// expense base, plus the PadSplit lines for PadSplit types.
func (a *Analysis) operatingExpenses() (money.Money, error) {
	total, err := a.fixedCosts()
	if err != nil {
		return money.Zero(), err
	}
	base, err := a.strategy.expenseBase(a)
	if err != nil {
		return money.Zero(), err
	}
	variable, err := a.percentageCosts(base, a.strategy.vacancyIsExpense())
	if err != nil {
		return money.Zero(), err
	}
	total = total.Add(variable)

	if a.typ.PadSplit {
		padSplit, err := a.padSplitExpenses()
		if err != nil {
			return money.Zero(), err
		}
		total = total.Add(padSplit)
	}
	return total, nil
}

var fixedCostKeys = []string{"property_taxes", "insurance", "hoa_coa_coop"}

// fixedCosts returns the monthly costs that do not depend on rent.
func (a *Analysis) fixedCosts() (money.Money, error) {
	total := money.Zero()
	for _, key := range fixedCostKeys {
		cost, err := a.input.amount(key)
		if err != nil {
			return money.Zero(), err
		}
		total = total.Add(cost)
	}
	return total, nil
}

var percentageCostKeys = []string{"management_fee_percentage", "capex_percentage", "repairs_percentage"}

func (a *Analysis) percentageCosts(base money.Money, includeVacancy bool) (money.Money, error) {
	keys := percentageCostKeys
	if includeVacancy {
		keys = append([]string{"vacancy_percentage"}, keys...)
	}
	total := money.Zero()
	for _, key := range keys {
		pct, err := a.input.percent(key)
		if err != nil {
			return money.Zero(), err
		}
		total = total.Add(base.ApplyPercentage(pct))
	}
	return total, nil
}

// safeMoney runs a money calculation, turning any error or panic into a
// logged zero.
func (a *Analysis) safeMoney(metric string, fn func() (money.Money, error)) (result money.Money) {
	defer func() {
		if r := recover(); r != nil {
			a.fallback(metric, fmt.Errorf("panic: %v", r))
			result = money.Zero()
		}
	}()
	m, err := fn()
	if err != nil {
		a.fallback(metric, err)
		return money.Zero()
	}
	return m
}

func (a *Analysis) safePercentage(metric string, fn func() (money.Percentage, error)) (result money.Percentage) {
	defer func() {
		if r := recover(); r != nil {
			a.fallback(metric, fmt.Errorf("panic: %v", r))
			result = money.ZeroPercentage()
		}
	}()
	p, err := fn()
	if err != nil {
		a.fallback(metric, err)
		return money.ZeroPercentage()
	}
	return p
}

func (a *Analysis) safeDecimal(metric string, fn func() (decimal.Decimal, error)) (result decimal.Decimal) {
	defer func() {
		if r := recover(); r != nil {
			a.fallback(metric, fmt.Errorf("panic: %v", r))
			result = decimal.Zero
		}
	}()
	d, err := fn()
	if err != nil {
		a.fallback(metric, err)
		return decimal.Zero
	}
	return d
}

func (a *Analysis) fallback(metric string, err error) {
	telemetry.RecordFallback(metric)
	a.logger.Warn(fmt.Sprintf("calculation of %s failed, using default", metric),
		zap.String("op", "analysis.Metrics"),
		zap.String("analysisId", a.id),
		zap.String("analysisType", a.typ.Name()),
		zap.Error(err),
	)
}
