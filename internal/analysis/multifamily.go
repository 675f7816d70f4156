package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iwvelando/property-analyzer/pkg/constants"
	"github.com/iwvelando/property-analyzer/pkg/format"
	"github.com/iwvelando/property-analyzer/pkg/money"
	"github.com/iwvelando/property-analyzer/pkg/validation"
	"github.com/shopspring/decimal"
)

// Multi-family metric keys.
const (
	KeyGrossPotentialRent   = "gross_potential_rent"
	KeyEffectiveGrossIncome = "effective_gross_income"
	KeyOccupancyRate        = "occupancy_rate"
	KeyPricePerUnit         = "price_per_unit"
	KeyGrossRentMultiplier  = "gross_rent_multiplier"
	KeyNOIPerUnit           = "noi_per_unit"
	KeyUnitTypeSummary      = "unit_type_summary"
)

// UnitType is one row of a multi-family unit mix.
type UnitType struct {
	Type          string
	Count         int
	Occupied      int
	SquareFootage int
	Rent          money.Money
}

// ParseUnitTypes reads a unit mix given either as a JSON array string or as
// an already decoded list of objects.
func ParseUnitTypes(value interface{}) ([]UnitType, error) {
	var rows []interface{}
	switch v := value.(type) {
	case string:
		dec := json.NewDecoder(strings.NewReader(v))
		dec.UseNumber()
		if err := dec.Decode(&rows); err != nil {
			return nil, fmt.Errorf("unit_types is not a JSON array: %w", err)
		}
	case []interface{}:
		rows = v
	case []map[string]interface{}:
		for _, row := range v {
			rows = append(rows, row)
		}
	case []UnitType:
		return append([]UnitType(nil), v...), nil
	default:
		return nil, fmt.Errorf("unit_types has unsupported type %T", value)
	}

	units := make([]UnitType, 0, len(rows))
	for i, row := range rows {
		fields, ok := row.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("unit_types[%d] is not an object", i)
		}
		in := Input(fields)
		unit := UnitType{Type: in.text("type")}
		var err error
		if unit.Count, err = in.integer("count"); err != nil {
			return nil, fmt.Errorf("unit_types[%d]: %w", i, err)
		}
		if unit.Occupied, err = in.integer("occupied"); err != nil {
			return nil, fmt.Errorf("unit_types[%d]: %w", i, err)
		}
		if unit.SquareFootage, err = in.integer("square_footage"); err != nil {
			return nil, fmt.Errorf("unit_types[%d]: %w", i, err)
		}
		if unit.Rent, err = in.amount("rent"); err != nil {
			return nil, fmt.Errorf("unit_types[%d]: %w", i, err)
		}
		units = append(units, unit)
	}
	return units, nil
}

// multiFamily applies expense percentages to gross potential rent and takes
// vacancy out of income rather than counting it as an expense.
type multiFamily struct {
	base
}

func (multiFamily) requiredFields() []validation.Field {
	return []validation.Field{
		{Key: "total_units", Label: "Total Units"},
		{Key: "occupied_units", Label: "Occupied Units"},
		{Key: "floors", Label: "Floors"},
		{Key: "unit_types", Label: "Unit Types"},
	}
}

func (multiFamily) validate(a *Analysis) error {
	in := a.input
	if err := validation.ValidatePositiveNumber(in["total_units"], "total_units"); err != nil {
		return err
	}
	if err := validation.ValidatePositiveNumber(in["floors"], "floors"); err != nil {
		return err
	}
	for _, key := range []string{"total_units", "occupied_units", "floors"} {
		if err := validation.ValidateWholeNumber(in[key], key); err != nil {
			return err
		}
	}
	total, err := in.integer("total_units")
	if err != nil {
		return &validation.FieldError{Field: "total_units", Message: "must be a whole number"}
	}
	if err := validation.ValidateNumericRange(in["occupied_units"], 0, float64(total), "occupied_units"); err != nil {
		return err
	}
	occupied, err := in.integer("occupied_units")
	if err != nil {
		return &validation.FieldError{Field: "occupied_units", Message: "must be a whole number"}
	}

	units, err := ParseUnitTypes(in["unit_types"])
	if err != nil {
		return &validation.FieldError{Field: "unit_types", Message: err.Error()}
	}
	if len(units) == 0 {
		return &validation.FieldError{Field: "unit_types", Message: "must list at least one unit type"}
	}
	var count, occ int
	for i, u := range units {
		field := fmt.Sprintf("unit_types[%d]", i)
		if strings.TrimSpace(u.Type) == "" {
			return &validation.FieldError{Field: field + ".type", Message: "is required"}
		}
		if u.Count <= 0 {
			return &validation.FieldError{Field: field + ".count", Message: "must be greater than 0"}
		}
		if u.Occupied < 0 || u.Occupied > u.Count {
			return &validation.FieldError{Field: field + ".occupied", Message: fmt.Sprintf("must be between 0 and %d", u.Count)}
		}
		if u.Rent.IsNegative() || u.Rent.IsUnbounded() {
			return &validation.FieldError{Field: field + ".rent", Message: "must be a non-negative amount"}
		}
		count += u.Count
		occ += u.Occupied
	}
	if count != total {
		return &validation.FieldError{Field: "unit_types", Message: fmt.Sprintf("unit counts sum to %d, expected total_units %d", count, total)}
	}
	if occ != occupied {
		return &validation.FieldError{Field: "unit_types", Message: fmt.Sprintf("occupied counts sum to %d, expected occupied_units %d", occ, occupied)}
	}
	return nil
}

func (multiFamily) units(a *Analysis) ([]UnitType, error) {
	return ParseUnitTypes(a.input["unit_types"])
}

// grossPotentialRent is the monthly rent with every unit leased.
func (s multiFamily) grossPotentialRent(a *Analysis) (money.Money, error) {
	units, err := s.units(a)
	if err != nil {
		return money.Zero(), err
	}
	total := money.Zero()
	for _, u := range units {
		total = total.Add(u.Rent.MulInt(u.Count))
	}
	return total, nil
}

// vacancyLoss applies vacancy_percentage to gross potential rent when given,
// otherwise it is the rent of the units currently vacant.
func (s multiFamily) vacancyLoss(a *Analysis, gpr money.Money) (money.Money, error) {
	if a.input.has("vacancy_percentage") {
		pct, err := a.input.percent("vacancy_percentage")
		if err != nil {
			return money.Zero(), err
		}
		return gpr.ApplyPercentage(pct), nil
	}
	units, err := s.units(a)
	if err != nil {
		return money.Zero(), err
	}
	loss := money.Zero()
	for _, u := range units {
		loss = loss.Add(u.Rent.MulInt(u.Count - u.Occupied))
	}
	return loss, nil
}

// monthlyIncome is effective gross income: gross potential rent less vacancy
// plus other income.
func (s multiFamily) monthlyIncome(a *Analysis) (money.Money, error) {
	gpr, err := s.grossPotentialRent(a)
	if err != nil {
		return money.Zero(), err
	}
	loss, err := s.vacancyLoss(a, gpr)
	if err != nil {
		return money.Zero(), err
	}
	other, err := a.input.amount("other_income")
	if err != nil {
		return money.Zero(), err
	}
	return gpr.Sub(loss).Add(other), nil
}

func (s multiFamily) expenseBase(a *Analysis) (money.Money, error) {
	return s.grossPotentialRent(a)
}

func (multiFamily) vacancyIsExpense() bool {
	return false
}

func (s multiFamily) metrics(a *Analysis) (Metrics, error) {
	units, err := s.units(a)
	if err != nil {
		return nil, err
	}
	total := a.input.integerOrZero("total_units")
	occupied := a.input.integerOrZero("occupied_units")
	price := a.input.amountOrZero("purchase_price")

	gpr := a.safeMoney(KeyGrossPotentialRent, func() (money.Money, error) { return s.grossPotentialRent(a) })
	egi := a.safeMoney(KeyEffectiveGrossIncome, func() (money.Money, error) { return s.monthlyIncome(a) })

	occupancy, err := ratioPercentage(money.NewFromInt(int64(occupied)), money.NewFromInt(int64(total)))
	if err != nil {
		return nil, err
	}

	pricePerUnit := a.safeMoney(KeyPricePerUnit, func() (money.Money, error) { return price.DivInt(total) })
	noiPerUnit := a.safeMoney(KeyNOIPerUnit, func() (money.Money, error) { return a.NOI().DivInt(total) })

	grm := decimal.Zero
	if annualGPR := gpr.MulInt(constants.MonthsPerYear); annualGPR.IsPositive() {
		grm = a.safeDecimal(KeyGrossRentMultiplier, func() (decimal.Decimal, error) { return price.Ratio(annualGPR) })
	}

	return Metrics{
		KeyGrossPotentialRent:   gpr.Round().String(),
		KeyEffectiveGrossIncome: egi.Round().String(),
		KeyOccupancyRate:        occupancy.String(),
		KeyPricePerUnit:         pricePerUnit.Round().String(),
		KeyGrossRentMultiplier:  format.Ratio(grm),
		KeyNOIPerUnit:           noiPerUnit.Round().String(),
		KeyUnitTypeSummary:      unitTypeSummary(units),
	}, nil
}

// unitTypeSummary renders the unit mix as
// "1BR: 3/4 occupied at $1,000.00; 2BR: 5/6 occupied at $1,300.00".
func unitTypeSummary(units []UnitType) string {
	parts := make([]string, 0, len(units))
	for _, u := range units {
		parts = append(parts, fmt.Sprintf("%s: %d/%d occupied at %s", u.Type, u.Occupied, u.Count, u.Rent.Round()))
	}
	return strings.Join(parts, "; ")
}
