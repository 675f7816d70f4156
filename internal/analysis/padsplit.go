package analysis

import "github.com/iwvelando/property-analyzer/pkg/money"

var padSplitCostKeys = []string{"utilities", "internet", "cleaning", "pest_control", "landscaping"}

// padSplitExpenses returns the monthly co-living costs: shared services plus
// the platform fee charged on rent.
func (a *Analysis) padSplitExpenses() (money.Money, error) {
	rent, err := a.input.amount("monthly_rent")
	if err != nil {
		return money.Zero(), err
	}
	return a.padSplitExpensesOn(rent)
}

// padSplitExpensesOn is padSplitExpenses with the platform fee taken on rent.
func (a *Analysis) padSplitExpensesOn(rent money.Money) (money.Money, error) {
	total := money.Zero()
	for _, key := range padSplitCostKeys {
		cost, err := a.input.amount(key)
		if err != nil {
			return money.Zero(), err
		}
		total = total.Add(cost)
	}
	platform, err := a.input.percent("padsplit_platform_percentage")
	if err != nil {
		return money.Zero(), err
	}
	return total.Add(rent.ApplyPercentage(platform)), nil
}
