// Package testutil provides deal-input fixtures shared by tests.
package testutil

// Deal is a flat deal input as accepted by the analysis engine.
type Deal = map[string]interface{}

// LTRDeal returns a financed long-term rental: $200,000 purchase with a
// $160,000 loan at 4.5% over 30 years.
func LTRDeal() Deal {
	return Deal{
		"analysis_type":             "LTR",
		"purchase_price":            200000,
		"monthly_rent":              1800,
		"property_taxes":            200,
		"insurance":                 100,
		"hoa_coa_coop":              0,
		"management_fee_percentage": 8,
		"capex_percentage":          5,
		"vacancy_percentage":        5,
		"repairs_percentage":        5,
		"loan1_loan_amount":         160000,
		"loan1_loan_interest_rate":  4.5,
		"loan1_loan_term":           360,
		"loan1_loan_down_payment":   40000,
		"loan1_loan_closing_costs":  3000,
	}
}

// PadSplitLTRDeal returns LTRDeal converted to a furnished co-living rental.
func PadSplitLTRDeal() Deal {
	return With(LTRDeal(), Deal{
		"analysis_type":                "PadSplit LTR",
		"monthly_rent":                 3200,
		"utilities":                    250,
		"internet":                     80,
		"cleaning":                     120,
		"pest_control":                 30,
		"landscaping":                  50,
		"padsplit_platform_percentage": 12,
		"furnishing_costs":             8000,
	})
}

// BalloonLTRDeal returns LTRDeal with a balloon loan due on dueDate
// (YYYY-MM-DD) and refinanced at 6% over 30 years.
func BalloonLTRDeal(dueDate string) Deal {
	return With(LTRDeal(), Deal{
		"has_balloon_payment":                  true,
		"balloon_due_date":                     dueDate,
		"balloon_refinance_ltv_percentage":     75,
		"balloon_refinance_loan_amount":        150000,
		"balloon_refinance_loan_interest_rate": 6,
		"balloon_refinance_loan_term":          360,
	})
}

// BRRRRDeal returns a distressed purchase renovated over 6 months on a
// 12% interest-only loan and refinanced at 75% of the after-repair value.
func BRRRRDeal() Deal {
	return Deal{
		"analysis_type":                "BRRRR",
		"purchase_price":               120000,
		"after_repair_value":           200000,
		"renovation_costs":             30000,
		"renovation_duration":          6,
		"monthly_rent":                 1800,
		"property_taxes":               150,
		"insurance":                    100,
		"management_fee_percentage":    8,
		"capex_percentage":             5,
		"vacancy_percentage":           5,
		"repairs_percentage":           5,
		"initial_loan_amount":          100000,
		"initial_loan_interest_rate":   12,
		"initial_loan_term":            12,
		"initial_interest_only":        true,
		"initial_loan_down_payment":    20000,
		"initial_loan_closing_costs":   2000,
		"refinance_loan_amount":        150000,
		"refinance_loan_interest_rate": 7,
		"refinance_loan_term":          360,
		"refinance_loan_closing_costs": 3000,
		"refinance_ltv_percentage":     75,
	}
}

// LeaseOptionDeal returns a two-year lease option with a $5,000 option fee.
func LeaseOptionDeal() Deal {
	return Deal{
		"analysis_type":             "Lease Option",
		"purchase_price":            180000,
		"strike_price":              200000,
		"option_consideration_fee":  5000,
		"option_term_months":        24,
		"monthly_rent_credit":       200,
		"monthly_rent":              1600,
		"property_taxes":            150,
		"insurance":                 80,
		"management_fee_percentage": 8,
		"repairs_percentage":        5,
	}
}

// MultiFamilyDeal returns a ten-unit building with two unit types.
func MultiFamilyDeal() Deal {
	return Deal{
		"analysis_type":             "Multi-Family",
		"purchase_price":            1200000,
		"total_units":               10,
		"occupied_units":            8,
		"floors":                    3,
		"unit_types":                `[{"type":"1BR","count":4,"occupied":3,"square_footage":650,"rent":1000},{"type":"2BR","count":6,"occupied":5,"square_footage":900,"rent":1300}]`,
		"property_taxes":            1500,
		"insurance":                 600,
		"management_fee_percentage": 6,
		"capex_percentage":          5,
		"repairs_percentage":        5,
		"other_income":              200,
		"loan1_loan_amount":         900000,
		"loan1_loan_interest_rate":  6.5,
		"loan1_loan_term":           360,
		"loan1_loan_down_payment":   300000,
		"loan1_loan_closing_costs":  15000,
	}
}

// With returns a copy of deal with overrides applied. A nil override value
// removes the key.
func With(deal Deal, overrides Deal) Deal {
	out := make(Deal, len(deal)+len(overrides))
	for k, v := range deal {
		out[k] = v
	}
	for k, v := range overrides {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}
