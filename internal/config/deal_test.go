package config

import (
	"testing"

	"github.com/iwvelando/property-analyzer/internal/analysis"
)

func TestLoadDealsSingle(t *testing.T) {
	path := writeFile(t, "deal.yaml", `
analysis_type: LTR
purchase_price: 200000
monthly_rent: "$1,800"
property_taxes: 250
insurance: 100
has_balloon_payment: false
loan1_loan_amount: 160000
loan1_loan_interest_rate: 4.5
loan1_loan_term: 360
loan1_loan_down_payment: 40000
loan1_loan_closing_costs: 3000
`)

	deals, err := LoadDeals(path)
	if err != nil {
		t.Fatalf("LoadDeals() error = %v", err)
	}
	if len(deals) != 1 {
		t.Fatalf("LoadDeals() returned %d deals, expected 1", len(deals))
	}

	a, err := analysis.New(deals[0])
	if err != nil {
		t.Fatalf("analysis.New() error = %v", err)
	}
	if got := a.LoanPayments().String(); got != "$810.70" {
		t.Errorf("LoanPayments() = %s, expected $810.70", got)
	}
}

func TestLoadDealsSequenceAndDates(t *testing.T) {
	path := writeFile(t, "deals.yaml", `
- analysis_type: LTR
  purchase_price: 200000
  balloon_due_date: 2030-06-01
- analysis_type: Multi-Family
  unit_types:
    - type: 1BR
      count: 2
      occupied: 1
      rent: 900
`)

	deals, err := LoadDeals(path)
	if err != nil {
		t.Fatalf("LoadDeals() error = %v", err)
	}
	if len(deals) != 2 {
		t.Fatalf("LoadDeals() returned %d deals, expected 2", len(deals))
	}
	if due, ok := deals[0]["balloon_due_date"].(string); !ok || due != "2030-06-01" {
		t.Errorf("balloon_due_date = %#v, expected the ISO string", deals[0]["balloon_due_date"])
	}

	units, err := analysis.ParseUnitTypes(deals[1]["unit_types"])
	if err != nil {
		t.Fatalf("ParseUnitTypes() error = %v", err)
	}
	if len(units) != 1 || units[0].Count != 2 || units[0].Rent.String() != "$900.00" {
		t.Errorf("ParseUnitTypes() = %+v", units)
	}
}

func TestParseDealsJSON(t *testing.T) {
	deals, err := ParseDeals([]byte(`{"analysis_type": "BRRRR", "purchase_price": 100000}`))
	if err != nil {
		t.Fatalf("ParseDeals() error = %v", err)
	}
	if deals[0]["analysis_type"] != "BRRRR" {
		t.Errorf("analysis_type = %v", deals[0]["analysis_type"])
	}
}

func TestParseDealsErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"Empty", ""},
		{"Scalar", "42"},
		{"Sequence of scalars", "- 1\n- 2\n"},
		{"Malformed", "{unclosed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDeals([]byte(tt.raw)); err == nil {
				t.Errorf("ParseDeals(%q) expected error", tt.raw)
			}
		})
	}

	if _, err := LoadDeals("does-not-exist.yaml"); err == nil {
		t.Errorf("LoadDeals() expected error for a missing file")
	}
}
