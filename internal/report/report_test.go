package report

import (
	"sync"
	"testing"

	"github.com/iwvelando/property-analyzer/internal/analysis"
	"github.com/iwvelando/property-analyzer/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	a, err := analysis.New(testutil.LTRDeal())
	require.NoError(t, err)

	r := Build(a)
	assert.Equal(t, a.ID(), r.ID)
	assert.Equal(t, "LTR", r.AnalysisType)

	value, ok := r.Metric(analysis.KeyTotalCashInvested)
	require.True(t, ok)
	assert.Equal(t, "$43,000.00", value)

	require.GreaterOrEqual(t, len(r.Metrics), len(analysis.CoreMetricKeys))
	for i, key := range analysis.CoreMetricKeys {
		assert.Equal(t, key, r.Metrics[i].Key)
	}

	for i := 1; i < len(r.Inputs); i++ {
		assert.Less(t, r.Inputs[i-1].Key, r.Inputs[i].Key, "inputs should be sorted")
	}
}

func TestBuildTypeSpecificMetricsFollowCore(t *testing.T) {
	a, err := analysis.New(testutil.MultiFamilyDeal())
	require.NoError(t, err)

	r := Build(a)
	core := len(analysis.CoreMetricKeys)
	require.Greater(t, len(r.Metrics), core)
	assert.Equal(t, analysis.KeyEffectiveGrossIncome, r.Metrics[core].Key)

	value, ok := r.Metric(analysis.KeyOccupancyRate)
	require.True(t, ok)
	assert.Equal(t, "80.00%", value)
}

func TestAugment(t *testing.T) {
	input := map[string]interface{}{"purchase_price": 1}
	metrics := analysis.Metrics{"noi": "$1.00"}

	out := Augment(input, metrics)
	metrics["noi"] = "changed"

	assert.Equal(t, 1, out["purchase_price"])
	assert.Equal(t, map[string]string{"noi": "$1.00"}, out[MetricsKey])
	_, mutated := input[MetricsKey]
	assert.False(t, mutated, "Augment must not modify its input")
}

func TestLabel(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"monthly_cash_flow", "Monthly Cash Flow"},
		{"noi", "NOI"},
		{"dscr", "DSCR"},
		{"hoa_coa_coop", "HOA COA Coop"},
		{"capex_percentage", "CapEx Percentage"},
		{"balloon_refinance_ltv_percentage", "Balloon Refinance LTV Percentage"},
	}
	for _, tt := range tests {
		if got := Label(tt.key); got != tt.expected {
			t.Errorf("Label(%q) = %q, expected %q", tt.key, got, tt.expected)
		}
	}
}

func TestFormatInput(t *testing.T) {
	tests := []struct {
		key      string
		value    interface{}
		expected string
	}{
		{"purchase_price", 200000, "$200,000.00"},
		{"monthly_rent", "1800", "$1,800.00"},
		{"vacancy_percentage", 5, "5.00%"},
		{"loan1_loan_interest_rate", 4.5, "4.50%"},
		{"loan1_loan_term", 360, "360"},
		{"renovation_duration", 6, "6"},
		{"total_units", 10, "10"},
		{"analysis_type", "LTR", "LTR"},
		{"has_balloon_payment", true, "Yes"},
		{"balloon_due_date", "2027-01-01", "2027-01-01"},
		{"notes", nil, ""},
	}
	for _, tt := range tests {
		if got := FormatInput(tt.key, tt.value); got != tt.expected {
			t.Errorf("FormatInput(%q, %v) = %q, expected %q", tt.key, tt.value, got, tt.expected)
		}
	}
}

func TestConcurrentProjection(t *testing.T) {
	a, err := analysis.New(testutil.MultiFamilyDeal())
	require.NoError(t, err)
	input, metrics := a.Input(), a.Metrics()
	expected := FromParts(a.ID(), a.Type().Name(), input, metrics)

	var wg sync.WaitGroup
	mismatches := make(chan string, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if got := Label("monthly_cash_flow"); got != "Monthly Cash Flow" {
					mismatches <- got
					return
				}
				r := FromParts(a.ID(), a.Type().Name(), input, metrics)
				if len(r.Metrics) != len(expected.Metrics) || r.Metrics[0] != expected.Metrics[0] {
					mismatches <- r.Metrics[0].Label
					return
				}
			}
		}()
	}
	wg.Wait()
	close(mismatches)

	for got := range mismatches {
		t.Errorf("concurrent projection produced %q", got)
	}
}
