// Package telemetry exports Prometheus metrics for the analysis engine.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysesTotal counts analyses constructed, by analysis type and outcome.
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_analyzer_analyses_total",
			Help: "Number of analyses constructed",
		},
		[]string{"analysis_type", "status"},
	)

	// CalculationFallbacks counts metrics replaced by a zero value after a
	// calculation failure.
	CalculationFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_analyzer_calculation_fallbacks_total",
			Help: "Metric calculations that failed and fell back to a default",
		},
		[]string{"metric"},
	)

	// RegistryEntries reports the number of analyses held by the metrics registry.
	RegistryEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "property_analyzer_registry_entries",
			Help: "Analyses currently held by the metrics registry",
		},
	)

	// RegistryEvictions counts registry entries dropped, by reason.
	RegistryEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_analyzer_registry_evictions_total",
			Help: "Registry entries evicted",
		},
		[]string{"reason"},
	)
)

// Analysis outcome labels.
const (
	StatusOK      = "ok"
	StatusInvalid = "invalid"
)

// Eviction reason labels.
const (
	EvictionExpired  = "expired"
	EvictionCapacity = "capacity"
)

// RecordAnalysis counts one constructed analysis.
func RecordAnalysis(analysisType, status string) {
	AnalysesTotal.WithLabelValues(analysisType, status).Inc()
}

// RecordFallback counts one metric that fell back to its default.
func RecordFallback(metric string) {
	CalculationFallbacks.WithLabelValues(metric).Inc()
}
