// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_requests_total",
			Help: "Total number of handled requests by response status",
		},
		[]string{"status"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blog_generation_duration_seconds",
			Help:    "Duration of model invocations in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160, 300},
		},
		[]string{"model_id", "outcome"},
	)

	GenerationTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_generation_tokens_total",
			Help: "Tokens reported by the model, split into prompt and generation",
		},
		[]string{"model_id", "kind"},
	)

	StorageWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_storage_writes_total",
			Help: "Artifact writes by outcome",
		},
		[]string{"outcome"},
	)

	SideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_side_effect_failures_total",
			Help: "Failures of best-effort steps (index, notifications) after a successful write",
		},
		[]string{"component"},
	)
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeEmpty   = "empty"
)
