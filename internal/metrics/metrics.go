// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptgen_generations_total",
		Help: "Completion requests sent to the provider, by outcome.",
	}, []string{"provider", "outcome"})

	GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "promptgen_generation_duration_seconds",
		Help:    "Time from sending the completion request to having a result.",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"provider"})

	RejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptgen_generations_rejected_total",
		Help: "Generate actions refused before any provider call.",
	}, []string{"reason"})
)
