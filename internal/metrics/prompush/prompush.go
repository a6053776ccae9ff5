// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package. Batch runs have no scrape endpoint to expose, so
// collected metrics are pushed once per run instead. All Prometheus-specific
// dependencies stay inside this package; the pipeline depends only on
// metrics.Backend.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"energyetl/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string
	jobName    string
	reg        *prometheus.Registry

	stageCounter  *prometheus.CounterVec
	stageDuration *prometheus.SummaryVec
	rowCounter    *prometheus.CounterVec
}

// NewBackend constructs a Pushgateway backend. jobName becomes the
// Pushgateway "job" grouping; gatewayURL is the server base URL.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "energy_etl"
	}

	reg := prometheus.NewRegistry()

	stageCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "energy_etl_stage_total",
			Help: "Pipeline stage executions, partitioned by dataset, stage, and status.",
		},
		[]string{"dataset", "stage", "status"},
	)
	stageDuration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "energy_etl_stage_duration_seconds",
			Help:       "Pipeline stage durations in seconds.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"dataset", "stage", "status"},
	)
	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "energy_etl_rows_total",
			Help: "Row-level counts per dataset and kind (in, out, rejected, ...).",
		},
		[]string{"dataset", "kind"},
	)

	for _, c := range []prometheus.Collector{stageCounter, stageDuration, rowCounter} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register: %w", err)
		}
	}

	return &Backend{
		gatewayURL:    gatewayURL,
		jobName:       jobName,
		reg:           reg,
		stageCounter:  stageCounter,
		stageDuration: stageDuration,
		rowCounter:    rowCounter,
	}, nil
}

// IncCounter implements metrics.Backend.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "energy_etl_stage_total":
		b.stageCounter.With(prometheus.Labels{
			"dataset": labels["dataset"],
			"stage":   labels["stage"],
			"status":  labels["status"],
		}).Add(delta)
	case "energy_etl_rows_total":
		b.rowCounter.With(prometheus.Labels{
			"dataset": labels["dataset"],
			"kind":    labels["kind"],
		}).Add(delta)
	}
}

// ObserveDuration implements metrics.Backend.
func (b *Backend) ObserveDuration(name string, seconds float64, labels metrics.Labels) {
	if name != "energy_etl_stage_duration_seconds" {
		return
	}
	b.stageDuration.With(prometheus.Labels{
		"dataset": labels["dataset"],
		"stage":   labels["stage"],
		"status":  labels["status"],
	}).Observe(seconds)
}

// Flush pushes all collected metrics to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).Gatherer(b.reg).Push()
}
