// Package metrics holds the Prometheus collectors for analysis runs.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the analysis collectors on a private registry.
//
// Metrics:
//   - taskanalyzer_analyses_total{source} - completed analyses by provenance
//   - taskanalyzer_remote_failures_total - scoring service failures that fell back to local
//   - taskanalyzer_remote_duration_seconds - latency of the scoring exchange
//   - taskanalyzer_tasks_scored_total{source} - tasks scored by provenance
type Metrics struct {
	Registry *prometheus.Registry

	AnalysesTotal       *prometheus.CounterVec
	RemoteFailuresTotal prometheus.Counter
	RemoteDuration      prometheus.Histogram
	TasksScoredTotal    *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		AnalysesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskanalyzer_analyses_total",
				Help: "Total number of completed analyses",
			},
			[]string{"source"}, // "remote" or "local"
		),
		RemoteFailuresTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "taskanalyzer_remote_failures_total",
			Help: "Total number of scoring service failures",
		}),
		RemoteDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "taskanalyzer_remote_duration_seconds",
			Help:    "Duration of the scoring service exchange in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		TasksScoredTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskanalyzer_tasks_scored_total",
				Help: "Total number of tasks scored",
			},
			[]string{"source"},
		),
	}
}

// WriteTextfile dumps the registry in the text exposition format,
// for pickup by a node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
