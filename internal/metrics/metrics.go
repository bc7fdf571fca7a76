// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package metrics records build outcomes as Prometheus metrics.
//
// The generator is not a long-running service, so metrics are exported by
// writing a node_exporter textfile after each build rather than by serving
// a scrape endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"grimm.is/supportmatrix/internal/errors"
)

// Metrics holds the build metrics and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	Builds       *prometheus.CounterVec
	Duration     prometheus.Histogram
	Documents    prometheus.Gauge
	Stale        prometheus.Gauge
	LastSuccess  prometheus.Gauge
	FailureKinds *prometheus.CounterVec
}

// New creates the build metrics on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "support_matrix_builds_total",
			Help: "Total number of project builds by result",
		}, []string{"result"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "support_matrix_build_duration_seconds",
			Help:    "Duration of project builds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		Documents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "support_matrix_documents",
			Help: "Number of documents written by the last successful build",
		}),
		Stale: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "support_matrix_stale_outputs",
			Help: "Number of out of date outputs found by the last check",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "support_matrix_last_success_timestamp_seconds",
			Help: "Unix time of the last successful build",
		}),
		FailureKinds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "support_matrix_build_failures_total",
			Help: "Total number of failed builds by error kind",
		}, []string{"kind"}),
	}

	m.registry.MustRegister(m.Builds, m.Duration, m.Documents, m.Stale, m.LastSuccess, m.FailureKinds)
	return m
}

// Registry returns the registry holding the build metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveBuild records one build attempt.
func (m *Metrics) ObserveBuild(started time.Time, documents int, err error) {
	m.Duration.Observe(time.Since(started).Seconds())
	if err != nil {
		m.Builds.WithLabelValues("failure").Inc()
		m.FailureKinds.WithLabelValues(errors.GetKind(err).String()).Inc()
		return
	}
	m.Builds.WithLabelValues("success").Inc()
	m.Documents.Set(float64(documents))
	m.LastSuccess.SetToCurrentTime()
}

// ObserveCheck records the number of stale outputs found by a check.
func (m *Metrics) ObserveCheck(stale int) {
	m.Stale.Set(float64(stale))
}

// WriteTextfile atomically writes the metrics in the text exposition format
// for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Attr(errors.Wrap(err, errors.KindIO, "failed to write metrics textfile"), "path", path)
	}
	return nil
}
