// Package metrics counts parser activity with Prometheus collectors on a
// private registry and can dump them in the text exposition format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/agbru/gctrace/internal/gctrace"
)

const namespace = "gctrace"

// ParseMetrics holds the counters for one gctrace run.
type ParseMetrics struct {
	registry *prometheus.Registry

	lines    *prometheus.CounterVec
	skipped  *prometheus.CounterVec
	records  *prometheus.CounterVec
	forced   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewParseMetrics creates the collectors and registers them, together with
// the Go runtime collector, on a fresh registry.
func NewParseMetrics() *ParseMetrics {
	m := &ParseMetrics{
		registry: prometheus.NewRegistry(),
		lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_total",
			Help:      "Input lines read, matching or not.",
		}, []string{"source"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_skipped_total",
			Help:      "Input lines that did not match the trace grammar.",
		}, []string{"source"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "GC cycle records produced.",
		}, []string{"source"}),
		forced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forced_omitted_total",
			Help:      "Forced GC cycles dropped by the forced-cycle filter.",
		}, []string{"source"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Wall time spent parsing one input.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"source"}),
	}
	m.registry.MustRegister(
		m.lines, m.skipped, m.records, m.forced, m.duration,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry returns the registry holding all collectors.
func (m *ParseMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observer returns a gctrace.Observer that counts events for source.
func (m *ParseMetrics) Observer(source string) gctrace.Observer {
	return &sourceObserver{
		lines:   m.lines.WithLabelValues(source),
		skipped: m.skipped.WithLabelValues(source),
		records: m.records.WithLabelValues(source),
		forced:  m.forced.WithLabelValues(source),
	}
}

// ObserveDuration records how long parsing source took.
func (m *ParseMetrics) ObserveDuration(source string, d time.Duration) {
	m.duration.WithLabelValues(source).Observe(d.Seconds())
}

// WriteTextfile atomically writes all metrics to path in the Prometheus text
// format, suitable for the node exporter's textfile collector.
func (m *ParseMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

type sourceObserver struct {
	lines, skipped, records, forced prometheus.Counter
}

func (o *sourceObserver) LineSkipped(string) {
	o.lines.Inc()
	o.skipped.Inc()
}

func (o *sourceObserver) RecordParsed(gctrace.Record) {
	o.lines.Inc()
	o.records.Inc()
}

func (o *sourceObserver) ForcedOmitted(gctrace.Record) {
	o.lines.Inc()
	o.forced.Inc()
}
