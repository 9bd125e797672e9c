// Package metrics exposes Prometheus metrics for resolution runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector registers and records all resolution metrics.
//
// Metrics:
//   - neuroconf_resolutions_total: resolution runs by outcome
//   - neuroconf_resolution_duration_seconds: full pipeline duration
//   - neuroconf_datasets_built_total: descriptors built successfully
//   - neuroconf_datasets_skipped_total: dataset entries skipped for validation errors
//   - neuroconf_includes_expanded_total: include directives expanded, by kind
type Collector struct {
	registry *prometheus.Registry

	resolutionsTotal   *prometheus.CounterVec
	resolutionDuration prometheus.Histogram
	datasetsBuiltTotal prometheus.Counter
	datasetsSkipped    prometheus.Counter
	includesExpanded   *prometheus.CounterVec
}

// Outcome labels for resolutions_total.
const (
	OutcomeOK      = "ok"
	OutcomePartial = "partial"
	OutcomeAborted = "aborted"
)

// NewCollector creates a collector and registers its metrics with the
// provided registry. If registry is nil a fresh one is created.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		resolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "neuroconf",
				Name:      "resolutions_total",
				Help:      "Total number of resolution runs by outcome",
			},
			[]string{"outcome"},
		),
		resolutionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "neuroconf",
				Name:      "resolution_duration_seconds",
				Help:      "Duration of one full resolution run in seconds",
				// Resolution is filesystem-bound and small; sub-second buckets.
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
		),
		datasetsBuiltTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "neuroconf",
				Name:      "datasets_built_total",
				Help:      "Total number of dataset descriptors built",
			},
		),
		datasetsSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "neuroconf",
				Name:      "datasets_skipped_total",
				Help:      "Total number of dataset entries skipped for validation errors",
			},
		),
		includesExpanded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "neuroconf",
				Name:      "includes_expanded_total",
				Help:      "Total number of include directives expanded, by kind",
			},
			[]string{"kind"},
		),
	}

	registry.MustRegister(
		c.resolutionsTotal,
		c.resolutionDuration,
		c.datasetsBuiltTotal,
		c.datasetsSkipped,
		c.includesExpanded,
	)
	return c
}

// Registry returns the underlying Prometheus registry for exposition.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordResolution records the outcome of one resolution run.
func (c *Collector) RecordResolution(outcome string, duration time.Duration, built, skipped int) {
	c.resolutionsTotal.WithLabelValues(outcome).Inc()
	c.resolutionDuration.Observe(duration.Seconds())
	c.datasetsBuiltTotal.Add(float64(built))
	c.datasetsSkipped.Add(float64(skipped))
}

// RecordIncludes records the directive counts of one resolution run.
func (c *Collector) RecordIncludes(single, glob, opaque int) {
	c.includesExpanded.WithLabelValues("single").Add(float64(single))
	c.includesExpanded.WithLabelValues("glob").Add(float64(glob))
	c.includesExpanded.WithLabelValues("opaque").Add(float64(opaque))
}
