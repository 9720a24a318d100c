// Package metrics instruments Kernel runs with Prometheus collectors.
// Unlike an HTTP service, the CLI harness has no scrape endpoint, so
// Dump renders the registry's current state as plain text instead of
// serving it over /metrics.
package metrics

import (
	"bytes"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/expfmt"
)

// Collector encapsulates the Prometheus instrumentation for one
// scheduler-cli process. A nil *Collector is safe to call methods on —
// every recorder is a no-op so instrumentation can be wired
// unconditionally.
type Collector struct {
	registry *prometheus.Registry

	generateDuration *prometheus.HistogramVec
	generateTotal    *prometheus.CounterVec
	eventsPlaced     *prometheus.HistogramVec
	warningsRaised   *prometheus.HistogramVec
	overallScore     *prometheus.GaugeVec
}

// New registers the Kernel's core collectors.
func New() *Collector {
	registry := prometheus.NewRegistry()

	generateDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kernel_generate_duration_seconds",
		Help:    "Duration of Kernel.Generate runs",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})

	generateTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kernel_generate_total",
		Help: "Total number of Kernel.Generate runs",
	}, []string{"result"})

	eventsPlaced := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kernel_events_placed",
		Help:    "Number of events placed per Generate run",
		Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500},
	}, []string{"season"})

	warningsRaised := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kernel_warnings_raised",
		Help:    "Number of non-fatal warnings raised per Generate run",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
	}, []string{"season"})

	overallScore := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "kernel_evaluate_overall_score",
		Help: "Most recent Evaluate overall score per season",
	}, []string{"season"})

	registry.MustRegister(generateDuration, generateTotal, eventsPlaced, warningsRaised, overallScore)

	return &Collector{
		registry:         registry,
		generateDuration: generateDuration,
		generateTotal:    generateTotal,
		eventsPlaced:     eventsPlaced,
		warningsRaised:   warningsRaised,
		overallScore:     overallScore,
	}
}

// RecordGenerate records one Generate run's outcome.
func (c *Collector) RecordGenerate(seasonID string, duration time.Duration, eventCount, warningCount int, cancelled bool) {
	if c == nil {
		return
	}
	result := "ok"
	if cancelled {
		result = "cancelled"
	}
	c.generateDuration.WithLabelValues(result).Observe(duration.Seconds())
	c.generateTotal.WithLabelValues(result).Inc()
	c.eventsPlaced.WithLabelValues(seasonID).Observe(float64(eventCount))
	c.warningsRaised.WithLabelValues(seasonID).Observe(float64(warningCount))
}

// RecordEvaluate records the overall score from an Evaluate call.
func (c *Collector) RecordEvaluate(seasonID string, overallScore int) {
	if c == nil {
		return
	}
	c.overallScore.WithLabelValues(seasonID).Set(float64(overallScore))
}

// Dump renders the registry in Prometheus text exposition format.
func (c *Collector) Dump() (string, error) {
	if c == nil {
		return "", nil
	}
	families, err := c.registry.Gather()
	if err != nil {
		return "", fmt.Errorf("gather metrics: %w", err)
	}
	buf := &bytes.Buffer{}
	encoder := expfmt.NewEncoder(buf, expfmt.FmtText)
	for _, mf := range families {
		if err := encoder.Encode(mf); err != nil {
			return "", fmt.Errorf("encode metric family %s: %w", mf.GetName(), err)
		}
	}
	return buf.String(), nil
}
