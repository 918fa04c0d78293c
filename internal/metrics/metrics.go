// Package metrics records Prometheus metrics for item analysis and serves
// them over HTTP.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names.
const (
	MetricNameAnalysesTotal      = "item_ocr_analyses_total"
	MetricNameRecognitionSeconds = "item_ocr_recognition_duration_seconds"
	MetricNameOptionsPerItem     = "item_ocr_options_per_item"
)

// Outcome label values.
const (
	LabelOutcome = "outcome"

	OutcomeSuccess          = "success"
	OutcomeRecognitionError = "recognition_error"
	OutcomeInvalidInput     = "invalid_input"
)

var (
	recognitionBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30}
	optionBuckets      = []float64{0, 1, 2, 3, 4, 5, 6, 8, 10}
)

// Metrics holds the collectors on their own registry.
//
// All methods are safe on a nil *Metrics, which records nothing.
type Metrics struct {
	Registry           *prometheus.Registry
	Analyses           *prometheus.CounterVec
	RecognitionSeconds prometheus.Histogram
	OptionsPerItem     prometheus.Histogram
}

// New creates the collectors on a fresh registry, together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Analyses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricNameAnalysesTotal,
				Help: "Total number of item analyses by outcome",
			},
			[]string{LabelOutcome},
		),
		RecognitionSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricNameRecognitionSeconds,
				Help:    "Time spent in text recognition",
				Buckets: recognitionBuckets,
			},
		),
		OptionsPerItem: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricNameOptionsPerItem,
				Help:    "Number of affix options parsed per item",
				Buckets: optionBuckets,
			},
		),
	}
}

// ObserveAnalysis counts one analysis with the given outcome.
func (m *Metrics) ObserveAnalysis(outcome string) {
	if m == nil {
		return
	}
	m.Analyses.WithLabelValues(outcome).Inc()
}

// ObserveRecognition records how long one recognition took.
func (m *Metrics) ObserveRecognition(d time.Duration) {
	if m == nil {
		return
	}
	m.RecognitionSeconds.Observe(d.Seconds())
}

// ObserveOptions records the option count of one parsed item.
func (m *Metrics) ObserveOptions(n int) {
	if m == nil {
		return
	}
	m.OptionsPerItem.Observe(float64(n))
}
