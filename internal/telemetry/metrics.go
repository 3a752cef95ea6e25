package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the harness's Prometheus metrics.
type Metrics struct {
	SnippetsMeasured    prometheus.Counter
	SnippetFailures     prometheus.Counter
	CounterPasses       prometheus.Counter
	CalibrationDuration prometheus.Histogram
}

// NewMetrics creates and registers the harness metrics. A nil registerer
// uses the default registry; tests pass their own.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		SnippetsMeasured: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "snippets_measured_total",
			Help: "Total number of snippets measured",
		}),
		SnippetFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "snippet_failures_total",
			Help: "Total number of snippet executions that returned an error",
		}),
		CounterPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "counter_passes_total",
			Help: "Total number of counter aggregation passes",
		}),
		CalibrationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "calibration_duration_seconds",
			Help:    "Wall time spent calibrating a single snippet",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.SnippetsMeasured,
		m.SnippetFailures,
		m.CounterPasses,
		m.CalibrationDuration,
	)
	return m
}

// StartMetricsServer exposes /metrics on the given port, blocking.
func StartMetricsServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
