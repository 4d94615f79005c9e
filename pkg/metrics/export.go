package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess        = "success"
	OutcomeNotFound       = "not_found"
	OutcomeInvalid        = "invalid"
	OutcomeNotImplemented = "not_implemented"
	OutcomeError          = "error"
)

// ExportMetrics records render latency and request outcomes per format.
// A nil *ExportMetrics is valid and records nothing.
type ExportMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewExportMetrics registers the export metrics on the provided registerer.
func NewExportMetrics(reg prometheus.Registerer) *ExportMetrics {
	if reg == nil {
		return &ExportMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "export_render_duration_seconds",
		Help:    "Time spent rendering export artifacts.",
		Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"format"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "export_requests_total",
		Help: "Export requests by format and outcome.",
	}, []string{"format", "outcome"})
	reg.MustRegister(duration, requests)
	return &ExportMetrics{
		duration: duration,
		requests: requests,
	}
}

// ObserveRender records how long a renderer took for format.
func (m *ExportMetrics) ObserveRender(format string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(format)).Observe(d.Seconds())
}

// IncRequest counts one export request.
func (m *ExportMetrics) IncRequest(format, outcome string) {
	if m == nil || m.requests == nil {
		return
	}
	m.requests.WithLabelValues(normalizeLabel(format), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
