package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "resumecraft"

var (
	BackendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Requests sent to the resume backend.",
	}, []string{"code", "method"})

	BackendDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Latency of resume backend requests.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"code", "method"})

	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Exported artifacts by format and result.",
	}, []string{"format", "result"})

	DebouncedRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "debounced_runs_total",
		Help:      "Outcomes of debounced tasks (autosave, auto-compile).",
	}, []string{"task", "result"})

	ATSScores = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ats_score",
		Help:      "Distribution of ATS scores returned by the backend.",
		Buckets:   []float64{20, 40, 60, 80, 100},
	})
)

// InstrumentTransport counts and times every round trip made through next.
func InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperCounter(BackendRequests,
		promhttp.InstrumentRoundTripperDuration(BackendDuration, next))
}

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }
