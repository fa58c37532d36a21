package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LogRequests counts eth_getLogs requests per signature set and event kind.
	LogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_log_requests_total",
			Help: "Total number of eth_getLogs requests",
		},
		[]string{"set", "kind"},
	)

	// LogRequestErrors counts failed eth_getLogs attempts, retries included.
	LogRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_log_request_errors_total",
			Help: "Total number of failed eth_getLogs attempts",
		},
		[]string{"set", "kind"},
	)

	// FetchCycles counts completed fetch cycles by result (success, error).
	FetchCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_fetch_cycles_total",
			Help: "Total number of activity fetch cycles",
		},
		[]string{"set", "result"},
	)

	// FetchDuration tracks fetch cycle latency.
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "activity_fetch_duration_seconds",
			Help:    "Activity fetch cycle latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"set"},
	)

	// DecodeErrors counts logs that failed normalization.
	DecodeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_decode_errors_total",
			Help: "Total number of logs that failed normalization",
		},
		[]string{"set", "kind"},
	)

	// Events is the size of the last merged activity sequence.
	Events = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "activity_events",
			Help: "Number of events in the last merged activity sequence",
		},
		[]string{"set"},
	)
)

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
