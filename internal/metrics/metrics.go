package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for OMDb requests.
const (
	OutcomeOK             = "ok"
	OutcomeEmpty          = "empty"
	OutcomeServerError    = "server_error"
	OutcomeHTTPError      = "http_error"
	OutcomeParseError     = "parse_error"
	OutcomeTransportError = "transport_error"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reelfinder",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "reelfinder",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.3, 0.5, 1, 2, 5},
	}, []string{"method", "route"})

	OMDbRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reelfinder",
		Name:      "omdb_requests_total",
		Help:      "Total OMDb title searches by client and outcome.",
	}, []string{"client", "outcome"})

	OMDbRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "reelfinder",
		Name:      "omdb_request_duration_seconds",
		Help:      "OMDb title search duration in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.3, 0.5, 1, 2, 5, 10},
	}, []string{"client"})

	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "reelfinder",
		Name:      "search_sessions_active",
		Help:      "Number of live search sessions.",
	})

	DeduplicatedSearchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reelfinder",
		Name:      "search_deduplicated_total",
		Help:      "Searches skipped because params and page were unchanged.",
	})
)

// Register adds every collector to reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		OMDbRequestsTotal,
		OMDbRequestDuration,
		ActiveSessions,
		DeduplicatedSearchesTotal,
	)
}

// ObserveOMDbRequest records one title search.
func ObserveOMDbRequest(client, outcome string, elapsed time.Duration) {
	OMDbRequestsTotal.WithLabelValues(client, outcome).Inc()
	OMDbRequestDuration.WithLabelValues(client).Observe(elapsed.Seconds())
}
