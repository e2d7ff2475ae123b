package gateway

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded per upstream call
const (
	outcomeSuccess  = "success"
	outcomeNetwork  = "network_error"
	outcomeServer   = "server_error"
	outcomeNotFound = "not_found"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cms",
		Subsystem: "gateway",
		Name:      "requests_total",
		Help:      "Total number of backend calls broken down by resource, method and outcome.",
	}, []string{"resource", "method", "outcome"})

	upstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cms",
		Subsystem: "gateway",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution for backend calls.",
		Buckets: []float64{
			0.01, 0.025, 0.05, 0.1,
			0.25, 0.5, 1, 2.5,
			5, 10, 30,
		},
	}, []string{"resource", "method"})
)

func recordRequest(resource, method, outcome string, latency time.Duration) {
	upstreamRequests.With(prometheus.Labels{
		"resource": resource,
		"method":   method,
		"outcome":  outcome,
	}).Inc()
	upstreamLatency.With(prometheus.Labels{
		"resource": resource,
		"method":   method,
	}).Observe(latency.Seconds())
}
