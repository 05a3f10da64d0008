package transport

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

// requestsTotal counts API calls.
// Labels:
//   - method: HTTP method
//   - status: response status code, or "network" / "setup" when there was none
var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of backend API requests, by method and outcome.",
	},
	[]string{"method", "status"},
)

// requestDuration measures round-trip time of calls that got a response.
var requestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of backend API requests that received a response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)
