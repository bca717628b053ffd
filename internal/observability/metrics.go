package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hrs",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests served by the browser UI.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hrs",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	sandboxCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hrs",
			Subsystem: "sandbox",
			Name:      "calls_total",
			Help:      "Calls made to the sandbox API.",
		},
		[]string{"endpoint", "success"},
	)
	sandboxDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hrs",
			Subsystem: "sandbox",
			Name:      "call_duration_seconds",
			Help:      "Sandbox API call duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint", "success"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, sandboxCalls, sandboxDuration)
	})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

// RecordSandboxCall counts one remote call by endpoint name and outcome.
func RecordSandboxCall(endpoint string, duration time.Duration, success bool) {
	RegisterMetrics()
	successLabel := strconv.FormatBool(success)
	sandboxCalls.WithLabelValues(endpoint, successLabel).Inc()
	sandboxDuration.WithLabelValues(endpoint, successLabel).Observe(duration.Seconds())
}
