// Package observability holds prometheus collectors for calls made to the activities API.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OutcomeTransportError labels requests that never produced an HTTP status.
const OutcomeTransportError = "transport_error"

var (
	requestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activities_console",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Number of requests sent to the activities API, labeled by operation and outcome.",
	}, []string{"operation", "outcome"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "activities_console",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "Round-trip latency of activities API requests.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	}, []string{"operation"})

	sessionGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "activities_console",
		Subsystem: "session",
		Name:      "authenticated",
		Help:      "1 while the console holds a session token, 0 otherwise.",
	})
)

func init() {
	prometheus.MustRegister(requestCounter, requestDuration, sessionGauge)
}

// RecordRequest counts a completed round trip. A status of 0 means the
// request failed before a response was received.
func RecordRequest(operation string, status int, elapsed time.Duration) {
	requestCounter.WithLabelValues(operation, Outcome(status)).Inc()
	requestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// RecordSession updates the authenticated gauge.
func RecordSession(authenticated bool) {
	if authenticated {
		sessionGauge.Set(1)
		return
	}
	sessionGauge.Set(0)
}

// Outcome maps a status code to the outcome label value.
func Outcome(status int) string {
	if status <= 0 {
		return OutcomeTransportError
	}
	return strconv.Itoa(status)
}

// RequestCounter exposes the request counter for a label pair.
func RequestCounter(operation, outcome string) prometheus.Counter {
	return requestCounter.WithLabelValues(operation, outcome)
}

// SessionGauge exposes the authenticated gauge.
func SessionGauge() prometheus.Gauge {
	return sessionGauge
}
