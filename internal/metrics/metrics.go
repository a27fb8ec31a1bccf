package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Invocation results.
const (
	ResultConsentDenied      = "consent_denied"
	ResultPreviewLoop        = "preview_loop"
	ResultMissingIdentifiers = "missing_identifiers"
	ResultDispatched         = "dispatched"
)

// Prometheus metrics for tag invocations and Braze calls
var (
	InvocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "braze_invocations_total",
			Help: "Total number of tag invocations by result",
		},
		[]string{"tag", "result"},
	)

	DispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "braze_dispatch_total",
			Help: "Total number of /users/track calls by response status class",
		},
		[]string{"tag", "status_class"},
	)

	DispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "braze_dispatch_duration_seconds",
			Help:    "Duration of /users/track calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tag"},
	)
)

// Register registers all Prometheus metrics
func Register() {
	prometheus.MustRegister(InvocationsTotal)
	prometheus.MustRegister(DispatchTotal)
	prometheus.MustRegister(DispatchDuration)
}

// StatusClass buckets an HTTP status into "2xx".."5xx"; 0 means the request
// never got a response.
func StatusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
