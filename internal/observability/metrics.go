package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "evidence"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	httpErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Error responses by route, method and error code.",
		},
		[]string{"path", "method", "code"},
	)

	evidenceMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Evidence changes by action.",
		},
		[]string{"action"},
	)

	evidenceExpiring = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "expiring_items",
		Help:      "Active items inside the expiring-soon window at the last scan.",
	})

	evidenceExpired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "expired_items",
		Help:      "Active items past their deadline at the last scan.",
	})
)

// Metrics records service metrics into the default Prometheus registry.
// A nil *Metrics is a no-op.
type Metrics struct{}

// NewMetrics returns the metrics recorder.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordRequest counts a finished request and observes its latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	httpErrorsTotal.WithLabelValues(path, method, code).Inc()
}

// RecordMutation counts an evidence change.
func (m *Metrics) RecordMutation(action string) {
	if m == nil {
		return
	}
	evidenceMutationsTotal.WithLabelValues(action).Inc()
}

// SetExpiryGauges publishes the result of an expiry scan.
func (m *Metrics) SetExpiryGauges(expiring, expired int) {
	if m == nil {
		return
	}
	evidenceExpiring.Set(float64(expiring))
	evidenceExpired.Set(float64(expired))
}
