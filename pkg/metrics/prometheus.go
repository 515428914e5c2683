package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	VendorCalls        *prometheus.CounterVec
	VendorCallDuration *prometheus.HistogramVec
	AuthRefreshes      *prometheus.CounterVec
	CircuitTransitions *prometheus.CounterVec
	WebhookEvents      *prometheus.CounterVec
	WebhookRejects     *prometheus.CounterVec
	VendorHealth       *prometheus.GaugeVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		VendorCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vendor_calls_total",
			Help:      "The total number of outbound vendor calls",
		}, []string{"vendor", "operation", "outcome"}),
		VendorCallDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "vendor_call_duration_seconds",
			Help:      "Latency of outbound vendor calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"vendor", "operation"}),
		AuthRefreshes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_refreshes_total",
			Help:      "The total number of credential refreshes by grant type",
		}, []string{"vendor", "grant"}),
		CircuitTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_transitions_total",
			Help:      "Circuit breaker state transitions",
		}, []string{"vendor", "state"}),
		WebhookEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Webhook events parsed into canonical envelopes",
		}, []string{"vendor", "event_type"}),
		WebhookRejects: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_rejects_total",
			Help:      "Webhooks rejected before processing",
		}, []string{"vendor", "reason"}),
		VendorHealth: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "vendor_health",
			Help:      "Last observed integration health (1 healthy, 0 unhealthy)",
		}, []string{"vendor"}),
	}
}
