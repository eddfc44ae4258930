// Package prommetrics provides a Prometheus implementation of the
// memberful.Metrics interface.
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics implements memberful.Metrics using Prometheus.
type Metrics struct {
	webhookEventsTotal        *prometheus.CounterVec
	webhookErrorsTotal        *prometheus.CounterVec
	webhookProcessingDuration *prometheus.HistogramVec
	apiCallsTotal             *prometheus.CounterVec
	apiCallDuration           *prometheus.HistogramVec
}

// NewMetrics creates a new Prometheus metrics collector. All metrics are
// registered on reg under the given namespace.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		webhookEventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "memberful",
			Name:      "webhook_events_total",
			Help:      "Total number of webhook deliveries, by event type and outcome.",
		}, []string{"event_type", "status"}),

		webhookErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "memberful",
			Name:      "webhook_errors_total",
			Help:      "Total number of webhook processing failures, by error type.",
		}, []string{"error_type"}),

		webhookProcessingDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "memberful",
			Name:      "webhook_processing_duration_seconds",
			Help:      "Duration of webhook verification, parsing and dispatch.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event_type"}),

		apiCallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "memberful",
			Name:      "api_calls_total",
			Help:      "Total number of GraphQL API calls, by operation and status.",
		}, []string{"operation", "status"}),

		apiCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "memberful",
			Name:      "api_call_duration_seconds",
			Help:      "Duration of GraphQL API calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

// DefaultMetrics creates a collector registered on the default Prometheus
// registry.
func DefaultMetrics(namespace string) *Metrics {
	return NewMetrics(prometheus.DefaultRegisterer, namespace)
}

func (m *Metrics) RecordWebhookEvent(eventType, status string) {
	m.webhookEventsTotal.WithLabelValues(eventType, status).Inc()
}

func (m *Metrics) RecordWebhookError(errorType string) {
	m.webhookErrorsTotal.WithLabelValues(errorType).Inc()
}

func (m *Metrics) RecordWebhookProcessingDuration(eventType string, duration time.Duration) {
	m.webhookProcessingDuration.WithLabelValues(eventType).Observe(duration.Seconds())
}

func (m *Metrics) RecordAPICall(operation, status string) {
	m.apiCallsTotal.WithLabelValues(operation, status).Inc()
}

func (m *Metrics) RecordAPICallDuration(operation string, duration time.Duration) {
	m.apiCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
