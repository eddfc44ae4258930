package memberful

import "time"

// Metrics defines the interface for tracking client and webhook operations.
// All methods are optional - components gracefully handle nil metrics.
type Metrics interface {
	// RecordWebhookEvent records a processed webhook delivery.
	// status: "success", "error", "ignored" or "duplicate"
	RecordWebhookEvent(eventType, status string)

	// RecordWebhookError records a webhook processing failure.
	// errorType: "invalid_signature", "malformed_payload", "unknown_event",
	// "schema_validation", "payload_too_large", "dedup_error" or
	// "callback_error"
	RecordWebhookError(errorType string)

	// RecordWebhookProcessingDuration records how long a delivery took to
	// verify, parse and dispatch.
	RecordWebhookProcessingDuration(eventType string, duration time.Duration)

	// RecordAPICall records an outbound GraphQL call.
	// operation: the query name (e.g. "members", "member")
	// status: HTTP status code as string, or "transport_error"
	RecordAPICall(operation, status string)

	// RecordAPICallDuration records how long an outbound GraphQL call took.
	RecordAPICallDuration(operation string, duration time.Duration)
}

// NoopMetrics is a no-op implementation of the Metrics interface.
type NoopMetrics struct{}

func (n *NoopMetrics) RecordWebhookEvent(_, _ string)                            {}
func (n *NoopMetrics) RecordWebhookError(_ string)                               {}
func (n *NoopMetrics) RecordWebhookProcessingDuration(_ string, _ time.Duration) {}
func (n *NoopMetrics) RecordAPICall(_, _ string)                                 {}
func (n *NoopMetrics) RecordAPICallDuration(_ string, _ time.Duration)           {}
