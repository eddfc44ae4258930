// Package receiver implements the webhook processing flow shared by every
// middleware flavor: verify the signature, parse the event, drop replays,
// dispatch to the application callback, and map the outcome to an HTTP
// status. The framework packages only adapt request/response plumbing around
// Processor.
package receiver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/memberful/memberful-go/dedup"
	"github.com/memberful/memberful-go/pkg/memberful"
	"github.com/memberful/memberful-go/pkg/webhooks"
)

// DefaultMaxBodyBytes caps webhook request bodies. Memberful payloads are a
// few KiB; 256 KiB leaves generous headroom.
const DefaultMaxBodyBytes int64 = 256 << 10

// DefaultDedupTTL is how long a delivery key is remembered when the
// middleware config does not set one.
const DefaultDedupTTL = 24 * time.Hour

// Result is the outcome of processing one delivery.
type Result struct {
	// Status is the HTTP status the receiver should respond with.
	Status int
	// Message is a short machine-readable outcome for the response body.
	Message string
	// Event is the parsed event, nil unless it was dispatched.
	Event webhooks.Event
}

// Processor runs the shared verification and dispatch flow.
type Processor struct {
	Secret         string
	OnEvent        func(ctx context.Context, event webhooks.Event) error
	OnUnknownEvent func(ctx context.Context, eventType string, payload []byte) error
	Dedup          dedup.Store
	DedupTTL       time.Duration
	Logger         memberful.Logger
	Metrics        memberful.Metrics
}

// New validates the callbacks and fills defaults.
func New(p Processor) (*Processor, error) {
	if p.Secret == "" {
		return nil, webhooks.ErrMissingSecret
	}
	if p.OnEvent == nil {
		return nil, errors.New("OnEvent callback is required")
	}
	if p.DedupTTL <= 0 {
		p.DedupTTL = DefaultDedupTTL
	}
	if p.Logger == nil {
		p.Logger = &memberful.NoopLogger{}
	}
	if p.Metrics == nil {
		p.Metrics = &memberful.NoopMetrics{}
	}
	return &p, nil
}

// Process verifies and dispatches one delivery. The returned Result always
// carries a usable Status; Memberful retries anything outside 2xx, so errors
// that a retry cannot fix map to 4xx and transient ones to 5xx.
func (p *Processor) Process(ctx context.Context, body []byte, signature string) Result {
	start := time.Now()
	res := p.process(ctx, body, signature)
	eventType := ""
	if res.Event != nil {
		eventType = res.Event.EventType()
	}
	p.Metrics.RecordWebhookProcessingDuration(eventType, time.Since(start))
	return res
}

func (p *Processor) process(ctx context.Context, body []byte, signature string) Result {
	event, err := webhooks.Handle(body, signature, p.Secret)
	if err != nil {
		return p.handleError(ctx, body, err)
	}

	eventType := event.EventType()
	if p.Dedup != nil {
		key := dedup.Key(body)
		seen, derr := p.Dedup.Seen(ctx, key, p.DedupTTL)
		if derr != nil {
			// Fail open: a broken dedup store must not drop deliveries.
			p.Logger.Warn("dedup store failed, processing anyway",
				memberful.Field{Key: "event_type", Value: eventType},
				memberful.Field{Key: "error", Value: derr.Error()})
			p.Metrics.RecordWebhookError("dedup_error")
		} else if seen {
			p.Logger.Info("duplicate delivery dropped",
				memberful.Field{Key: "event_type", Value: eventType},
				memberful.Field{Key: "delivery_key", Value: key})
			p.Metrics.RecordWebhookEvent(eventType, "duplicate")
			return Result{Status: http.StatusOK, Message: "duplicate", Event: event}
		}
	}

	if err := p.OnEvent(ctx, event); err != nil {
		p.Logger.Error("event callback failed",
			memberful.Field{Key: "event_type", Value: eventType},
			memberful.Field{Key: "error", Value: err.Error()})
		p.Metrics.RecordWebhookEvent(eventType, "error")
		p.Metrics.RecordWebhookError("callback_error")
		return Result{Status: http.StatusInternalServerError, Message: "event handler failed", Event: event}
	}

	p.Logger.Info("webhook processed",
		memberful.Field{Key: "event_type", Value: eventType})
	p.Metrics.RecordWebhookEvent(eventType, "success")
	return Result{Status: http.StatusOK, Message: "ok", Event: event}
}

func (p *Processor) handleError(ctx context.Context, body []byte, err error) Result {
	switch {
	case errors.Is(err, webhooks.ErrInvalidSignature):
		p.Logger.Warn("invalid webhook signature")
		p.Metrics.RecordWebhookError("invalid_signature")
		return Result{Status: http.StatusUnauthorized, Message: "invalid signature"}

	case errors.Is(err, webhooks.ErrUnknownEvent):
		var unknown *webhooks.UnknownEventError
		eventType := ""
		if errors.As(err, &unknown) {
			eventType = unknown.Type
		}
		if p.OnUnknownEvent != nil {
			if cerr := p.OnUnknownEvent(ctx, eventType, body); cerr != nil {
				p.Logger.Error("unknown event callback failed",
					memberful.Field{Key: "event_type", Value: eventType},
					memberful.Field{Key: "error", Value: cerr.Error()})
				p.Metrics.RecordWebhookError("callback_error")
				return Result{Status: http.StatusInternalServerError, Message: "event handler failed"}
			}
		}
		// Acknowledge so Memberful does not retry types this receiver
		// was built before.
		p.Logger.Info("unknown event type acknowledged",
			memberful.Field{Key: "event_type", Value: eventType})
		p.Metrics.RecordWebhookEvent(eventType, "ignored")
		return Result{Status: http.StatusOK, Message: "ignored"}

	case errors.Is(err, webhooks.ErrInvalidPayload):
		p.Logger.Warn("webhook payload failed validation",
			memberful.Field{Key: "error", Value: err.Error()})
		p.Metrics.RecordWebhookError("schema_validation")
		return Result{Status: http.StatusBadRequest, Message: "invalid payload"}

	default:
		p.Logger.Warn("malformed webhook payload",
			memberful.Field{Key: "error", Value: err.Error()})
		p.Metrics.RecordWebhookError("malformed_payload")
		return Result{Status: http.StatusBadRequest, Message: "malformed payload"}
	}
}
