// Package http provides a net/http handler that receives Memberful webhooks.
//
// The handler verifies the signature, parses the event into its typed form,
// optionally deduplicates retried deliveries, and hands the event to the
// application callback. Responses follow Memberful's retry contract: 2xx
// acknowledges the delivery, anything else asks for a retry.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/memberful/memberful-go/dedup"
	"github.com/memberful/memberful-go/internal/httputil"
	"github.com/memberful/memberful-go/internal/receiver"
	"github.com/memberful/memberful-go/pkg/memberful"
	"github.com/memberful/memberful-go/pkg/webhooks"
)

// EventHandler receives each verified, parsed event. A non-nil error makes
// the receiver respond 500 so Memberful retries the delivery.
type EventHandler func(ctx context.Context, event webhooks.Event) error

// UnknownEventHandler receives deliveries whose event type has no typed
// binding, with the raw payload. Optional; without it unknown types are
// acknowledged and dropped.
type UnknownEventHandler func(ctx context.Context, eventType string, payload []byte) error

// Config holds receiver configuration.
type Config struct {
	// Secret is the webhook signing secret from the Memberful dashboard
	// (required).
	Secret string

	// OnEvent handles each verified event (required).
	OnEvent EventHandler

	// OnUnknownEvent handles event types without a typed binding (optional).
	OnUnknownEvent UnknownEventHandler

	// Dedup drops retried deliveries when set (optional).
	Dedup dedup.Store

	// DedupTTL is how long delivery keys are remembered.
	// Default: 24 hours.
	DedupTTL time.Duration

	// SignatureHeader overrides the header the signature is read from.
	// Default: webhooks.SignatureHeader.
	SignatureHeader string

	// MaxBodyBytes caps the request body size. Default: 256 KiB.
	MaxBodyBytes int64

	// Logger receives structured receiver logs. Default: no logging.
	Logger memberful.Logger

	// Metrics receives receiver metrics. Default: no metrics.
	Metrics memberful.Metrics
}

// Handler builds the webhook endpoint handler. Mount it at the path
// registered in the Memberful dashboard.
func Handler(config Config) (http.Handler, error) {
	proc, err := receiver.New(receiver.Processor{
		Secret:         config.Secret,
		OnEvent:        config.OnEvent,
		OnUnknownEvent: config.OnUnknownEvent,
		Dedup:          config.Dedup,
		DedupTTL:       config.DedupTTL,
		Logger:         config.Logger,
		Metrics:        config.Metrics,
	})
	if err != nil {
		return nil, err
	}

	header := config.SignatureHeader
	if header == "" {
		header = webhooks.SignatureHeader
	}
	maxBody := config.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = receiver.DefaultMaxBodyBytes
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			_ = httputil.WriteJSON(w, http.StatusMethodNotAllowed,
				map[string]string{"status": "method not allowed"})
			return
		}

		body, err := httputil.ReadBody(w, r, maxBody)
		if err != nil {
			status := http.StatusBadRequest
			msg := "invalid body"
			if errors.Is(err, httputil.ErrPayloadTooLarge) {
				status = http.StatusRequestEntityTooLarge
				msg = "payload too large"
				proc.Metrics.RecordWebhookError("payload_too_large")
			}
			_ = httputil.WriteJSON(w, status, map[string]string{"status": msg})
			return
		}

		res := proc.Process(r.Context(), body, r.Header.Get(header))
		_ = httputil.WriteJSON(w, res.Status, map[string]string{"status": res.Message})
	}), nil
}
