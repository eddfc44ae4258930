// Package gin provides a Gin handler that receives Memberful webhooks.
package gin

import (
	"context"
	"errors"
	"net/http"
	"time"

	gongin "github.com/gin-gonic/gin"

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
// binding, with the raw payload.
type UnknownEventHandler func(ctx context.Context, eventType string, payload []byte) error

// Config holds receiver configuration.
type Config struct {
	// Secret is the webhook signing secret (required).
	Secret string

	// OnEvent handles each verified event (required).
	OnEvent EventHandler

	// OnUnknownEvent handles event types without a typed binding (optional).
	OnUnknownEvent UnknownEventHandler

	// Dedup drops retried deliveries when set (optional).
	Dedup dedup.Store

	// DedupTTL is how long delivery keys are remembered. Default: 24 hours.
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

// Handler builds the webhook endpoint handler. Register it with POST on the
// path configured in the Memberful dashboard:
//
//	r.POST("/webhooks/memberful", handler)
func Handler(config Config) (gongin.HandlerFunc, error) {
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

	return func(c *gongin.Context) {
		body, err := httputil.ReadBody(c.Writer, c.Request, maxBody)
		if err != nil {
			if errors.Is(err, httputil.ErrPayloadTooLarge) {
				proc.Metrics.RecordWebhookError("payload_too_large")
				c.JSON(http.StatusRequestEntityTooLarge,
					gongin.H{"status": "payload too large"})
				return
			}
			c.JSON(http.StatusBadRequest, gongin.H{"status": "invalid body"})
			return
		}

		res := proc.Process(c.Request.Context(), body, c.GetHeader(header))
		c.JSON(res.Status, gongin.H{"status": res.Message})
	}, nil
}
