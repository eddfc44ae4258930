package webhooks

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSecret is returned when signature verification is attempted
	// without a configured webhook secret. This is a caller misconfiguration,
	// not an attacker-controlled condition.
	ErrMissingSecret = errors.New("webhook secret is not configured")

	// ErrInvalidSignature is returned when the signature header does not match
	// the HMAC of the raw payload. The payload must not be processed further.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrMalformedPayload is returned when the payload is not valid JSON.
	ErrMalformedPayload = errors.New("malformed webhook payload")

	// ErrUnknownEvent is the kind wrapped by UnknownEventError. Callers that
	// want to tolerate event types added by Memberful before this library
	// learns about them should match on this sentinel.
	ErrUnknownEvent = errors.New("unknown webhook event type")

	// ErrInvalidPayload is the kind wrapped by SchemaError: the event type was
	// recognized but the payload does not fit its known shape.
	ErrInvalidPayload = errors.New("webhook payload failed validation")
)

// UnknownEventError is returned by Parse when the event field is absent or
// names an event type this library does not recognize.
type UnknownEventError struct {
	// Type is the wire event-type string, empty if the event field was absent
	// or not a string.
	Type string
}

func (e *UnknownEventError) Error() string {
	if e.Type == "" {
		return "webhook payload has no usable event field"
	}
	return fmt.Sprintf("unsupported webhook event type %q", e.Type)
}

func (e *UnknownEventError) Unwrap() error { return ErrUnknownEvent }

// SchemaError is returned by Parse when a recognized event's payload fails
// structural validation. It signals either vendor schema drift or a defect in
// this library; callers should log the full payload for diagnosis.
type SchemaError struct {
	// Field is the dotted path of the offending field, relative to the
	// payload root (e.g. "subscription.member.email").
	Field string

	// Reason describes why the field was rejected.
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid webhook payload: %s", e.Reason)
	}
	return fmt.Sprintf("invalid webhook payload: field %q %s", e.Field, e.Reason)
}

func (e *SchemaError) Unwrap() error { return ErrInvalidPayload }
