package webhooks

import (
	"encoding/json"
	"fmt"
)

// Parse decodes payload into its typed event variant. Discrimination is a
// single registry lookup on the literal event string.
//
// Errors by kind:
//   - ErrMalformedPayload: payload is not a JSON object
//   - *UnknownEventError (ErrUnknownEvent): event field absent or unrecognized
//   - *SchemaError (ErrInvalidPayload): recognized event, payload fails
//     structural validation; the error names the field path and reason
//
// Unknown top-level and record-level fields never fail parsing; they are
// captured and exposed through each record's Extras accessor.
//
// Parse is a pure function: identical bytes always produce an identical
// variant or an identical error.
func Parse(payload []byte) (Event, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(payload, &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: not a JSON object", ErrMalformedPayload)
	}

	rawTag, ok := obj["event"]
	if !ok {
		return nil, &UnknownEventError{}
	}
	var tag string
	if err := json.Unmarshal(rawTag, &tag); err != nil {
		return nil, &UnknownEventError{}
	}

	newEvent, ok := registry[tag]
	if !ok {
		return nil, &UnknownEventError{Type: tag}
	}

	event := newEvent()
	if err := json.Unmarshal(payload, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Handle is the single entry point for an inbound delivery: it authenticates
// the raw body against the signature header and only then parses it. An
// unauthenticated payload is never decoded.
//
// On top of Parse's error kinds it returns ErrInvalidSignature when
// verification fails and ErrMissingSecret when secret is empty. Handle is
// stateless and safe for concurrent use.
func Handle(body []byte, signature, secret string) (Event, error) {
	ok, err := Verify(body, signature, secret)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidSignature
	}
	return Parse(body)
}
