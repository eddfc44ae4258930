// Package webhooks authenticates and parses Memberful webhook deliveries.
//
// The pipeline is Verify (HMAC-SHA256 over the raw body, constant-time
// compare) followed by Parse (registry lookup on the literal event string,
// structural validation into a closed set of typed variants). Handle composes
// both and is what HTTP receivers should call:
//
//	event, err := webhooks.Handle(body, r.Header.Get(webhooks.SignatureHeader), secret)
//	if err != nil {
//	    // errors.Is against ErrInvalidSignature, ErrMalformedPayload,
//	    // ErrUnknownEvent, ErrInvalidPayload
//	}
//	switch ev := event.(type) {
//	case *webhooks.MemberSignupEvent:
//	    // ev.Member ...
//	}
//
// Records tolerate vendor schema drift: unknown fields are captured and
// exposed via Extras rather than rejected. Everything in this package is
// pure and safe for concurrent use; nothing here logs, retries, or performs
// I/O. The ready-made receivers in middleware/ wire this package into
// net/http, chi, echo, gin, fiber and gorilla/mux servers.
package webhooks
