// Package dedup defines the deduplication store used by the webhook
// receivers to absorb retried deliveries.
//
// Memberful retries a webhook until it gets a 2xx response, so the same
// logical delivery can arrive more than once. Parsing is idempotent
// (identical bytes always yield an identical event), which makes the SHA-256
// of the raw body a stable delivery key; a store remembers keys it has seen
// so the receiver can acknowledge a retry without re-dispatching it.
//
// Implementations live in the subpackages memory, redis, postgres and
// firestore.
package dedup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Store records delivery keys and reports replays.
type Store interface {
	// Seen atomically records key and reports whether it was already
	// present. A key expires ttl after it was first recorded; ttl <= 0 means
	// the key never expires (not recommended).
	Seen(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Key derives the delivery key for a raw webhook body.
func Key(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
