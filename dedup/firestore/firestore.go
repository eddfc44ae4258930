// Package firestore provides a Firestore implementation of the dedup.Store
// interface. Each delivery key is a document; Create fails with AlreadyExists
// when the document is present, which gives an atomic record-and-check.
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Config holds Firestore store configuration.
type Config struct {
	// Collection is the Firestore collection for delivery keys.
	// Default: "webhook_deliveries"
	Collection string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Collection: "webhook_deliveries",
	}
}

// Store implements dedup.Store using Google Cloud Firestore.
type Store struct {
	client     *firestore.Client
	collection string
}

// New creates a new Firestore dedup store.
func New(client *firestore.Client, config Config) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("firestore client is required")
	}
	if config.Collection == "" {
		config.Collection = "webhook_deliveries"
	}
	return &Store{client: client, collection: config.Collection}, nil
}

// Seen implements dedup.Store. Firestore has no server-side TTL guarantee on
// Create, so when the create fails with AlreadyExists the stored expiry is
// re-checked: an expired document is reclaimed and the delivery is treated
// as new.
func (s *Store) Seen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	now := time.Now().UTC()
	doc := s.client.Collection(s.collection).Doc(key)

	data := map[string]interface{}{
		"seenAt": now,
	}
	if ttl > 0 {
		data["expiresAt"] = now.Add(ttl)
	}

	_, err := doc.Create(ctx, data)
	if err == nil {
		return false, nil
	}
	if status.Code(err) != codes.AlreadyExists {
		return false, fmt.Errorf("failed to record delivery key: %w", err)
	}

	snap, err := doc.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			// Document vanished between Create and Get; treat as a replay,
			// another writer owns the key.
			return true, nil
		}
		return false, fmt.Errorf("failed to get delivery key: %w", err)
	}

	if expiresAt, ok := snap.Data()["expiresAt"].(time.Time); ok && now.After(expiresAt) {
		if _, err := doc.Set(ctx, data); err != nil {
			return false, fmt.Errorf("failed to reclaim delivery key: %w", err)
		}
		return false, nil
	}
	return true, nil
}

// Close closes the Firestore client.
func (s *Store) Close() error {
	return s.client.Close()
}
