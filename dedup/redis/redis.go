// Package redis provides a Redis implementation of the dedup.Store interface.
// SET NX gives an atomic record-and-check, so the store is safe to share
// across receiver instances.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis store configuration.
type Config struct {
	// KeyPrefix is prepended to all Redis keys (default: "memberful:webhook:").
	KeyPrefix string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		KeyPrefix: "memberful:webhook:",
	}
}

// Store implements dedup.Store using Redis.
type Store struct {
	client redis.UniversalClient
	config Config
}

// New creates a new Redis dedup store.
// The client can be *redis.Client, *redis.ClusterClient, or *redis.Ring.
func New(client redis.UniversalClient, config Config) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "memberful:webhook:"
	}
	return &Store{client: client, config: config}, nil
}

// Seen implements dedup.Store. The key is written with SET NX so concurrent
// deliveries of the same body race to a single winner.
func (s *Store) Seen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	set, err := s.client.SetNX(ctx, s.config.KeyPrefix+key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record delivery key: %w", err)
	}
	return !set, nil
}

// Ping checks the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client connection.
func (s *Store) Close() error {
	return s.client.Close()
}
