// Package postgres provides a PostgreSQL implementation of the dedup.Store
// interface. Delivery keys live in a single table; an upsert that only
// succeeds over expired rows makes Seen atomic across receiver instances.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds PostgreSQL store configuration.
type Config struct {
	// ConnectionString is the PostgreSQL connection string.
	ConnectionString string

	// Table is the delivery-key table name (default: "webhook_deliveries").
	Table string

	// Pool configuration
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration

	// Cleanup configuration
	CleanupEnabled  bool
	CleanupInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Table:           "webhook_deliveries",
		MaxConns:        10,
		MinConns:        2,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
		CleanupEnabled:  true,
		CleanupInterval: 1 * time.Hour,
	}
}

// Store implements dedup.Store using PostgreSQL.
type Store struct {
	pool   *pgxpool.Pool
	config Config

	// stopCleanup cancels the background cleanup goroutine
	stopCleanup func()
}

// New creates a new PostgreSQL dedup store. It creates the delivery-key
// table if it does not exist.
func New(ctx context.Context, config Config) (*Store, error) {
	if config.ConnectionString == "" {
		return nil, fmt.Errorf("connection string is required")
	}
	if config.Table == "" {
		config.Table = "webhook_deliveries"
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 1 * time.Hour
	}

	poolConfig, err := pgxpool.ParseConfig(config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if config.MaxConns > 0 {
		poolConfig.MaxConns = config.MaxConns
	}
	if config.MinConns > 0 {
		poolConfig.MinConns = config.MinConns
	}
	if config.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = config.MaxConnLifetime
	}
	if config.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = config.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	cleanupCtx, cancel := context.WithCancel(context.Background())
	s := &Store{
		pool:        pool,
		config:      config,
		stopCleanup: cancel,
	}

	if err := s.ensureSchema(ctx); err != nil {
		s.Close()
		return nil, err
	}

	if config.CleanupEnabled {
		go s.startCleanup(cleanupCtx)
	}

	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
			delivery_key TEXT PRIMARY KEY,
			seen_at      TIMESTAMPTZ NOT NULL,
			expires_at   TIMESTAMPTZ
		)`, s.config.Table))
	if err != nil {
		return fmt.Errorf("failed to create delivery table: %w", err)
	}
	return nil
}

// Seen implements dedup.Store. The insert claims the key; on conflict it only
// overwrites rows whose expiry has passed, so a live key reports a replay.
func (s *Store) Seen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	now := time.Now().UTC()
	var expires *time.Time
	if ttl > 0 {
		t := now.Add(ttl)
		expires = &t
	}

	tag, err := s.pool.Exec(ctx, fmt.Sprintf(
		`INSERT INTO %s (delivery_key, seen_at, expires_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (delivery_key) DO UPDATE SET
				seen_at = EXCLUDED.seen_at,
				expires_at = EXCLUDED.expires_at
			WHERE %s.expires_at IS NOT NULL AND %s.expires_at < $2`,
		s.config.Table, s.config.Table, s.config.Table),
		key, now, expires)
	if err != nil {
		return false, fmt.Errorf("failed to record delivery key: %w", err)
	}

	// Zero rows affected means the conflict row was still live.
	return tag.RowsAffected() == 0, nil
}

// Cleanup deletes expired delivery keys. It is also run periodically in the
// background when CleanupEnabled is set.
func (s *Store) Cleanup(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE expires_at IS NOT NULL AND expires_at < $1`,
		s.config.Table), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to cleanup delivery keys: %w", err)
	}
	return nil
}

func (s *Store) startCleanup(ctx context.Context) {
	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Cleanup(context.Background()); err != nil {
				// Cleanup is best effort; a missed sweep is retried next tick.
				_ = err
			}
		}
	}
}

// Ping checks the PostgreSQL connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close stops background cleanup and closes the connection pool.
func (s *Store) Close() {
	if s.stopCleanup != nil {
		s.stopCleanup()
	}
	if s.pool != nil {
		s.pool.Close()
	}
}
