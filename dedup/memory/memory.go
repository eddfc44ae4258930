// Package memory provides an in-process dedup store.
//
// It is suitable for a single-instance receiver and for tests. Keys are held
// in a map guarded by a mutex; expired keys are reclaimed lazily on access
// and by an optional background sweep.
package memory

import (
	"context"
	"sync"
	"time"
)

// Config configures the in-memory store.
type Config struct {
	// CleanupInterval is how often expired keys are swept. Zero disables the
	// background sweep; expired keys are then only reclaimed when touched.
	CleanupInterval time.Duration
}

// DefaultConfig returns a Config with a five minute sweep interval.
func DefaultConfig() Config {
	return Config{CleanupInterval: 5 * time.Minute}
}

// Store is an in-memory dedup store. The zero value is not usable; use New.
type Store struct {
	mu   sync.Mutex
	keys map[string]time.Time

	done chan struct{}
	once sync.Once
}

// New creates an in-memory store.
func New(cfg Config) *Store {
	s := &Store{
		keys: make(map[string]time.Time),
		done: make(chan struct{}),
	}
	if cfg.CleanupInterval > 0 {
		go s.sweep(cfg.CleanupInterval)
	}
	return s
}

// Seen implements dedup.Store.
func (s *Store) Seen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if exp, ok := s.keys[key]; ok {
		if exp.IsZero() || now.Before(exp) {
			return true, nil
		}
		delete(s.keys, key)
	}
	var exp time.Time
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	s.keys[key] = exp
	return false, nil
}

// Len reports the number of keys currently held, including not yet reclaimed
// expired ones.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

// Close stops the background sweep, if any.
func (s *Store) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

func (s *Store) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for k, exp := range s.keys {
				if !exp.IsZero() && now.After(exp) {
					delete(s.keys, k)
				}
			}
			s.mu.Unlock()
		}
	}
}
