package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore connects to the database named by POSTGRES_TEST_DSN, skipping
// when the environment does not provide one.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}

	cfg := DefaultConfig()
	cfg.ConnectionString = dsn
	cfg.CleanupEnabled = false

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := New(ctx, cfg)
	if err != nil {
		t.Skipf("PostgreSQL not available: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestNew_RequiresConnectionString(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}

func TestSeen_Integration(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := "key-" + time.Now().Format("20060102150405.000000")

	seen, err := s.Seen(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, seen, "first sighting must report false")

	seen, err = s.Seen(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, seen, "second sighting must report true")
}

func TestSeen_ExpiredRowReclaimed_Integration(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := "key-exp-" + time.Now().Format("20060102150405.000000")

	seen, err := s.Seen(ctx, key, 50*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, seen)

	time.Sleep(100 * time.Millisecond)

	seen, err = s.Seen(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, seen, "expired row must be reclaimed as new")
}

func TestCleanup_Integration(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := "key-clean-" + time.Now().Format("20060102150405.000000")

	_, err := s.Seen(ctx, key, 10*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, s.Cleanup(ctx))
}
