//go:build integration

package localcache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illmade-knight/go-contentstore/pkg/localcache"
)

// Requires a running Redis instance, e.g.
// docker run --rm -p 6379:6379 redis:7
func TestRedisStore_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping Redis integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	store, err := localcache.NewRedisStore(ctx, &localcache.RedisConfig{Addr: addr}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	t.Run("Missing key returns ErrNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "content:it-missing")

		require.Error(t, err)
		assert.ErrorIs(t, err, localcache.ErrNotFound)
	})

	t.Run("Set then Get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "content:it-projects", "payload"))

		value, err := store.Get(ctx, "content:it-projects")
		require.NoError(t, err)
		assert.Equal(t, "payload", value)
	})
}
