//go:build integration

package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluberry-labs/price-engine/internal/cache"
)

// TestRedisCache_Integration requires a reachable redis instance.
// Run with: go test -tags=integration -run TestRedisCache_Integration ./internal/cache/...
//
// Required environment variables:
//   - REDIS_ADDR: host:port of a redis server (e.g. localhost:6379)
func TestRedisCache_Integration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR must be set for integration tests")
	}

	ctx := context.Background()

	rdb, err := cache.Dial(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	defer rdb.Close()

	c := cache.NewRedisCache(rdb, cache.WithRedisTTL(time.Minute))

	c.Put(ctx, snapshot("integration_test_category", 120))

	got, ok := c.Get(ctx, "integration_test_category")
	require.True(t, ok)
	assert.InDelta(t, 120.0, got.MedianPrice, 0.001)
	assert.Equal(t, 25, got.SampleCount)

	_, ok = c.Get(ctx, "no_such_category")
	assert.False(t, ok)
}
