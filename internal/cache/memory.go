package cache

import (
	"context"
	"sync"
	"time"

	"github.com/bluberry-labs/price-engine/internal/metrics"
	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

// MemoryCache is an in-process SnapshotCache. It is the default when no
// redis address is configured.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	nowFunc func() time.Time
}

type memoryEntry struct {
	snap      domain.MarketSnapshot
	expiresAt time.Time
}

// MemoryOption configures the MemoryCache.
type MemoryOption func(*MemoryCache)

// WithMemoryTTL overrides the default snapshot TTL.
func WithMemoryTTL(ttl time.Duration) MemoryOption {
	return func(c *MemoryCache) {
		c.ttl = ttl
	}
}

// WithMemoryNowFunc overrides the time function for testing.
func WithMemoryNowFunc(f func() time.Time) MemoryOption {
	return func(c *MemoryCache) {
		c.nowFunc = f
	}
}

// NewMemoryCache creates an empty in-memory snapshot cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     DefaultTTL,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get implements SnapshotCache.
func (c *MemoryCache) Get(_ context.Context, category string) (*domain.MarketSnapshot, bool) {
	c.mu.RLock()
	entry, ok := c.entries[category]
	c.mu.RUnlock()

	if !ok || c.nowFunc().After(entry.expiresAt) {
		metrics.SnapshotCacheMisses.Inc()
		return nil, false
	}

	metrics.SnapshotCacheHits.Inc()
	snap := entry.snap
	return &snap, true
}

// Put implements SnapshotCache.
func (c *MemoryCache) Put(_ context.Context, snap *domain.MarketSnapshot) {
	if snap == nil || snap.Category == "" {
		return
	}

	stored := *snap
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = c.nowFunc()
	}

	c.mu.Lock()
	c.entries[snap.Category] = memoryEntry{
		snap:      stored,
		expiresAt: c.nowFunc().Add(c.ttl),
	}
	c.mu.Unlock()
}

var _ SnapshotCache = (*MemoryCache)(nil)
