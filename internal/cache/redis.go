package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bluberry-labs/price-engine/internal/metrics"
	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

// RedisCache is a SnapshotCache backed by redis, letting multiple engine
// instances share one snapshot pool. Values are JSON with a per-key TTL.
type RedisCache struct {
	rdb redis.Cmdable
	ttl time.Duration
	log *slog.Logger
}

// RedisOption configures the RedisCache.
type RedisOption func(*RedisCache)

// WithRedisTTL overrides the default snapshot TTL.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(c *RedisCache) {
		c.ttl = ttl
	}
}

// WithRedisLogger sets the logger.
func WithRedisLogger(l *slog.Logger) RedisOption {
	return func(c *RedisCache) {
		c.log = l
	}
}

// NewRedisCache creates a snapshot cache over an existing redis client.
func NewRedisCache(rdb redis.Cmdable, opts ...RedisOption) *RedisCache {
	c := &RedisCache{
		rdb: rdb,
		ttl: DefaultTTL,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dial connects to redis at addr and verifies the connection with a ping.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis at %s: %w", addr, err)
	}
	return client, nil
}

func snapshotKey(category string) string {
	return "market:snapshot:" + category
}

// Get implements SnapshotCache. Backend and decode failures count as misses.
func (c *RedisCache) Get(ctx context.Context, category string) (*domain.MarketSnapshot, bool) {
	raw, err := c.rdb.Get(ctx, snapshotKey(category)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("redis snapshot read failed", "category", category, "err", err)
		}
		metrics.SnapshotCacheMisses.Inc()
		return nil, false
	}

	var snap domain.MarketSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		c.log.Warn("corrupt snapshot in redis", "category", category, "err", err)
		metrics.SnapshotCacheMisses.Inc()
		return nil, false
	}

	metrics.SnapshotCacheHits.Inc()
	return &snap, true
}

// Put implements SnapshotCache. Failures are logged and swallowed so a
// flaky redis never degrades estimate requests.
func (c *RedisCache) Put(ctx context.Context, snap *domain.MarketSnapshot) {
	if snap == nil || snap.Category == "" {
		return
	}

	stored := *snap
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now()
	}

	b, err := json.Marshal(stored)
	if err != nil {
		c.log.Warn("marshaling snapshot", "category", snap.Category, "err", err)
		return
	}

	if err := c.rdb.Set(ctx, snapshotKey(snap.Category), b, c.ttl).Err(); err != nil {
		c.log.Warn("redis snapshot write failed", "category", snap.Category, "err", err)
	}
}

var _ SnapshotCache = (*RedisCache)(nil)
