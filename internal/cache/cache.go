// Package cache stores per-category market snapshots so local estimates can
// lean on recent market data without spending eBay API quota. Snapshots are
// advisory: every read can miss and every write can silently fail without
// affecting the request that triggered it.
package cache

import (
	"context"
	"time"

	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

// DefaultTTL is how long a snapshot stays usable. Secondhand market prices
// drift slowly, so a week of staleness is acceptable.
const DefaultTTL = 7 * 24 * time.Hour

// SnapshotCache reads and writes category market snapshots.
//
// Get reports ok=false on miss, expiry, or backend failure. Put is
// best-effort and never blocks the caller on backend errors.
type SnapshotCache interface {
	Get(ctx context.Context, category string) (*domain.MarketSnapshot, bool)
	Put(ctx context.Context, snap *domain.MarketSnapshot)
}
