// Package store defines the datastore abstraction for the price engine.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables fake-based testing without a running
// database.
package store

import (
	"context"
	"errors"
	"time"

	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// EstimateQuery defines optional filters for estimate history queries.
type EstimateQuery struct {
	Source     *string
	Confidence *string
	Category   *string
	Since      *time.Time
	Limit      int // default 50
	Offset     int
	OrderBy    string // "created_at", "amount"
}

// Store defines all data access operations for the price engine.
type Store interface {
	// eBay OAuth tokens, persisted so restarts don't burn token quota.
	GetEbayToken(ctx context.Context) (token string, expiry time.Time, err error)
	SetEbayToken(ctx context.Context, token string, expiry time.Time) error

	// Market snapshots
	UpsertSnapshot(ctx context.Context, snap *domain.MarketSnapshot) error
	GetSnapshot(ctx context.Context, category string) (*domain.MarketSnapshot, error)
	ListSnapshots(ctx context.Context) ([]domain.MarketSnapshot, error)

	// Estimate history
	InsertEstimate(ctx context.Context, rec *domain.EstimateRecord) error
	ListEstimates(ctx context.Context, opts *EstimateQuery) ([]domain.EstimateRecord, int, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
