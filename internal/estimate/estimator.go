// Package estimate implements the multi-source price estimation pipeline:
// a content filter, a live-market estimator, an LLM estimator, and a local
// algorithmic estimator, tried in fixed priority order by the orchestrator.
package estimate

import (
	"context"
	"errors"

	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

// ErrNoEstimate signals that an estimator ran but could not produce a usable
// price. The orchestrator treats it as "try the next source", not a failure.
var ErrNoEstimate = errors.New("no estimate available")

// ErrNotConfigured signals a deployment problem (missing API key or client).
// It is surfaced at wiring time so misconfiguration never degrades silently.
var ErrNotConfigured = errors.New("estimator not configured")

// Estimator produces a price estimate from one information source.
// Implementations return ErrNoEstimate (possibly wrapped) when their source
// has nothing usable; any other error means the source itself failed.
type Estimator interface {
	Name() string
	Estimate(ctx context.Context, q *domain.PriceQuery) (*domain.PriceEstimate, error)
}

// SnapshotSink receives market snapshots computed as a side effect of
// successful market estimates.
type SnapshotSink interface {
	Put(ctx context.Context, snap *domain.MarketSnapshot)
}
