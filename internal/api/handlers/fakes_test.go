package handlers_test

import (
	"context"
	"time"

	"github.com/bluberry-labs/price-engine/internal/store"
	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

// fakeStore implements store.Store with overridable function fields.
// Unset methods return zero values.
type fakeStore struct {
	pingFunc           func(ctx context.Context) error
	insertEstimateFunc func(ctx context.Context, rec *domain.EstimateRecord) error
	listEstimatesFunc  func(ctx context.Context, q *store.EstimateQuery) ([]domain.EstimateRecord, int, error)
}

func (*fakeStore) GetEbayToken(context.Context) (string, time.Time, error) {
	return "", time.Time{}, store.ErrNotFound
}

func (*fakeStore) SetEbayToken(context.Context, string, time.Time) error { return nil }

func (*fakeStore) UpsertSnapshot(context.Context, *domain.MarketSnapshot) error { return nil }

func (*fakeStore) GetSnapshot(context.Context, string) (*domain.MarketSnapshot, error) {
	return nil, store.ErrNotFound
}

func (*fakeStore) ListSnapshots(context.Context) ([]domain.MarketSnapshot, error) {
	return nil, nil
}

func (s *fakeStore) InsertEstimate(ctx context.Context, rec *domain.EstimateRecord) error {
	if s.insertEstimateFunc != nil {
		return s.insertEstimateFunc(ctx, rec)
	}
	return nil
}

func (s *fakeStore) ListEstimates(
	ctx context.Context,
	q *store.EstimateQuery,
) ([]domain.EstimateRecord, int, error) {
	if s.listEstimatesFunc != nil {
		return s.listEstimatesFunc(ctx, q)
	}
	return nil, 0, nil
}

func (*fakeStore) Migrate(context.Context) error { return nil }

func (s *fakeStore) Ping(ctx context.Context) error {
	if s.pingFunc != nil {
		return s.pingFunc(ctx)
	}
	return nil
}

// staticEstimator returns a fixed estimate, or an error when set.
type staticEstimator struct {
	name string
	est  *domain.PriceEstimate
	err  error
}

func (e *staticEstimator) Name() string { return e.name }

func (e *staticEstimator) Estimate(context.Context, *domain.PriceQuery) (*domain.PriceEstimate, error) {
	return e.est, e.err
}
