//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bluberry-labs/price-engine/internal/store"
	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

func setupPostgres(t *testing.T) *store.PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("price_engine_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := store.NewPostgresStore(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	require.NoError(t, s.Migrate(ctx))

	return s
}

func TestPostgresStore_Ping(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestPostgresStore_MigrateIdempotent(t *testing.T) {
	s := setupPostgres(t)
	// setupPostgres already migrated once; a second run must be a no-op.
	require.NoError(t, s.Migrate(context.Background()))
}

func TestPostgresStore_EbayToken(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	t.Run("missing token returns ErrNotFound", func(t *testing.T) {
		_, _, err := s.GetEbayToken(ctx)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("set and get round trip", func(t *testing.T) {
		expiry := time.Now().Add(2 * time.Hour).Truncate(time.Microsecond)
		require.NoError(t, s.SetEbayToken(ctx, "token-one", expiry))

		token, gotExpiry, err := s.GetEbayToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "token-one", token)
		assert.True(t, gotExpiry.Equal(expiry))
	})

	t.Run("set replaces the previous token", func(t *testing.T) {
		expiry := time.Now().Add(3 * time.Hour).Truncate(time.Microsecond)
		require.NoError(t, s.SetEbayToken(ctx, "token-two", expiry))

		token, _, err := s.GetEbayToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "token-two", token)
	})
}

func TestPostgresStore_Snapshots(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	snap := &domain.MarketSnapshot{
		Category:    "electronics",
		MinPrice:    40,
		MaxPrice:    400,
		AvgPrice:    160,
		MedianPrice: 150,
		SampleCount: 42,
	}

	t.Run("missing snapshot returns ErrNotFound", func(t *testing.T) {
		_, err := s.GetSnapshot(ctx, "electronics")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("upsert and get", func(t *testing.T) {
		require.NoError(t, s.UpsertSnapshot(ctx, snap))
		assert.False(t, snap.UpdatedAt.IsZero())

		got, err := s.GetSnapshot(ctx, "electronics")
		require.NoError(t, err)
		assert.InDelta(t, 150.0, got.MedianPrice, 0.001)
		assert.Equal(t, 42, got.SampleCount)
	})

	t.Run("upsert updates in place", func(t *testing.T) {
		snap.MedianPrice = 175
		snap.SampleCount = 55
		require.NoError(t, s.UpsertSnapshot(ctx, snap))

		got, err := s.GetSnapshot(ctx, "electronics")
		require.NoError(t, err)
		assert.InDelta(t, 175.0, got.MedianPrice, 0.001)
		assert.Equal(t, 55, got.SampleCount)
	})

	t.Run("list is ordered by category", func(t *testing.T) {
		require.NoError(t, s.UpsertSnapshot(ctx, &domain.MarketSnapshot{
			Category: "appliances", MinPrice: 30, MaxPrice: 300,
			AvgPrice: 100, MedianPrice: 95, SampleCount: 12,
		}))

		snaps, err := s.ListSnapshots(ctx)
		require.NoError(t, err)
		require.Len(t, snaps, 2)
		assert.Equal(t, "appliances", snaps[0].Category)
		assert.Equal(t, "electronics", snaps[1].Category)
	})
}

func TestPostgresStore_Estimates(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	insert := func(name string, source domain.Source, amount float64) *domain.EstimateRecord {
		rec := &domain.EstimateRecord{
			ItemName:   name,
			Condition:  "good",
			Category:   "electronics",
			Amount:     amount,
			MinPrice:   amount * 0.85,
			MaxPrice:   amount * 1.15,
			Confidence: domain.ConfidenceMedium,
			Source:     source,
		}
		require.NoError(t, s.InsertEstimate(ctx, rec))
		return rec
	}

	rec1 := insert("iPhone 13", domain.SourceMarket, 310)
	insert("couch", domain.SourceAI, 220)
	insert("toaster", domain.SourceLocal, 18)

	t.Run("insert assigns id and created_at", func(t *testing.T) {
		assert.NotEmpty(t, rec1.ID)
		assert.False(t, rec1.CreatedAt.IsZero())
	})

	t.Run("list all", func(t *testing.T) {
		recs, total, err := s.ListEstimates(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, recs, 3)
	})

	t.Run("filter by source", func(t *testing.T) {
		src := string(domain.SourceMarket)
		recs, total, err := s.ListEstimates(ctx, &store.EstimateQuery{Source: &src})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, recs, 1)
		assert.Equal(t, "iPhone 13", recs[0].ItemName)
	})

	t.Run("order by amount", func(t *testing.T) {
		recs, _, err := s.ListEstimates(ctx, &store.EstimateQuery{OrderBy: "amount"})
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, "iPhone 13", recs[0].ItemName)
		assert.Equal(t, "toaster", recs[2].ItemName)
	})

	t.Run("pagination", func(t *testing.T) {
		recs, total, err := s.ListEstimates(ctx, &store.EstimateQuery{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, recs, 2)
	})
}
