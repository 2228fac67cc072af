package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// GetEbayToken returns the persisted eBay OAuth token and its expiry.
func (s *PostgresStore) GetEbayToken(ctx context.Context) (string, time.Time, error) {
	var token string
	var expiry time.Time

	err := s.pool.QueryRow(ctx, queryGetEbayToken).Scan(&token, &expiry)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", time.Time{}, ErrNotFound
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("getting ebay token: %w", err)
	}
	return token, expiry, nil
}

// SetEbayToken upserts the single persisted eBay OAuth token row.
func (s *PostgresStore) SetEbayToken(ctx context.Context, token string, expiry time.Time) error {
	args := pgx.NamedArgs{
		"access_token": token,
		"expires_at":   expiry,
	}
	if _, err := s.pool.Exec(ctx, querySetEbayToken, args); err != nil {
		return fmt.Errorf("setting ebay token: %w", err)
	}
	return nil
}

// UpsertSnapshot inserts or updates a category market snapshot.
func (s *PostgresStore) UpsertSnapshot(ctx context.Context, snap *domain.MarketSnapshot) error {
	args := pgx.NamedArgs{
		"category":     snap.Category,
		"min_price":    snap.MinPrice,
		"max_price":    snap.MaxPrice,
		"avg_price":    snap.AvgPrice,
		"median_price": snap.MedianPrice,
		"sample_count": snap.SampleCount,
	}

	if err := s.pool.QueryRow(ctx, queryUpsertSnapshot, args).Scan(&snap.UpdatedAt); err != nil {
		return fmt.Errorf("upserting snapshot for %q: %w", snap.Category, err)
	}
	return nil
}

// GetSnapshot retrieves the market snapshot for a category.
func (s *PostgresStore) GetSnapshot(ctx context.Context, category string) (*domain.MarketSnapshot, error) {
	snap := &domain.MarketSnapshot{}
	err := scanSnapshot(s.pool.QueryRow(ctx, queryGetSnapshot, category), snap)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting snapshot for %q: %w", category, err)
	}
	return snap, nil
}

// ListSnapshots returns all category snapshots ordered by category name.
func (s *PostgresStore) ListSnapshots(ctx context.Context) ([]domain.MarketSnapshot, error) {
	rows, err := s.pool.Query(ctx, queryListSnapshots)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []domain.MarketSnapshot
	for rows.Next() {
		var snap domain.MarketSnapshot
		if err := scanSnapshot(rows, &snap); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// InsertEstimate persists an estimate history record. A missing ID is
// generated here rather than in SQL so callers can log it immediately.
func (s *PostgresStore) InsertEstimate(ctx context.Context, rec *domain.EstimateRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	args := pgx.NamedArgs{
		"id":         rec.ID,
		"item_name":  rec.ItemName,
		"condition":  rec.Condition,
		"category":   rec.Category,
		"amount":     rec.Amount,
		"min_price":  rec.MinPrice,
		"max_price":  rec.MaxPrice,
		"confidence": string(rec.Confidence),
		"source":     string(rec.Source),
	}

	if err := s.pool.QueryRow(ctx, queryInsertEstimate, args).Scan(&rec.CreatedAt); err != nil {
		return fmt.Errorf("inserting estimate: %w", err)
	}
	return nil
}

// ListEstimates queries estimate history with optional filters, returning
// results and total count.
func (s *PostgresStore) ListEstimates(
	ctx context.Context,
	opts *EstimateQuery,
) ([]domain.EstimateRecord, int, error) {
	if opts == nil {
		opts = &EstimateQuery{}
	}
	dataSQL, countSQL, args := opts.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting estimates: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying estimates: %w", err)
	}
	defer rows.Close()

	var recs []domain.EstimateRecord
	for rows.Next() {
		var rec domain.EstimateRecord
		if err := rows.Scan(
			&rec.ID, &rec.ItemName, &rec.Condition, &rec.Category,
			&rec.Amount, &rec.MinPrice, &rec.MaxPrice,
			&rec.Confidence, &rec.Source, &rec.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scanning estimate: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, total, rows.Err()
}

// scanSnapshot scans one snapshot row, shared between single-row and
// multi-row queries.
func scanSnapshot(row pgx.Row, snap *domain.MarketSnapshot) error {
	return row.Scan(
		&snap.Category, &snap.MinPrice, &snap.MaxPrice,
		&snap.AvgPrice, &snap.MedianPrice,
		&snap.SampleCount, &snap.UpdatedAt,
	)
}

var _ Store = (*PostgresStore)(nil)
