// Package engine runs the periodic market snapshot refresh. Snapshots keep
// the local estimator's category anchors close to live market prices even
// when eBay is unreachable at estimate time.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/bluberry-labs/price-engine/internal/cache"
	"github.com/bluberry-labs/price-engine/internal/catalog"
	"github.com/bluberry-labs/price-engine/internal/ebay"
	"github.com/bluberry-labs/price-engine/internal/estimate"
	"github.com/bluberry-labs/price-engine/internal/metrics"
	"github.com/bluberry-labs/price-engine/internal/notify"
	"github.com/bluberry-labs/price-engine/internal/store"
	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

// refreshFilter matches the listing filter used on the estimate path:
// immediately purchasable, USD-priced listings only.
const refreshFilter = "buyingOptions:{FIXED_PRICE|BEST_OFFER},priceCurrency:USD"

// SampleSource gathers listings for a search request, possibly across
// multiple result pages. *ebay.Collector implements it.
type SampleSource interface {
	Collect(ctx context.Context, req ebay.SearchRequest) ([]ebay.ItemSummary, error)
}

// Engine refreshes per-category market snapshots from live listings.
type Engine struct {
	source   SampleSource
	filters  catalog.EbayFilterTable
	store    store.Store
	cache    cache.SnapshotCache
	notifier notify.Notifier
	log      *slog.Logger

	staggerOffset time.Duration
	nowFunc       func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithCache mirrors refreshed snapshots into a cache.
func WithCache(c cache.SnapshotCache) EngineOption {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithNotifier sends a report after every refresh cycle.
func WithNotifier(n notify.Notifier) EngineOption {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithStaggerOffset sets the delay between processing each category.
func WithStaggerOffset(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.staggerOffset = d
	}
}

// WithNowFunc overrides the clock, for tests.
func WithNowFunc(f func() time.Time) EngineOption {
	return func(e *Engine) {
		e.nowFunc = f
	}
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	src SampleSource,
	filters catalog.EbayFilterTable,
	s store.Store,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		source:        src,
		filters:       filters,
		store:         s,
		log:           slog.Default(),
		staggerOffset: 30 * time.Second,
		nowFunc:       time.Now,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// RunSnapshotRefresh recomputes the snapshot for every catalog category
// with an eBay mapping. Per-category failures are collected and joined;
// hitting the daily API limit stops the cycle early without error.
func (eng *Engine) RunSnapshotRefresh(ctx context.Context) error {
	start := time.Now()
	defer func() {
		metrics.SnapshotRefreshDuration.Observe(time.Since(start).Seconds())
	}()

	names := make([]string, 0, len(eng.filters.Categories))
	for name := range eng.filters.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	report := &notify.RefreshReport{}

	var errs []error

	for i, name := range names {
		if ctx.Err() != nil {
			return errors.Join(append(errs, ctx.Err())...)
		}

		err := eng.refreshCategory(ctx, name)
		if err != nil {
			if errors.Is(err, ebay.ErrDailyLimitReached) {
				eng.log.Warn("daily API limit reached, stopping refresh",
					"category", name,
					"completed", i,
				)
				report.Stopped = true
				break
			}
			eng.log.Error("category refresh failed", "category", name, "error", err)
			metrics.SnapshotRefreshErrorsTotal.Inc()
			report.Failed = append(report.Failed, name)
			errs = append(errs, fmt.Errorf("refreshing %s: %w", name, err))
			continue
		}

		report.Refreshed++
		metrics.SnapshotRefreshTotal.Inc()

		// Stagger between categories to avoid API bursts.
		if i < len(names)-1 && eng.staggerOffset > 0 {
			select {
			case <-ctx.Done():
				return errors.Join(append(errs, ctx.Err())...)
			case <-time.After(eng.staggerOffset):
			}
		}
	}

	report.Duration = time.Since(start)
	eng.sendReport(ctx, report)

	return errors.Join(errs...)
}

func (eng *Engine) sendReport(ctx context.Context, report *notify.RefreshReport) {
	if eng.notifier == nil {
		return
	}
	if err := eng.notifier.SendRefreshReport(ctx, report); err != nil {
		eng.log.Warn("refresh report delivery failed", "error", err)
	}
}

func (eng *Engine) refreshCategory(ctx context.Context, name string) error {
	ec := eng.filters.Categories[name]

	items, err := eng.source.Collect(ctx, ebay.SearchRequest{
		Query:      ec.Query,
		CategoryID: ec.ID,
		Filters:    map[string]string{"filter": refreshFilter},
	})
	if err != nil {
		return err
	}

	samples := ebay.ToSamples(items)
	if len(samples) == 0 {
		eng.log.Warn("no priced listings for category", "category", name, "query", ec.Query)
		return nil
	}

	ranked := estimate.RankByRelevance(ec.Query, samples)

	prices := make([]float64, len(ranked))
	for i := range ranked {
		prices[i] = ranked[i].Price
	}

	cleaned := estimate.RemoveOutliers(prices)
	if len(cleaned) == 0 {
		cleaned = prices
	}

	lo, hi := cleaned[0], cleaned[0]
	for _, p := range cleaned[1:] {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}

	snap := &domain.MarketSnapshot{
		Category:    name,
		MinPrice:    lo,
		MaxPrice:    hi,
		AvgPrice:    estimate.Mean(cleaned),
		MedianPrice: estimate.Median(cleaned),
		SampleCount: len(cleaned),
		UpdatedAt:   eng.nowFunc(),
	}

	if err := eng.store.UpsertSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("persisting snapshot: %w", err)
	}

	if eng.cache != nil {
		eng.cache.Put(ctx, snap)
	}

	eng.log.Info("snapshot refreshed",
		"category", name,
		"median", snap.MedianPrice,
		"samples", snap.SampleCount,
	)
	return nil
}
