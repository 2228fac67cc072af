package estimate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bluberry-labs/price-engine/internal/catalog"
	"github.com/bluberry-labs/price-engine/internal/ebay"
	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

const (
	defaultMaxListings = 100

	highConfidenceMinSamples   = 20
	highConfidenceMaxCoV       = 0.5
	mediumConfidenceMinSamples = 10
	mediumConfidenceMaxCoV     = 0.8
)

// MarketResult holds the robust statistics computed over live listings.
type MarketResult struct {
	Samples     []domain.ListingSample
	MinPrice    float64
	MaxPrice    float64
	MeanPrice   float64
	MedianPrice float64
	StdDev      float64
	SampleSize  int
	Confidence  domain.Confidence
}

// MarketEstimator prices items from live eBay listings: fetch, score
// relevance, trim to the strongest matches, strip outliers, aggregate.
type MarketEstimator struct {
	client      ebay.Client
	filters     catalog.EbayFilterTable
	detector    *CategoryDetector
	sink        SnapshotSink
	maxListings int
	log         *slog.Logger
}

// MarketOption configures the MarketEstimator.
type MarketOption func(*MarketEstimator)

// WithSnapshotSink publishes a category snapshot after each successful
// aggregation.
func WithSnapshotSink(s SnapshotSink) MarketOption {
	return func(m *MarketEstimator) {
		m.sink = s
	}
}

// WithMaxListings caps how many listings a single search requests.
func WithMaxListings(n int) MarketOption {
	return func(m *MarketEstimator) {
		m.maxListings = n
	}
}

// WithMarketLogger sets a custom logger.
func WithMarketLogger(log *slog.Logger) MarketOption {
	return func(m *MarketEstimator) {
		m.log = log
	}
}

// NewMarketEstimator creates a market estimator over an eBay client.
func NewMarketEstimator(
	client ebay.Client,
	cat *catalog.Catalog,
	opts ...MarketOption,
) *MarketEstimator {
	m := &MarketEstimator{
		client:      client,
		filters:     cat.EbayFilters,
		detector:    NewCategoryDetector(cat.Categories),
		maxListings: defaultMaxListings,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name implements Estimator.
func (*MarketEstimator) Name() string {
	return "market"
}

// Estimate implements Estimator by aggregating live listings for the item
// title. Failures and empty markets surface as errors so the orchestrator
// falls through; they are never fatal to the request.
func (m *MarketEstimator) Estimate(ctx context.Context, q *domain.PriceQuery) (*domain.PriceEstimate, error) {
	cond := domain.ParseCondition(q.Condition)
	category := m.detector.Detect(q).Name

	result, err := m.Aggregate(ctx, q.ItemName, cond, category, m.maxListings)
	if err != nil {
		return nil, err
	}

	est := domain.NewEstimate(
		result.MedianPrice,
		result.MinPrice,
		result.MaxPrice,
		result.Confidence,
		domain.SourceMarket,
	)
	est.ReferenceCount = result.SampleSize
	est.Reasoning = fmt.Sprintf("median of %d comparable eBay listings", result.SampleSize)
	return est, nil
}

// Aggregate runs a Browse search and computes robust statistics over the
// returned listings. Returns ErrNoEstimate (wrapped) when no usable listings
// survive filtering.
func (m *MarketEstimator) Aggregate(
	ctx context.Context,
	query string,
	cond domain.Condition,
	category string,
	limit int,
) (*MarketResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query: %w", ErrNoEstimate)
	}
	if limit <= 0 || limit > defaultMaxListings {
		limit = defaultMaxListings
	}

	req := ebay.SearchRequest{
		Query:      query,
		CategoryID: m.filters.Categories[category].ID,
		Limit:      limit,
		Filters:    map[string]string{"filter": m.buildFilter(cond)},
	}

	resp, err := m.client.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("searching market listings: %w", err)
	}

	samples := ebay.ToSamples(resp.Items)
	if len(samples) == 0 {
		return nil, fmt.Errorf("no priced listings for %q: %w", query, ErrNoEstimate)
	}

	ranked := RankByRelevance(query, samples)

	prices := make([]float64, len(ranked))
	for i := range ranked {
		prices[i] = ranked[i].Price
	}

	cleaned := RemoveOutliers(prices)
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("all listings rejected as outliers for %q: %w", query, ErrNoEstimate)
	}
	if !retainCleaned(len(prices), len(cleaned)) {
		// Removal ate too much of the sample; the "outliers" were the market.
		cleaned = prices
	}

	lo, hi := minMax(cleaned)
	result := &MarketResult{
		Samples:     ranked,
		MinPrice:    lo,
		MaxPrice:    hi,
		MeanPrice:   Mean(cleaned),
		MedianPrice: Median(cleaned),
		StdDev:      StdDev(cleaned),
		SampleSize:  len(cleaned),
		Confidence:  marketConfidence(cleaned),
	}

	m.log.Debug("market aggregation complete",
		"query", query,
		"fetched", len(samples),
		"ranked", len(ranked),
		"final", len(cleaned),
		"median", result.MedianPrice,
		"confidence", result.Confidence,
	)

	if m.sink != nil && category != "" {
		m.sink.Put(ctx, &domain.MarketSnapshot{
			Category:    category,
			MinPrice:    result.MinPrice,
			MaxPrice:    result.MaxPrice,
			AvgPrice:    result.MeanPrice,
			MedianPrice: result.MedianPrice,
			SampleCount: result.SampleSize,
		})
	}

	return result, nil
}

// buildFilter assembles the Browse API filter expression: fixed-price
// listings, USD pricing, and the condition ID set when one is mapped.
func (m *MarketEstimator) buildFilter(cond domain.Condition) string {
	parts := []string{
		"buyingOptions:{FIXED_PRICE|BEST_OFFER}",
		"priceCurrency:USD",
	}
	if ids := m.filters.ConditionIDFilter(cond); ids != "" {
		parts = append(parts, "conditionIds:{"+ids+"}")
	}
	return strings.Join(parts, ",")
}

func marketConfidence(prices []float64) domain.Confidence {
	cov := CoefficientOfVariation(prices)
	switch {
	case len(prices) >= highConfidenceMinSamples && cov < highConfidenceMaxCoV:
		return domain.ConfidenceHigh
	case len(prices) >= mediumConfidenceMinSamples && cov < mediumConfidenceMaxCoV:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}
