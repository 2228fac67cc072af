package estimate

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/bluberry-labs/price-engine/internal/catalog"
	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

const (
	localBandPct       = 0.15
	naturalVariation   = 0.10
	snapshotMinSamples = 3
)

// SnapshotReader looks up cached market snapshots by category.
type SnapshotReader interface {
	Get(ctx context.Context, category string) (*domain.MarketSnapshot, bool)
}

// LocalEstimator is the guaranteed fallback. It first consults the curated
// tech price table (a high-confidence shortcut for known electronics), then
// prices algorithmically from category base price and condition adjustment.
// It never returns an error.
type LocalEstimator struct {
	techPrices catalog.TechPriceTable
	conditions catalog.ConditionTable
	detector   *CategoryDetector
	adjuster   *ConditionAdjuster
	snapshots  SnapshotReader
	log        *slog.Logger
	randFunc   func() float64

	// model keys sorted longest-first so the most specific entry wins
	modelKeys []string
}

// LocalOption configures the LocalEstimator.
type LocalOption func(*LocalEstimator)

// WithSnapshots lets the algorithmic path blend cached market averages into
// the category base price.
func WithSnapshots(r SnapshotReader) LocalOption {
	return func(l *LocalEstimator) {
		l.snapshots = r
	}
}

// WithLocalLogger sets a custom logger.
func WithLocalLogger(log *slog.Logger) LocalOption {
	return func(l *LocalEstimator) {
		l.log = log
	}
}

// WithRandFunc overrides the variation source for deterministic tests.
func WithRandFunc(f func() float64) LocalOption {
	return func(l *LocalEstimator) {
		l.randFunc = f
	}
}

// NewLocalEstimator creates the local estimator over the catalog tables.
func NewLocalEstimator(cat *catalog.Catalog, opts ...LocalOption) *LocalEstimator {
	l := &LocalEstimator{
		techPrices: cat.TechPrices,
		conditions: cat.Conditions,
		detector:   NewCategoryDetector(cat.Categories),
		adjuster:   NewConditionAdjuster(cat.Conditions),
		log:        slog.Default(),
		randFunc:   rand.Float64,
	}
	for _, opt := range opts {
		opt(l)
	}

	l.modelKeys = make([]string, 0, len(cat.TechPrices.Models))
	for k := range cat.TechPrices.Models {
		l.modelKeys = append(l.modelKeys, k)
	}
	sort.Slice(l.modelKeys, func(i, j int) bool {
		if len(l.modelKeys[i]) != len(l.modelKeys[j]) {
			return len(l.modelKeys[i]) > len(l.modelKeys[j])
		}
		return l.modelKeys[i] < l.modelKeys[j]
	})

	return l
}

// Name implements Estimator.
func (*LocalEstimator) Name() string {
	return "local"
}

// Estimate implements Estimator. It always succeeds.
func (l *LocalEstimator) Estimate(ctx context.Context, q *domain.PriceQuery) (*domain.PriceEstimate, error) {
	cond := domain.ParseCondition(q.Condition)
	text := q.SearchText()

	if price, model, ok := l.lookupTech(text); ok {
		adjusted := price * l.conditions.TechMultiplier(cond)
		if adjusted < minimumPrice {
			adjusted = minimumPrice
		}
		adjusted = math.Round(adjusted)

		est := domain.NewEstimate(
			adjusted,
			adjusted*(1-localBandPct),
			adjusted*(1+localBandPct),
			domain.ConfidenceHigh,
			domain.SourceLocal,
		)
		est.Reasoning = "matched known product " + model
		return est, nil
	}

	match := l.detector.Detect(q)
	base := match.BasePrice

	if l.snapshots != nil {
		if snap, ok := l.snapshots.Get(ctx, match.Name); ok && snap.SampleCount >= snapshotMinSamples {
			base = (base + snap.AvgPrice) / 2
			l.log.Debug("blended market snapshot into base price",
				"category", match.Name,
				"snapshot_avg", snap.AvgPrice,
				"base", base,
			)
		}
	}

	price := l.adjuster.Adjust(base, cond, q.Description, q.Issues)

	// Natural variation so identical queries don't read as a table lookup.
	price = math.Round(price * (1 - naturalVariation + 2*naturalVariation*l.randFunc()))
	if price < minimumPrice {
		price = minimumPrice
	}

	conf := domain.ConfidenceLow
	if match.Confidence >= 0.7 {
		conf = domain.ConfidenceMedium
	}

	est := domain.NewEstimate(
		price,
		math.Max(minimumPrice, price*(1-localBandPct)),
		price*(1+localBandPct),
		conf,
		domain.SourceLocal,
	)
	est.Reasoning = "algorithmic estimate for category " + match.Name
	return est, nil
}

// lookupTech resolves a known-product price: exact model substring first,
// then family name plus generation marker, then the family's generic guess.
func (l *LocalEstimator) lookupTech(text string) (float64, string, bool) {
	for _, model := range l.modelKeys {
		if strings.Contains(text, model) {
			return l.techPrices.Models[model], model, true
		}
	}

	for _, fam := range l.techPrices.Families {
		if !strings.Contains(text, fam.Name) {
			continue
		}
		markers := make([]string, 0, len(fam.MarkerPrices))
		for m := range fam.MarkerPrices {
			markers = append(markers, m)
		}
		sort.Slice(markers, func(i, j int) bool {
			if len(markers[i]) != len(markers[j]) {
				return len(markers[i]) > len(markers[j])
			}
			return markers[i] > markers[j]
		})
		for _, marker := range markers {
			if strings.Contains(text, marker) {
				return fam.MarkerPrices[marker], fam.Name + " " + marker, true
			}
		}
		return fam.DefaultPrice, fam.Name, true
	}

	return 0, "", false
}
