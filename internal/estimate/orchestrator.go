package estimate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bluberry-labs/price-engine/internal/metrics"
	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

const defaultBatchDelay = 100 * time.Millisecond

// fallbackEstimate is returned only if every estimator, including the local
// backstop, is somehow absent or failing. It keeps the external contract
// "always returns an estimate" unconditional.
func fallbackEstimate() *domain.PriceEstimate {
	return domain.NewEstimate(30, 25, 35, domain.ConfidenceLow, domain.SourceLocal)
}

// Orchestrator runs the estimator chain in fixed priority order and returns
// the first usable result. Estimator failures advance the chain; they never
// propagate to the caller.
type Orchestrator struct {
	filter     *ContentFilter
	estimators []Estimator
	log        *slog.Logger
	tracer     trace.Tracer
	batchDelay time.Duration
}

// OrchestratorOption configures the Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithOrchestratorLogger sets a custom logger.
func WithOrchestratorLogger(log *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.log = log
	}
}

// WithBatchDelay overrides the spacing between batch items.
func WithBatchDelay(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.batchDelay = d
	}
}

// NewOrchestrator creates an orchestrator over an ordered estimator chain.
// The last estimator should be the local backstop; the chain order is the
// caller's policy decision.
func NewOrchestrator(filter *ContentFilter, estimators []Estimator, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		filter:     filter,
		estimators: estimators,
		log:        slog.Default(),
		tracer:     otel.Tracer("price-engine/estimate"),
		batchDelay: defaultBatchDelay,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Estimate runs the chain for one query. It always returns a non-nil
// estimate with MinPrice <= Amount <= MaxPrice.
func (o *Orchestrator) Estimate(ctx context.Context, q *domain.PriceQuery) *domain.PriceEstimate {
	ctx, span := o.tracer.Start(ctx, "orchestrator.estimate")
	defer span.End()

	start := time.Now()
	est := o.run(ctx, q)
	est.Clamp()

	metrics.EstimateDuration.Observe(time.Since(start).Seconds())
	metrics.EstimateRequestsTotal.WithLabelValues(string(est.Source)).Inc()

	span.SetAttributes(
		attribute.String("estimate.source", string(est.Source)),
		attribute.String("estimate.confidence", string(est.Confidence)),
		attribute.Float64("estimate.amount", est.Amount),
	)
	return est
}

func (o *Orchestrator) run(ctx context.Context, q *domain.PriceQuery) *domain.PriceEstimate {
	if term, blocked := o.filter.Blocked(q); blocked {
		o.log.Info("query blocked by content policy",
			"item", q.ItemName,
			"term", term,
		)
		return BlockedEstimate()
	}

	for _, e := range o.estimators {
		est, err := o.tryEstimator(ctx, e, q)
		if err == nil {
			return est
		}

		metrics.EstimatorFailuresTotal.WithLabelValues(e.Name()).Inc()
		if errors.Is(err, ErrNoEstimate) {
			o.log.Debug("estimator had no estimate", "estimator", e.Name(), "item", q.ItemName)
			continue
		}
		o.log.Warn("estimator failed, falling through",
			"estimator", e.Name(),
			"item", q.ItemName,
			"error", err,
		)
	}

	o.log.Error("all estimators exhausted, returning fallback constant", "item", q.ItemName)
	return fallbackEstimate()
}

func (o *Orchestrator) tryEstimator(
	ctx context.Context,
	e Estimator,
	q *domain.PriceQuery,
) (*domain.PriceEstimate, error) {
	ctx, span := o.tracer.Start(ctx, "estimator."+e.Name())
	defer span.End()

	metrics.EstimatorAttemptsTotal.WithLabelValues(e.Name()).Inc()

	est, err := e.Estimate(ctx, q)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if est == nil || est.Amount <= 0 {
		// A zero price from a live source is "nothing usable", not an answer.
		return nil, ErrNoEstimate
	}
	return est, nil
}

// EstimateBatch prices queries sequentially with a fixed delay between
// calls, a courtesy pause toward the upstream APIs rather than real
// backpressure. Respects context cancellation between items.
func (o *Orchestrator) EstimateBatch(ctx context.Context, queries []domain.PriceQuery) []*domain.PriceEstimate {
	results := make([]*domain.PriceEstimate, 0, len(queries))

	for i := range queries {
		if i > 0 {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(o.batchDelay):
			}
		}
		results = append(results, o.Estimate(ctx, &queries[i]))
	}
	return results
}
