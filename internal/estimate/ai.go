package estimate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bluberry-labs/price-engine/internal/metrics"
	"github.com/bluberry-labs/price-engine/pkg/llm"
	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

const (
	aiBandPct       = 0.15
	aiTemperature   = 0.2
	aiMaxTokens     = 512
	aiSystemMessage = "You are a pricing analyst for a consignment marketplace. " +
		"You estimate fair used-market resale prices in USD for consumer items. " +
		"Respond only with a JSON object."
)

// AIEstimator prices items by asking an LLM for a structured estimate.
// Strictly slower and less deterministic than the market path, so the
// orchestrator only consults it when live listings yield nothing.
type AIEstimator struct {
	backend llm.Backend
	log     *slog.Logger
}

// AIOption configures the AIEstimator.
type AIOption func(*AIEstimator)

// WithAILogger sets a custom logger.
func WithAILogger(log *slog.Logger) AIOption {
	return func(a *AIEstimator) {
		a.log = log
	}
}

// NewAIEstimator creates an AI estimator over an LLM backend.
func NewAIEstimator(backend llm.Backend, opts ...AIOption) *AIEstimator {
	a := &AIEstimator{
		backend: backend,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name implements Estimator.
func (a *AIEstimator) Name() string {
	return "ai:" + a.backend.Name()
}

type aiPriceResponse struct {
	Price     float64 `json:"price"`
	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
	Reasoning string  `json:"reasoning"`
}

// Estimate implements Estimator. Malformed model output is an error so the
// orchestrator falls through; it is never passed to the caller as a price.
func (a *AIEstimator) Estimate(ctx context.Context, q *domain.PriceQuery) (*domain.PriceEstimate, error) {
	start := time.Now()

	resp, err := a.backend.Generate(ctx, llm.GenerateRequest{
		Prompt:      buildPricePrompt(q),
		SystemMsg:   aiSystemMessage,
		Format:      llm.FormatJSON,
		Temperature: aiTemperature,
		MaxTokens:   aiMaxTokens,
	})
	metrics.LLMCallDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMFailuresTotal.Inc()
		return nil, fmt.Errorf("generating AI estimate: %w", err)
	}

	parsed, err := parseAIResponse(resp.Content)
	if err != nil {
		metrics.LLMFailuresTotal.Inc()
		return nil, fmt.Errorf("parsing AI estimate: %w", err)
	}

	price, lo, hi := reconcilePriceBand(parsed)
	if price <= 0 {
		return nil, fmt.Errorf("AI returned non-positive price: %w", ErrNoEstimate)
	}

	est := domain.NewEstimate(price, lo, hi, domain.ConfidenceMedium, domain.SourceAI)
	est.Reasoning = parsed.Reasoning
	return est, nil
}

// buildPricePrompt renders the item into the structured pricing prompt.
func buildPricePrompt(q *domain.PriceQuery) string {
	var sb strings.Builder
	sb.WriteString("Estimate the used resale price of this item.\n\n")
	fmt.Fprintf(&sb, "Item: %s\n", q.ItemName)
	if q.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", q.Description)
	}
	fmt.Fprintf(&sb, "Condition: %s\n", q.Condition)
	if q.Issues != "" {
		fmt.Fprintf(&sb, "Known issues: %s\n", q.Issues)
	}
	sb.WriteString(`
Respond with a JSON object:
{
  "price": number (point estimate in USD),
  "min_price": number,
  "max_price": number,
  "reasoning": string (one sentence)
}`)
	return sb.String()
}

// parseAIResponse extracts the JSON object from the model output. Models in
// JSON mode still occasionally wrap the object in fences or prose.
func parseAIResponse(content string) (*aiPriceResponse, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model output")
	}

	var parsed aiPriceResponse
	if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshaling model output: %w", err)
	}
	return &parsed, nil
}

// reconcilePriceBand fills whichever of point price and range the model left
// out: a missing band becomes +/-15% of the point price, a missing point
// price becomes the midpoint of the band.
func reconcilePriceBand(r *aiPriceResponse) (price, lo, hi float64) {
	price, lo, hi = r.Price, r.MinPrice, r.MaxPrice

	if price <= 0 && lo > 0 && hi > 0 {
		price = (lo + hi) / 2
	}
	if price > 0 && (lo <= 0 || hi <= 0) {
		lo = price * (1 - aiBandPct)
		hi = price * (1 + aiBandPct)
	}
	return price, lo, hi
}
