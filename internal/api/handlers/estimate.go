package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bluberry-labs/price-engine/internal/estimate"
	"github.com/bluberry-labs/price-engine/internal/store"
	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

// maxBatchItems caps how many queries a single batch request may carry.
const maxBatchItems = 25

// EstimateHandler handles price estimation requests.
type EstimateHandler struct {
	orch  *estimate.Orchestrator
	store store.Store
	log   *slog.Logger
}

// EstimateHandlerOption configures an EstimateHandler.
type EstimateHandlerOption func(*EstimateHandler)

// WithEstimateStore enables best-effort persistence of produced estimates.
func WithEstimateStore(s store.Store) EstimateHandlerOption {
	return func(h *EstimateHandler) {
		h.store = s
	}
}

// WithEstimateLogger sets a custom logger.
func WithEstimateLogger(log *slog.Logger) EstimateHandlerOption {
	return func(h *EstimateHandler) {
		h.log = log
	}
}

// NewEstimateHandler creates a new EstimateHandler.
func NewEstimateHandler(orch *estimate.Orchestrator, opts ...EstimateHandlerOption) *EstimateHandler {
	h := &EstimateHandler{
		orch: orch,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EstimateInput is the request body for the estimate endpoint.
type EstimateInput struct {
	Body struct {
		ItemName    string `json:"item_name"             minLength:"1" maxLength:"500" doc:"Item title" example:"Sony WH-1000XM4 headphones"`
		Description string `json:"description,omitempty"               maxLength:"5000" doc:"Free-text item description"`
		Condition   string `json:"condition,omitempty"                                  doc:"Item condition" example:"good"`
		Issues      string `json:"issues,omitempty"                                     doc:"Known defects or issues"`
		Category    string `json:"category,omitempty"                                   doc:"Category hint" example:"electronics"`
	}
}

// EstimateOutput is the response body for the estimate endpoint.
type EstimateOutput struct {
	Body domain.PriceEstimate
}

// EstimateBatchInput is the request body for the batch estimate endpoint.
type EstimateBatchInput struct {
	Body struct {
		Items []domain.PriceQuery `json:"items" minItems:"1" maxItems:"25" doc:"Queries to price in order"`
	}
}

// EstimateBatchOutput is the response body for the batch estimate endpoint.
type EstimateBatchOutput struct {
	Body struct {
		Estimates []*domain.PriceEstimate `json:"estimates" doc:"One estimate per input item, in input order"`
		Count     int                     `json:"count"     doc:"Number of estimates returned"`
	}
}

// Estimate prices a single item through the estimator chain.
func (h *EstimateHandler) Estimate(ctx context.Context, input *EstimateInput) (*EstimateOutput, error) {
	q := &domain.PriceQuery{
		ItemName:    input.Body.ItemName,
		Description: input.Body.Description,
		Condition:   input.Body.Condition,
		Issues:      input.Body.Issues,
		Category:    input.Body.Category,
	}

	est := h.orch.Estimate(ctx, q)
	h.persist(ctx, q, est)

	return &EstimateOutput{Body: *est}, nil
}

// EstimateBatch prices up to maxBatchItems items sequentially.
func (h *EstimateHandler) EstimateBatch(
	ctx context.Context,
	input *EstimateBatchInput,
) (*EstimateBatchOutput, error) {
	if len(input.Body.Items) > maxBatchItems {
		return nil, huma.Error422UnprocessableEntity("too many items in batch")
	}

	ests := h.orch.EstimateBatch(ctx, input.Body.Items)
	for i, est := range ests {
		h.persist(ctx, &input.Body.Items[i], est)
	}

	out := &EstimateBatchOutput{}
	out.Body.Estimates = ests
	out.Body.Count = len(ests)
	return out, nil
}

// persist writes an estimate to history. Failures are logged, never
// surfaced; history is an audit trail, not part of the request contract.
// Blocked queries are not recorded.
func (h *EstimateHandler) persist(ctx context.Context, q *domain.PriceQuery, est *domain.PriceEstimate) {
	if h.store == nil || est.Source == domain.SourceContentFilter {
		return
	}

	rec := &domain.EstimateRecord{
		ItemName:   q.ItemName,
		Condition:  string(domain.ParseCondition(q.Condition)),
		Category:   q.Category,
		Amount:     est.Amount,
		MinPrice:   est.MinPrice,
		MaxPrice:   est.MaxPrice,
		Confidence: est.Confidence,
		Source:     est.Source,
	}
	if err := h.store.InsertEstimate(ctx, rec); err != nil {
		h.log.Warn("failed to record estimate", "item", q.ItemName, "error", err)
	}
}

// RegisterEstimateRoutes registers estimate endpoints with the Huma API.
func RegisterEstimateRoutes(api huma.API, h *EstimateHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "estimate-price",
		Method:      http.MethodPost,
		Path:        "/api/v1/estimate",
		Summary:     "Estimate an item's resale price",
		Description: "Runs the full estimator chain for one item and returns the first usable estimate.",
		Tags:        []string{"estimates"},
	}, h.Estimate)

	huma.Register(api, huma.Operation{
		OperationID: "estimate-price-batch",
		Method:      http.MethodPost,
		Path:        "/api/v1/estimate/batch",
		Summary:     "Estimate prices for a batch of items",
		Description: "Prices each item sequentially, pacing calls to upstream APIs. Order is preserved.",
		Tags:        []string{"estimates"},
		Errors:      []int{http.StatusUnprocessableEntity},
	}, h.EstimateBatch)
}
