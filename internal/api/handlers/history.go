package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bluberry-labs/price-engine/internal/store"
	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

// HistoryHandler handles estimate history query endpoints.
type HistoryHandler struct {
	store store.Store
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(s store.Store) *HistoryHandler {
	return &HistoryHandler{store: s}
}

// ListEstimatesInput is the input for listing past estimates.
type ListEstimatesInput struct {
	Source     string `query:"source"     doc:"Filter by estimate source"     enum:"ebay,openai,local,"`
	Confidence string `query:"confidence" doc:"Filter by confidence bucket"   enum:"low,medium,high,"`
	Category   string `query:"category"   doc:"Filter by category"`
	Since      string `query:"since"      doc:"Only estimates created at or after this RFC 3339 timestamp"`
	Limit      int    `query:"limit"      doc:"Number of results (default 50)" minimum:"1" maximum:"500"`
	Offset     int    `query:"offset"     doc:"Pagination offset"              minimum:"0"`
	OrderBy    string `query:"order_by"   doc:"Sort field"                     enum:"created_at,amount,"`
}

// ListEstimatesOutput is the response for listing past estimates.
type ListEstimatesOutput struct {
	Body struct {
		Estimates []domain.EstimateRecord `json:"estimates"`
		Total     int                     `json:"total"`
		Limit     int                     `json:"limit"`
		Offset    int                     `json:"offset"`
	}
}

// ListEstimates returns persisted estimates with optional filters and
// pagination.
func (h *HistoryHandler) ListEstimates(
	ctx context.Context,
	input *ListEstimatesInput,
) (*ListEstimatesOutput, error) {
	q := &store.EstimateQuery{
		Offset:  input.Offset,
		OrderBy: input.OrderBy,
	}

	if input.Source != "" {
		q.Source = &input.Source
	}

	if input.Confidence != "" {
		q.Confidence = &input.Confidence
	}

	if input.Category != "" {
		q.Category = &input.Category
	}

	if input.Since != "" {
		since, err := time.Parse(time.RFC3339, input.Since)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("since must be an RFC 3339 timestamp")
		}
		q.Since = &since
	}

	if input.Limit != 0 {
		q.Limit = input.Limit
	}

	records, total, err := h.store.ListEstimates(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("estimate query failed: " + err.Error())
	}

	resp := &ListEstimatesOutput{}
	resp.Body.Estimates = records
	resp.Body.Total = total
	resp.Body.Limit = q.Limit
	resp.Body.Offset = q.Offset

	return resp, nil
}

// RegisterHistoryRoutes registers estimate history endpoints with the Huma API.
func RegisterHistoryRoutes(api huma.API, h *HistoryHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-estimates",
		Method:      http.MethodGet,
		Path:        "/api/v1/estimates",
		Summary:     "List past estimates",
		Description: "Returns persisted estimates, newest first by default, with optional filters.",
		Tags:        []string{"estimates"},
		Errors: []int{
			http.StatusUnprocessableEntity,
			http.StatusInternalServerError,
		},
	}, h.ListEstimates)
}
