package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bluberry-labs/price-engine/internal/estimate"
	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

// MarketHandler exposes raw market aggregation, bypassing the fallback
// chain. Useful for debugging relevance scoring and outlier trimming.
type MarketHandler struct {
	market *estimate.MarketEstimator
}

// NewMarketHandler creates a new MarketHandler. A nil estimator is allowed
// when eBay credentials are not configured; requests then return 503.
func NewMarketHandler(m *estimate.MarketEstimator) *MarketHandler {
	return &MarketHandler{market: m}
}

// MarketEstimateInput is the input for the market estimate endpoint.
type MarketEstimateInput struct {
	Query     string `query:"query"     required:"true" minLength:"1" doc:"Search query" example:"iPhone 13 Pro 256GB"`
	Condition string `query:"condition"                               doc:"Item condition" example:"good"`
	Category  string `query:"category"                                doc:"Category name used to pick eBay category filters"`
	Limit     int    `query:"limit"                                   doc:"Maximum listings to sample (default 100)" minimum:"1" maximum:"100"`
}

// MarketEstimateOutput is the response for the market estimate endpoint.
type MarketEstimateOutput struct {
	Body struct {
		Query       string                 `json:"query"`
		Condition   domain.Condition       `json:"condition"`
		Category    string                 `json:"category,omitempty"`
		MinPrice    float64                `json:"min_price"`
		MaxPrice    float64                `json:"max_price"`
		MeanPrice   float64                `json:"mean_price"`
		MedianPrice float64                `json:"median_price"`
		StdDev      float64                `json:"std_dev"`
		SampleCount int                    `json:"sample_count"`
		Confidence  domain.Confidence      `json:"confidence"`
		Samples     []domain.ListingSample `json:"samples,omitempty" doc:"Relevance-ranked listings the statistics were computed from"`
	}
}

// MarketEstimate aggregates live listings for a query and returns the
// robust statistics without consulting any other estimator.
func (h *MarketHandler) MarketEstimate(
	ctx context.Context,
	input *MarketEstimateInput,
) (*MarketEstimateOutput, error) {
	if h.market == nil {
		return nil, huma.Error503ServiceUnavailable("market estimation is not configured")
	}

	cond := domain.ParseCondition(input.Condition)

	result, err := h.market.Aggregate(ctx, input.Query, cond, input.Category, input.Limit)
	if err != nil {
		if errors.Is(err, estimate.ErrNoEstimate) {
			return nil, huma.Error404NotFound("no comparable listings found")
		}
		return nil, huma.Error502BadGateway("market lookup failed: " + err.Error())
	}

	out := &MarketEstimateOutput{}
	out.Body.Query = input.Query
	out.Body.Condition = cond
	out.Body.Category = input.Category
	out.Body.MinPrice = result.MinPrice
	out.Body.MaxPrice = result.MaxPrice
	out.Body.MeanPrice = result.MeanPrice
	out.Body.MedianPrice = result.MedianPrice
	out.Body.StdDev = result.StdDev
	out.Body.SampleCount = result.SampleSize
	out.Body.Confidence = result.Confidence
	out.Body.Samples = result.Samples
	return out, nil
}

// RegisterMarketRoutes registers the market estimate endpoint with the Huma API.
func RegisterMarketRoutes(api huma.API, h *MarketHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "market-estimate",
		Method:      http.MethodGet,
		Path:        "/api/v1/market-estimate",
		Summary:     "Aggregate live market listings",
		Description: "Searches eBay, ranks listings by relevance, strips outliers, and returns price statistics.",
		Tags:        []string{"market"},
		Errors: []int{
			http.StatusNotFound,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
		},
	}, h.MarketEstimate)
}
