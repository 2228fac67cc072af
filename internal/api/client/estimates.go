package client

import (
	"context"
	"net/url"
	"strconv"

	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

// Estimate prices a single item through the full estimator chain.
func (c *Client) Estimate(ctx context.Context, q *domain.PriceQuery) (*domain.PriceEstimate, error) {
	var est domain.PriceEstimate
	if err := c.post(ctx, "/api/v1/estimate", q, &est); err != nil {
		return nil, err
	}
	return &est, nil
}

// EstimateBatch prices a batch of items in order.
func (c *Client) EstimateBatch(
	ctx context.Context,
	queries []domain.PriceQuery,
) ([]*domain.PriceEstimate, error) {
	body := map[string]any{"items": queries}

	var resp struct {
		Estimates []*domain.PriceEstimate `json:"estimates"`
		Count     int                     `json:"count"`
	}
	if err := c.post(ctx, "/api/v1/estimate/batch", body, &resp); err != nil {
		return nil, err
	}
	return resp.Estimates, nil
}

// EstimatesResponse wraps a paginated estimate history response.
type EstimatesResponse struct {
	Estimates []domain.EstimateRecord `json:"estimates"`
	Total     int                     `json:"total"`
}

// ListEstimatesParams defines query parameters for history queries.
type ListEstimatesParams struct {
	Source     string
	Confidence string
	Category   string
	Since      string
	Limit      int
	Offset     int
	OrderBy    string
}

// ListEstimates returns persisted estimates matching the given parameters.
func (c *Client) ListEstimates(
	ctx context.Context,
	params *ListEstimatesParams,
) (*EstimatesResponse, error) {
	q := url.Values{}
	if params.Source != "" {
		q.Set("source", params.Source)
	}
	if params.Confidence != "" {
		q.Set("confidence", params.Confidence)
	}
	if params.Category != "" {
		q.Set("category", params.Category)
	}
	if params.Since != "" {
		q.Set("since", params.Since)
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}
	if params.OrderBy != "" {
		q.Set("order_by", params.OrderBy)
	}

	path := "/api/v1/estimates"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp EstimatesResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
