package client

import (
	"context"
	"net/url"
	"strconv"

	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

// MarketEstimateParams defines parameters for a raw market aggregation.
type MarketEstimateParams struct {
	Query     string
	Condition string
	Category  string
	Limit     int
}

// MarketEstimateResponse holds the statistics computed over live listings.
type MarketEstimateResponse struct {
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
	Samples     []domain.ListingSample `json:"samples,omitempty"`
}

// MarketEstimate aggregates live market listings for a query.
func (c *Client) MarketEstimate(
	ctx context.Context,
	params *MarketEstimateParams,
) (*MarketEstimateResponse, error) {
	q := url.Values{}
	q.Set("query", params.Query)
	if params.Condition != "" {
		q.Set("condition", params.Condition)
	}
	if params.Category != "" {
		q.Set("category", params.Category)
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}

	var resp MarketEstimateResponse
	if err := c.get(ctx, "/api/v1/market-estimate?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
