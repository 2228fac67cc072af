package client

import (
	"context"
	"time"
)

// QuotaResponse reports request quota state across limiters.
type QuotaResponse struct {
	Public *struct {
		Limit     int `json:"limit"`
		Remaining int `json:"remaining"`
	} `json:"public,omitempty"`
	Ebay *struct {
		Used      int64      `json:"used"`
		Limit     int64      `json:"limit"`
		Remaining int64      `json:"remaining"`
		ResetAt   *time.Time `json:"reset_at,omitempty"`
	} `json:"ebay,omitempty"`
	Provider *struct {
		Count      int64      `json:"count"`
		Limit      int64      `json:"limit"`
		Remaining  int64      `json:"remaining"`
		TimeWindow int64      `json:"time_window"`
		ResetAt    *time.Time `json:"reset_at,omitempty"`
	} `json:"provider,omitempty"`
}

// GetQuota returns current quota state.
func (c *Client) GetQuota(ctx context.Context) (*QuotaResponse, error) {
	var resp QuotaResponse
	if err := c.get(ctx, "/api/v1/quota", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
