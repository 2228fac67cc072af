package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluberry-labs/price-engine/internal/api/handlers"
	"github.com/bluberry-labs/price-engine/internal/catalog"
	"github.com/bluberry-labs/price-engine/internal/ebay"
	"github.com/bluberry-labs/price-engine/internal/estimate"
)

// fakeEbayClient returns a canned search response.
type fakeEbayClient struct {
	resp *ebay.SearchResponse
	err  error
}

func (c *fakeEbayClient) Search(context.Context, ebay.SearchRequest) (*ebay.SearchResponse, error) {
	return c.resp, c.err
}

func listingItems(query string, prices ...float64) []ebay.ItemSummary {
	items := make([]ebay.ItemSummary, len(prices))
	for i, p := range prices {
		items[i] = ebay.ItemSummary{
			ItemID: fmt.Sprintf("v1|%d|0", i),
			Title:  query,
			Price:  ebay.ItemPrice{Value: fmt.Sprintf("%.2f", p), Currency: "USD"},
		}
	}
	return items
}

func newMarketHandler(t *testing.T, client ebay.Client) *handlers.MarketHandler {
	t.Helper()

	cat, err := catalog.Load()
	require.NoError(t, err)

	return handlers.NewMarketHandler(estimate.NewMarketEstimator(client, cat))
}

func TestMarketEstimate(t *testing.T) {
	t.Parallel()

	client := &fakeEbayClient{
		resp: &ebay.SearchResponse{
			Items: listingItems("iPhone 13 Pro", 420, 450, 460, 470, 480, 500, 510),
			Total: 7,
		},
	}
	h := newMarketHandler(t, client)

	_, api := humatest.New(t)
	handlers.RegisterMarketRoutes(api, h)

	resp := api.Get("/api/v1/market-estimate?query=iPhone+13+Pro&condition=good")
	require.Equal(t, http.StatusOK, resp.Code)

	body := resp.Body.String()
	assert.Contains(t, body, `"sample_count":7`)
	assert.Contains(t, body, `"median_price":470`)
	assert.Contains(t, body, `"condition":"good"`)
	assert.Contains(t, body, `"samples":[`)
}

func TestMarketEstimate_NoListings(t *testing.T) {
	t.Parallel()

	client := &fakeEbayClient{resp: &ebay.SearchResponse{}}
	h := newMarketHandler(t, client)

	_, api := humatest.New(t)
	handlers.RegisterMarketRoutes(api, h)

	resp := api.Get("/api/v1/market-estimate?query=obscure+thing")
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestMarketEstimate_UpstreamError(t *testing.T) {
	t.Parallel()

	client := &fakeEbayClient{err: errors.New("ebay API returned status 500")}
	h := newMarketHandler(t, client)

	_, api := humatest.New(t)
	handlers.RegisterMarketRoutes(api, h)

	resp := api.Get("/api/v1/market-estimate?query=iPhone")
	require.Equal(t, http.StatusBadGateway, resp.Code)
}

func TestMarketEstimate_NotConfigured(t *testing.T) {
	t.Parallel()

	h := handlers.NewMarketHandler(nil)

	_, api := humatest.New(t)
	handlers.RegisterMarketRoutes(api, h)

	resp := api.Get("/api/v1/market-estimate?query=iPhone")
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestMarketEstimate_MissingQuery(t *testing.T) {
	t.Parallel()

	h := handlers.NewMarketHandler(nil)

	_, api := humatest.New(t)
	handlers.RegisterMarketRoutes(api, h)

	resp := api.Get("/api/v1/market-estimate")
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}
