package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluberry-labs/price-engine/internal/api/handlers"
	"github.com/bluberry-labs/price-engine/internal/catalog"
	"github.com/bluberry-labs/price-engine/internal/estimate"
	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

func newTestOrchestrator(t *testing.T, estimators ...estimate.Estimator) *estimate.Orchestrator {
	t.Helper()

	filter := estimate.NewContentFilter(catalog.Blocklist{
		Terms: []string{"weapon", "counterfeit"},
	})
	return estimate.NewOrchestrator(filter, estimators, estimate.WithBatchDelay(0))
}

func TestEstimateHandler_Estimate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       map[string]any
		estimators []estimate.Estimator
		wantStatus int
		wantBody   string
	}{
		{
			name: "returns first estimator result",
			body: map[string]any{"item_name": "Sony WH-1000XM4", "condition": "good"},
			estimators: []estimate.Estimator{
				&staticEstimator{
					name: "market",
					est:  domain.NewEstimate(120, 90, 150, domain.ConfidenceHigh, domain.SourceMarket),
				},
			},
			wantStatus: http.StatusOK,
			wantBody:   `"source":"ebay"`,
		},
		{
			name: "falls through to second estimator",
			body: map[string]any{"item_name": "Sony WH-1000XM4"},
			estimators: []estimate.Estimator{
				&staticEstimator{name: "market", err: estimate.ErrNoEstimate},
				&staticEstimator{
					name: "ai",
					est:  domain.NewEstimate(100, 80, 130, domain.ConfidenceMedium, domain.SourceAI),
				},
			},
			wantStatus: http.StatusOK,
			wantBody:   `"source":"openai"`,
		},
		{
			name: "blocked item returns zero-price estimate",
			body: map[string]any{"item_name": "antique weapon"},
			estimators: []estimate.Estimator{
				&staticEstimator{
					name: "market",
					est:  domain.NewEstimate(500, 400, 600, domain.ConfidenceHigh, domain.SourceMarket),
				},
			},
			wantStatus: http.StatusOK,
			wantBody:   `"source":"content_filter"`,
		},
		{
			name:       "all estimators exhausted returns fallback",
			body:       map[string]any{"item_name": "mystery box"},
			estimators: []estimate.Estimator{&staticEstimator{name: "market", err: estimate.ErrNoEstimate}},
			wantStatus: http.StatusOK,
			wantBody:   `"confidence":"low"`,
		},
		{
			name:       "missing item name rejected",
			body:       map[string]any{"condition": "good"},
			estimators: []estimate.Estimator{&staticEstimator{name: "market"}},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			orch := newTestOrchestrator(t, tt.estimators...)
			h := handlers.NewEstimateHandler(orch)

			_, api := humatest.New(t)
			handlers.RegisterEstimateRoutes(api, h)

			resp := api.Post("/api/v1/estimate", tt.body)
			require.Equal(t, tt.wantStatus, resp.Code)
			if tt.wantBody != "" {
				assert.Contains(t, resp.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestEstimateHandler_PersistsEstimates(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		recorded []domain.EstimateRecord
	)
	st := &fakeStore{
		insertEstimateFunc: func(_ context.Context, rec *domain.EstimateRecord) error {
			mu.Lock()
			defer mu.Unlock()
			recorded = append(recorded, *rec)
			return nil
		},
	}

	orch := newTestOrchestrator(t, &staticEstimator{
		name: "market",
		est:  domain.NewEstimate(75, 60, 90, domain.ConfidenceMedium, domain.SourceMarket),
	})
	h := handlers.NewEstimateHandler(orch, handlers.WithEstimateStore(st))

	_, api := humatest.New(t)
	handlers.RegisterEstimateRoutes(api, h)

	resp := api.Post("/api/v1/estimate", map[string]any{
		"item_name": "Nintendo Switch",
		"condition": "Like New",
		"category":  "gaming",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, recorded, 1)
	rec := recorded[0]
	assert.Equal(t, "Nintendo Switch", rec.ItemName)
	assert.Equal(t, "like_new", rec.Condition)
	assert.Equal(t, "gaming", rec.Category)
	assert.InDelta(t, 75.0, rec.Amount, 0.001)
	assert.Equal(t, domain.SourceMarket, rec.Source)
}

func TestEstimateHandler_BlockedNotPersisted(t *testing.T) {
	t.Parallel()

	inserts := 0
	st := &fakeStore{
		insertEstimateFunc: func(context.Context, *domain.EstimateRecord) error {
			inserts++
			return nil
		},
	}

	orch := newTestOrchestrator(t, &staticEstimator{name: "market"})
	h := handlers.NewEstimateHandler(orch, handlers.WithEstimateStore(st))

	_, api := humatest.New(t)
	handlers.RegisterEstimateRoutes(api, h)

	resp := api.Post("/api/v1/estimate", map[string]any{"item_name": "counterfeit watch"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Zero(t, inserts)
}

func TestEstimateHandler_PersistFailureIgnored(t *testing.T) {
	t.Parallel()

	st := &fakeStore{
		insertEstimateFunc: func(context.Context, *domain.EstimateRecord) error {
			return errors.New("db down")
		},
	}

	orch := newTestOrchestrator(t, &staticEstimator{
		name: "market",
		est:  domain.NewEstimate(50, 40, 60, domain.ConfidenceLow, domain.SourceMarket),
	})
	h := handlers.NewEstimateHandler(orch, handlers.WithEstimateStore(st))

	_, api := humatest.New(t)
	handlers.RegisterEstimateRoutes(api, h)

	resp := api.Post("/api/v1/estimate", map[string]any{"item_name": "desk lamp"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"amount":50`)
}

func TestEstimateHandler_Batch(t *testing.T) {
	t.Parallel()

	orch := newTestOrchestrator(t, &staticEstimator{
		name: "market",
		est:  domain.NewEstimate(30, 20, 40, domain.ConfidenceLow, domain.SourceMarket),
	})
	h := handlers.NewEstimateHandler(orch)

	_, api := humatest.New(t)
	handlers.RegisterEstimateRoutes(api, h)

	resp := api.Post("/api/v1/estimate/batch", map[string]any{
		"items": []map[string]any{
			{"item_name": "keyboard"},
			{"item_name": "monitor"},
			{"item_name": "mouse"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"count":3`)
}

func TestEstimateHandler_BatchEmptyRejected(t *testing.T) {
	t.Parallel()

	orch := newTestOrchestrator(t, &staticEstimator{name: "market"})
	h := handlers.NewEstimateHandler(orch)

	_, api := humatest.New(t)
	handlers.RegisterEstimateRoutes(api, h)

	resp := api.Post("/api/v1/estimate/batch", map[string]any{"items": []map[string]any{}})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}
