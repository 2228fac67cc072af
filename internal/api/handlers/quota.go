package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bluberry-labs/price-engine/internal/api/middleware"
	"github.com/bluberry-labs/price-engine/internal/ebay"
)

// BrowseQuotaFetcher reports provider-side rate limit state for the eBay
// Browse API. *ebay.AnalyticsClient implements it.
type BrowseQuotaFetcher interface {
	GetBrowseQuota(ctx context.Context) (*ebay.QuotaState, error)
}

// QuotaHandler reports request quota state: the public per-instance limiter,
// the local eBay call budget, and optionally eBay's own view of the quota.
type QuotaHandler struct {
	public    *middleware.Quota
	ebayLimit *ebay.RateLimiter
	analytics BrowseQuotaFetcher
	log       *slog.Logger
}

// QuotaHandlerOption configures a QuotaHandler.
type QuotaHandlerOption func(*QuotaHandler)

// WithBrowseQuota adds provider-side quota reporting.
func WithBrowseQuota(f BrowseQuotaFetcher) QuotaHandlerOption {
	return func(h *QuotaHandler) {
		h.analytics = f
	}
}

// WithQuotaLogger sets a custom logger.
func WithQuotaLogger(log *slog.Logger) QuotaHandlerOption {
	return func(h *QuotaHandler) {
		h.log = log
	}
}

// NewQuotaHandler creates a new QuotaHandler. Either limiter may be nil;
// the corresponding section is then reported as absent.
func NewQuotaHandler(public *middleware.Quota, rl *ebay.RateLimiter, opts ...QuotaHandlerOption) *QuotaHandler {
	h := &QuotaHandler{
		public:    public,
		ebayLimit: rl,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// PublicQuota describes the instance-wide request limiter.
type PublicQuota struct {
	Limit     int `json:"limit"     doc:"Burst capacity of the request limiter" example:"100"`
	Remaining int `json:"remaining" doc:"Whole tokens currently available"      example:"97"`
}

// EbayQuota describes the locally tracked eBay daily call budget.
type EbayQuota struct {
	Used      int64      `json:"used"               doc:"Calls made in the current window" example:"42"`
	Limit     int64      `json:"limit"              doc:"Daily call limit"                 example:"5000"`
	Remaining int64      `json:"remaining"          doc:"Calls left in the current window" example:"4958"`
	ResetAt   *time.Time `json:"reset_at,omitempty" doc:"When the daily window resets"`
}

// ProviderQuota describes eBay's own view of the Browse API quota.
type ProviderQuota struct {
	Count      int64      `json:"count"       doc:"Calls counted by eBay"`
	Limit      int64      `json:"limit"       doc:"Limit reported by eBay"`
	Remaining  int64      `json:"remaining"   doc:"Remaining calls reported by eBay"`
	TimeWindow int64      `json:"time_window" doc:"Window length in seconds"`
	ResetAt    *time.Time `json:"reset_at,omitempty" doc:"Window reset time reported by eBay"`
}

// QuotaOutput is the response for the quota endpoint.
type QuotaOutput struct {
	Body struct {
		Public   *PublicQuota   `json:"public,omitempty"   doc:"Instance-wide request limiter state"`
		Ebay     *EbayQuota     `json:"ebay,omitempty"     doc:"Locally tracked eBay call budget"`
		Provider *ProviderQuota `json:"provider,omitempty" doc:"eBay-reported Browse API quota, when the Analytics API is reachable"`
	}
}

// GetQuota returns current quota state. Provider-side state is best effort:
// an Analytics API failure is logged and the section omitted.
func (h *QuotaHandler) GetQuota(ctx context.Context, _ *struct{}) (*QuotaOutput, error) {
	out := &QuotaOutput{}

	if h.public != nil {
		out.Body.Public = &PublicQuota{
			Limit:     h.public.Limit(),
			Remaining: h.public.Remaining(),
		}
	}

	if h.ebayLimit != nil {
		u := h.ebayLimit.Usage()
		eq := &EbayQuota{
			Used:      u.Used,
			Limit:     u.Limit,
			Remaining: u.Limit - u.Used,
		}
		if !u.ResetAt.IsZero() {
			reset := u.ResetAt
			eq.ResetAt = &reset
		}
		out.Body.Ebay = eq
	}

	if h.analytics != nil {
		state, err := h.analytics.GetBrowseQuota(ctx)
		if err != nil {
			h.log.Warn("failed to fetch provider quota", "error", err)
		} else {
			pq := &ProviderQuota{
				Count:      state.Count,
				Limit:      state.Limit,
				Remaining:  state.Remaining,
				TimeWindow: int64(state.TimeWindow.Seconds()),
			}
			if !state.ResetAt.IsZero() {
				reset := state.ResetAt
				pq.ResetAt = &reset
			}
			out.Body.Provider = pq
		}
	}

	return out, nil
}

// RegisterQuotaRoutes registers the quota endpoint with the Huma API.
func RegisterQuotaRoutes(api huma.API, h *QuotaHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-quota",
		Method:      http.MethodGet,
		Path:        "/api/v1/quota",
		Summary:     "Get request quota state",
		Description: "Reports the public request limiter, the local eBay call budget, and eBay's own quota view when available.",
		Tags:        []string{"quota"},
	}, h.GetQuota)
}
