package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/bluberry-labs/price-engine/internal/metrics"
)

// Quota guards the public estimate endpoints with a shared token bucket.
// Capacity refills continuously at requests/window instead of resetting on
// a fixed boundary, so a burst that empties the bucket recovers gradually
// rather than punishing callers until the top of the hour. Exhaustion
// returns 429 with a Retry-After hint.
type Quota struct {
	limiter *rate.Limiter
	retry   time.Duration
}

// NewQuota creates a quota allowing requests per window, with burst capacity
// equal to the full allowance.
func NewQuota(requests int, window time.Duration) *Quota {
	perSecond := float64(requests) / window.Seconds()
	return &Quota{
		limiter: rate.NewLimiter(rate.Limit(perSecond), requests),
		retry:   time.Duration(1/perSecond) * time.Second,
	}
}

// Remaining returns the currently available request allowance, floored to
// an integer for reporting.
func (q *Quota) Remaining() int {
	return int(q.limiter.Tokens())
}

// Limit returns the configured burst allowance.
func (q *Quota) Limit() int {
	return q.limiter.Burst()
}

// Middleware returns Echo middleware enforcing the quota.
func (q *Quota) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !q.limiter.Allow() {
				metrics.QuotaRejectionsTotal.Inc()
				c.Response().Header().Set("Retry-After", retryAfterSeconds(q.retry))
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "request quota exceeded, try again later",
				})
			}
			return next(c)
		}
	}
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
