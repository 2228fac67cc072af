// Package domain defines the core business types for the price engine.
package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Condition represents a normalized item condition label.
type Condition string

// Condition constants.
const (
	ConditionNew       Condition = "new"
	ConditionLikeNew   Condition = "like_new"
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
	ConditionForParts  Condition = "for_parts"
	ConditionUnknown   Condition = "unknown"
)

// conditionVariants maps raw condition strings (seller-supplied or eBay) to
// normalized conditions.
var conditionVariants = map[string]Condition{
	// identity mappings
	"new":       ConditionNew,
	"like_new":  ConditionLikeNew,
	"excellent": ConditionExcellent,
	"good":      ConditionGood,
	"fair":      ConditionFair,
	"poor":      ConditionPoor,
	"for_parts": ConditionForParts,
	"unknown":   ConditionUnknown,
	// common variants
	"brand new":      ConditionNew,
	"new in box":     ConditionNew,
	"factory sealed": ConditionNew,
	"like new":       ConditionLikeNew,
	"open box":       ConditionLikeNew,
	"mint":           ConditionLikeNew,
	"very good":      ConditionExcellent,
	"refurbished":    ConditionExcellent,
	"used":           ConditionGood,
	"pre-owned":      ConditionGood,
	"acceptable":     ConditionFair,
	"worn":           ConditionPoor,
	"for parts":      ConditionForParts,
	"parts only":     ConditionForParts,
	"not working":    ConditionForParts,
	"as-is":          ConditionForParts,
	"broken":         ConditionForParts,
}

// ParseCondition maps a raw condition string to a normalized Condition.
// Unrecognized or empty input maps to ConditionUnknown; callers never see
// an error for a strange label, they get the lenient default.
func ParseCondition(raw string) Condition {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return ConditionUnknown
	}
	if c, ok := conditionVariants[normalized]; ok {
		return c
	}
	return ConditionUnknown
}

// Source identifies which estimator produced a price estimate.
type Source string

// Source constants. The string values are part of the public API contract.
const (
	SourceMarket        Source = "ebay"
	SourceAI            Source = "openai"
	SourceLocal         Source = "local"
	SourceContentFilter Source = "content_filter"
)

// Confidence buckets a price estimate by sample size and dispersion.
type Confidence string

// Confidence constants.
const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// PriceQuery is the immutable input to every estimator.
type PriceQuery struct {
	ItemName    string `json:"item_name"`
	Description string `json:"description,omitempty"`
	Condition   string `json:"condition,omitempty"`
	Issues      string `json:"issues,omitempty"`
	Category    string `json:"category,omitempty"`
}

// SearchText returns the lowercased concatenation of the free-text fields,
// the form every keyword matcher operates on.
func (q *PriceQuery) SearchText() string {
	return strings.ToLower(strings.TrimSpace(q.ItemName + " " + q.Description))
}

// PriceEstimate is the result of a pricing pass. Produced fresh per query,
// never mutated after construction.
type PriceEstimate struct {
	Price          string     `json:"price"`
	Amount         float64    `json:"amount"`
	MinPrice       float64    `json:"min_price"`
	MaxPrice       float64    `json:"max_price"`
	PriceRange     string     `json:"price_range,omitempty"`
	Confidence     Confidence `json:"confidence"`
	Source         Source     `json:"source"`
	Reasoning      string     `json:"reasoning,omitempty"`
	ReferenceCount int        `json:"reference_count,omitempty"`
}

// Clamp enforces MinPrice <= Amount <= MaxPrice, widening the band rather
// than moving the point estimate.
func (e *PriceEstimate) Clamp() {
	if e.MinPrice > e.Amount {
		e.MinPrice = e.Amount
	}
	if e.MaxPrice < e.Amount {
		e.MaxPrice = e.Amount
	}
}

// FormatUSD renders an amount as a whole-dollar currency string.
func FormatUSD(amount float64) string {
	return fmt.Sprintf("$%d", int(math.Round(amount)))
}

// FormatRange renders a min/max pair as a currency range string.
func FormatRange(minPrice, maxPrice float64) string {
	return fmt.Sprintf("%s - %s", FormatUSD(minPrice), FormatUSD(maxPrice))
}

// NewEstimate builds a PriceEstimate from an amount and band, filling in the
// formatted price and range strings and enforcing the band invariant.
func NewEstimate(amount, minPrice, maxPrice float64, conf Confidence, src Source) *PriceEstimate {
	e := &PriceEstimate{
		Amount:     amount,
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		Confidence: conf,
		Source:     src,
	}
	e.Clamp()
	e.Price = FormatUSD(e.Amount)
	e.PriceRange = FormatRange(e.MinPrice, e.MaxPrice)
	return e
}

// ListingSample is one priced marketplace listing, derived from an API
// response and discarded after aggregate statistics are computed.
type ListingSample struct {
	ItemID    string  `json:"item_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Condition string  `json:"condition,omitempty"`
	Relevance float64 `json:"relevance"`
}

// MarketSnapshot holds aggregate price statistics for a category.
type MarketSnapshot struct {
	Category    string    `json:"category"     db:"category"`
	MinPrice    float64   `json:"min_price"    db:"min_price"`
	MaxPrice    float64   `json:"max_price"    db:"max_price"`
	AvgPrice    float64   `json:"avg_price"    db:"avg_price"`
	MedianPrice float64   `json:"median_price" db:"median_price"`
	SampleCount int       `json:"sample_count" db:"sample_count"`
	UpdatedAt   time.Time `json:"updated_at"   db:"updated_at"`
}

// EstimateRecord is a persisted estimate, kept for history and analytics.
type EstimateRecord struct {
	ID         string     `json:"id"                 db:"id"`
	ItemName   string     `json:"item_name"          db:"item_name"`
	Condition  string     `json:"condition"          db:"condition"`
	Category   string     `json:"category,omitempty" db:"category"`
	Amount     float64    `json:"amount"             db:"amount"`
	MinPrice   float64    `json:"min_price"          db:"min_price"`
	MaxPrice   float64    `json:"max_price"          db:"max_price"`
	Confidence Confidence `json:"confidence"         db:"confidence"`
	Source     Source     `json:"source"             db:"source"`
	CreatedAt  time.Time  `json:"created_at"         db:"created_at"`
}
