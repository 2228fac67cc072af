package estimate

import (
	"strings"

	"github.com/bluberry-labs/price-engine/internal/catalog"
	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

// ContentFilter rejects queries containing blocklisted terms. A hit is a
// policy decision, not an error: the orchestrator returns a $0 estimate
// tagged source "content_filter".
type ContentFilter struct {
	terms []string
}

// NewContentFilter builds a filter from the catalog blocklist.
func NewContentFilter(bl catalog.Blocklist) *ContentFilter {
	terms := make([]string, 0, len(bl.Terms))
	for _, t := range bl.Terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			terms = append(terms, t)
		}
	}
	return &ContentFilter{terms: terms}
}

// Blocked reports whether any free-text field of the query contains a
// blocklisted term, returning the first matching term.
func (f *ContentFilter) Blocked(q *domain.PriceQuery) (string, bool) {
	fields := []string{q.ItemName, q.Description, q.Issues}
	for _, field := range fields {
		normalized := strings.ToLower(strings.TrimSpace(field))
		if normalized == "" {
			continue
		}
		for _, term := range f.terms {
			if strings.Contains(normalized, term) {
				return term, true
			}
		}
	}
	return "", false
}

// BlockedEstimate is the sentinel zero-price estimate returned for filtered
// content. Confidence is high: refusing to price is a certain outcome.
func BlockedEstimate() *domain.PriceEstimate {
	return domain.NewEstimate(0, 0, 0, domain.ConfidenceHigh, domain.SourceContentFilter)
}
