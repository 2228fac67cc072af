package estimate

import (
	"strings"

	"github.com/bluberry-labs/price-engine/internal/catalog"
	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

const explicitCategoryConfidence = 0.9

// CategoryMatch is the outcome of category detection.
type CategoryMatch struct {
	Name       string
	BasePrice  float64
	Confidence float64
}

// CategoryDetector keyword-matches item text against the category table.
// Pure function of its inputs: same text always yields the same category.
type CategoryDetector struct {
	table catalog.CategoryTable
}

// NewCategoryDetector creates a detector over the given category table.
func NewCategoryDetector(table catalog.CategoryTable) *CategoryDetector {
	return &CategoryDetector{table: table}
}

// Detect picks the category whose keywords best match the query text.
// An explicit query category naming a known rule wins outright. With no
// keyword match at all, the table's default category applies.
func (d *CategoryDetector) Detect(q *domain.PriceQuery) CategoryMatch {
	if q.Category != "" {
		want := strings.ToLower(strings.TrimSpace(q.Category))
		for _, rule := range d.table.Categories {
			if rule.Name == want {
				return CategoryMatch{
					Name:       rule.Name,
					BasePrice:  rule.BasePrice,
					Confidence: explicitCategoryConfidence,
				}
			}
		}
	}

	text := q.SearchText()

	best := CategoryMatch{
		Name:       d.table.Default.Name,
		BasePrice:  d.table.Default.BasePrice,
		Confidence: d.table.Default.Confidence,
	}

	for _, rule := range d.table.Categories {
		matches := 0
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}

		conf := 0.3 + float64(matches)/float64(len(rule.Keywords))*0.7
		if conf > 0.95 {
			conf = 0.95
		}

		if conf > best.Confidence {
			best = CategoryMatch{Name: rule.Name, BasePrice: rule.BasePrice, Confidence: conf}
		}
	}

	return best
}
