package estimate

import (
	"math"
	"strings"

	"github.com/bluberry-labs/price-engine/internal/catalog"
	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

const (
	keywordStep  = 0.10
	keywordCap   = 0.50
	minimumPrice = 5.0
)

// ConditionAdjuster applies condition multipliers and premium/defect keyword
// adjustments to a base price.
type ConditionAdjuster struct {
	table catalog.ConditionTable
}

// NewConditionAdjuster creates an adjuster over the given condition table.
func NewConditionAdjuster(table catalog.ConditionTable) *ConditionAdjuster {
	return &ConditionAdjuster{table: table}
}

// Adjust multiplies base by the general condition multiplier, applies up to
// +50% of premium-keyword bonus and up to -50% of defect-keyword penalty
// (10% per match each way), floors the result at $5, and rounds to the
// nearest dollar. Conditions missing from the table get the "unknown"
// multiplier rather than an error.
func (a *ConditionAdjuster) Adjust(base float64, cond domain.Condition, description, issues string) float64 {
	price := base * a.table.GeneralMultiplier(cond)

	text := strings.ToLower(description + " " + issues)

	bonus := keywordAdjustment(text, a.table.PremiumKeywords)
	penalty := keywordAdjustment(text, a.table.DefectKeywords)

	price *= 1 + bonus
	price *= 1 - penalty

	if price < minimumPrice {
		price = minimumPrice
	}
	return math.Round(price)
}

func keywordAdjustment(text string, keywords []string) float64 {
	var adj float64
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			adj += keywordStep
			if adj >= keywordCap {
				return keywordCap
			}
		}
	}
	return adj
}
