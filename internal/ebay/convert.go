package ebay

import (
	"strconv"

	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

// ToSamples converts Browse API item summaries into pricing samples.
// Listings without a parseable positive USD price are dropped; free,
// zero-priced, and foreign-currency listings would only poison the
// statistics downstream.
func ToSamples(items []ItemSummary) []domain.ListingSample {
	samples := make([]domain.ListingSample, 0, len(items))
	for i := range items {
		if s, ok := toSample(&items[i]); ok {
			samples = append(samples, s)
		}
	}
	return samples
}

func toSample(item *ItemSummary) (domain.ListingSample, bool) {
	if item.Price.Currency != "" && item.Price.Currency != "USD" {
		return domain.ListingSample{}, false
	}

	price, err := strconv.ParseFloat(item.Price.Value, 64)
	if err != nil || price <= 0 {
		return domain.ListingSample{}, false
	}

	return domain.ListingSample{
		ItemID:    item.ItemID,
		Title:     item.Title,
		Price:     price,
		Condition: item.Condition,
	}, true
}
