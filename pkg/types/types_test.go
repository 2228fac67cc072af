package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

func TestParseCondition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want domain.Condition
	}{
		{"new", domain.ConditionNew},
		{"Brand New", domain.ConditionNew},
		{"Like New", domain.ConditionLikeNew},
		{"open box", domain.ConditionLikeNew},
		{"GOOD", domain.ConditionGood},
		{"pre-owned", domain.ConditionGood},
		{"for parts", domain.ConditionForParts},
		{"  excellent  ", domain.ConditionExcellent},
		{"", domain.ConditionUnknown},
		{"gently loved", domain.ConditionUnknown},
		{"号外", domain.ConditionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, domain.ParseCondition(tt.raw))
		})
	}
}

func TestNewEstimate_BandInvariant(t *testing.T) {
	t.Parallel()

	e := domain.NewEstimate(100, 120, 90, domain.ConfidenceLow, domain.SourceLocal)

	assert.LessOrEqual(t, e.MinPrice, e.Amount)
	assert.GreaterOrEqual(t, e.MaxPrice, e.Amount)
	assert.Equal(t, "$100", e.Price)
}

func TestFormatUSD(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$0", domain.FormatUSD(0))
	assert.Equal(t, "$5", domain.FormatUSD(5.4))
	assert.Equal(t, "$6", domain.FormatUSD(5.5))
	assert.Equal(t, "$1000", domain.FormatUSD(999.6))
}

func TestPriceQuery_SearchText(t *testing.T) {
	t.Parallel()

	q := &domain.PriceQuery{ItemName: "iPhone 14 Pro", Description: "Unlocked 256GB"}
	assert.Equal(t, "iphone 14 pro unlocked 256gb", q.SearchText())
}
