package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluberry-labs/price-engine/internal/catalog"
	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	c, err := catalog.Load()
	require.NoError(t, err)

	assert.NotEmpty(t, c.Categories.Version)
	assert.NotEmpty(t, c.Categories.Categories)
	assert.Equal(t, "miscellaneous", c.Categories.Default.Name)
	assert.InDelta(t, 30.0, c.Categories.Default.BasePrice, 0.001)

	assert.NotEmpty(t, c.Blocklist.Terms)
	assert.NotEmpty(t, c.TechPrices.Models)
	assert.NotEmpty(t, c.EbayFilters.Categories)
}

func TestConditionTable_Multipliers(t *testing.T) {
	t.Parallel()

	c, err := catalog.Load()
	require.NoError(t, err)

	tests := []struct {
		cond     domain.Condition
		general  float64
		tech     float64
	}{
		{domain.ConditionLikeNew, 1.0, 0.85},
		{domain.ConditionExcellent, 0.9, 0.75},
		{domain.ConditionGood, 0.7, 0.6},
		{domain.ConditionFair, 0.5, 0.45},
		{domain.ConditionPoor, 0.3, 0.3},
		{domain.ConditionUnknown, 0.6, 0.5},
	}

	for _, tt := range tests {
		t.Run(string(tt.cond), func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.general, c.Conditions.GeneralMultiplier(tt.cond), 0.001)
			assert.InDelta(t, tt.tech, c.Conditions.TechMultiplier(tt.cond), 0.001)
		})
	}
}

func TestConditionTable_UnlistedConditionFallsBackToUnknown(t *testing.T) {
	t.Parallel()

	c, err := catalog.Load()
	require.NoError(t, err)

	// A condition absent from the table behaves exactly like "unknown".
	got := c.Conditions.GeneralMultiplier(domain.Condition("gently loved"))
	want := c.Conditions.GeneralMultiplier(domain.ConditionUnknown)
	assert.InDelta(t, want, got, 0.001)
}

func TestEbayFilterTable_ConditionIDFilter(t *testing.T) {
	t.Parallel()

	c, err := catalog.Load()
	require.NoError(t, err)

	assert.Equal(t, "7000", c.EbayFilters.ConditionIDFilter(domain.ConditionForParts))
	assert.Contains(t, c.EbayFilters.ConditionIDFilter(domain.ConditionNew), "1000")
	assert.Empty(t, c.EbayFilters.ConditionIDFilter(domain.Condition("bogus")))
}

func TestTechPriceTable_KnownModel(t *testing.T) {
	t.Parallel()

	c, err := catalog.Load()
	require.NoError(t, err)

	price, ok := c.TechPrices.Models["macbook air 13 m4"]
	require.True(t, ok)
	assert.InDelta(t, 1000.0, price, 0.001)
}
