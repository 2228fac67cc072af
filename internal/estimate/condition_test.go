package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bluberry-labs/price-engine/internal/catalog"
	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

func testConditionTable() catalog.ConditionTable {
	return catalog.ConditionTable{
		General: map[string]float64{
			"new":       1.0,
			"excellent": 0.9,
			"good":      0.7,
			"fair":      0.5,
			"poor":      0.3,
			"unknown":   0.6,
		},
		Tech: map[string]float64{
			"new":      1.0,
			"like_new": 0.85,
			"good":     0.6,
			"unknown":  0.5,
		},
		PremiumKeywords: []string{"sealed", "original box", "warranty", "mint", "receipt", "rare", "vintage"},
		DefectKeywords:  []string{"cracked", "scratched", "dented", "stained", "torn", "faded", "missing"},
	}
}

func TestConditionAdjuster_Adjust(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		base        float64
		cond        domain.Condition
		description string
		issues      string
		want        float64
	}{
		{
			name: "new keeps full base",
			base: 100,
			cond: domain.ConditionNew,
			want: 100,
		},
		{
			name: "good takes seventy percent",
			base: 100,
			cond: domain.ConditionGood,
			want: 70,
		},
		{
			name: "unlisted condition uses unknown multiplier",
			base: 100,
			cond: domain.ConditionForParts,
			want: 60,
		},
		{
			name:        "premium keyword adds ten percent",
			base:        100,
			cond:        domain.ConditionNew,
			description: "sealed in plastic",
			want:        110,
		},
		{
			name:        "premium bonus capped at fifty percent",
			base:        100,
			cond:        domain.ConditionNew,
			description: "sealed mint rare vintage with original box warranty and receipt",
			want:        150,
		},
		{
			name:   "defect keyword removes ten percent",
			base:   100,
			cond:   domain.ConditionNew,
			issues: "screen is cracked",
			want:   90,
		},
		{
			name:   "defect penalty capped at fifty percent",
			base:   200,
			cond:   domain.ConditionNew,
			issues: "cracked scratched dented stained torn faded",
			want:   100,
		},
		{
			name:        "bonus and penalty both apply",
			base:        100,
			cond:        domain.ConditionNew,
			description: "sealed",
			issues:      "box is dented",
			want:        99, // 100 * 1.1 * 0.9
		},
		{
			name: "floored at five dollars",
			base: 10,
			cond: domain.ConditionPoor,
			want: 5,
		},
		{
			name: "rounded to nearest dollar",
			base: 35,
			cond: domain.ConditionGood,
			want: 25, // 24.5 rounds up
		},
	}

	a := NewConditionAdjuster(testConditionTable())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := a.Adjust(tt.base, tt.cond, tt.description, tt.issues)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestConditionAdjuster_KeywordsMatchedCaseInsensitively(t *testing.T) {
	t.Parallel()

	a := NewConditionAdjuster(testConditionTable())
	got := a.Adjust(100, domain.ConditionNew, "SEALED collector item", "")
	assert.InDelta(t, 110, got, 0.001)
}
