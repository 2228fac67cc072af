package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{42}, 42},
		{"odd unsorted", []float64{3, 1, 2}, 2},
		{"even averages middle pair", []float64{1, 2, 3, 4}, 2.5},
		{"does not mutate input order", []float64{9, 1, 5}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Median(tt.values), 0.001)
		})
	}
}

func TestMedian_InputUntouched(t *testing.T) {
	t.Parallel()

	values := []float64{9, 1, 5}
	Median(values)
	assert.Equal(t, []float64{9, 1, 5}, values)
}

func TestMean(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0, Mean(nil), 0.001)
	assert.InDelta(t, 20, Mean([]float64{10, 20, 30}), 0.001)
	assert.InDelta(t, 7.5, Mean([]float64{5, 10}), 0.001)
}

func TestStdDev(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single value has no spread", []float64{100}, 0},
		{"population stddev", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 2},
		{"identical values", []float64{50, 50, 50}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, StdDev(tt.values), 0.001)
		})
	}
}

func TestCoefficientOfVariation(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0, CoefficientOfVariation(nil), 0.001)
	assert.InDelta(t, 0, CoefficientOfVariation([]float64{-5, 5}), 0.001, "zero mean")
	assert.InDelta(t, 0.4, CoefficientOfVariation([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 0.001)
}

func TestRemoveOutliers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []float64
		want   []float64
	}{
		{
			name:   "fewer than four values unchanged",
			values: []float64{1, 2, 1000},
			want:   []float64{1, 2, 1000},
		},
		{
			name:   "extreme high value dropped",
			values: []float64{100, 102, 98, 104, 101, 99, 103, 500},
			want:   []float64{100, 102, 98, 104, 101, 99, 103},
		},
		{
			name:   "extreme low value dropped",
			values: []float64{3, 100, 102, 98, 104, 101, 99, 103},
			want:   []float64{100, 102, 98, 104, 101, 99, 103},
		},
		{
			name:   "identical values all kept",
			values: []float64{50, 50, 50, 50, 50},
			want:   []float64{50, 50, 50, 50, 50},
		},
		{
			name:   "survivor order preserved",
			values: []float64{104, 98, 500, 101, 99, 103, 100, 102},
			want:   []float64{104, 98, 101, 99, 103, 100, 102},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, RemoveOutliers(tt.values))
		})
	}
}

func TestRetainCleaned(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		original int
		cleaned  int
		want     bool
	}{
		{"five survivors always enough", 100, 5, true},
		{"seventy percent retained", 10, 7, true},
		{"below both thresholds", 10, 4, false},
		{"small sample above ratio", 5, 4, true},
		{"small sample below ratio", 4, 2, false},
		{"nothing removed", 3, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, retainCleaned(tt.original, tt.cleaned))
		})
	}
}

func TestMinMax(t *testing.T) {
	t.Parallel()

	lo, hi := minMax([]float64{5, 1, 9, 3})
	assert.InDelta(t, 1, lo, 0.001)
	assert.InDelta(t, 9, hi, 0.001)

	lo, hi = minMax([]float64{7})
	assert.InDelta(t, 7, lo, 0.001)
	assert.InDelta(t, 7, hi, 0.001)
}
