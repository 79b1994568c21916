package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentile(t *testing.T) {
	t.Parallel()

	s := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.0, percentile(s, 0))
	assert.Equal(t, 1.75, percentile(s, 25))
	assert.Equal(t, 2.5, percentile(s, 50))
	assert.Equal(t, 4.0, percentile(s, 100))
	assert.Equal(t, 9.0, percentile([]float64{9}, 75))
	assert.True(t, math.IsNaN(percentile(nil, 50)))
}

func TestAverageRanks(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []float64{3, 1.5, 1.5, 4}, averageRanks([]float64{10, 5, 5, 20}))
}

func TestHistogram(t *testing.T) {
	t.Parallel()

	bins := histogram([]float64{0, 0, 3, 24}, 12)
	assert.Len(t, bins, 9)
	assert.Equal(t, Bin{Lo: 0, Hi: 3, Count: 2}, bins[0])
	assert.Equal(t, Bin{Lo: 3, Hi: 6, Count: 1}, bins[1])
	assert.Equal(t, Bin{Lo: 24, Hi: 27, Count: 1}, bins[8])

	assert.Equal(t, []Bin{{Lo: 5, Hi: 6, Count: 2}}, histogram([]float64{5, 5}, 12))
	assert.Nil(t, histogram(nil, 12))
}

func TestHaltLevels(t *testing.T) {
	t.Parallel()

	h, ok := AsHalt(Warn("faltan %d", 2))
	assert.True(t, ok)
	assert.Equal(t, LevelWarning, h.Level)
	assert.Equal(t, "faltan 2", h.Error())

	h, ok = AsHalt(Fail("roto"))
	assert.True(t, ok)
	assert.Equal(t, LevelError, h.Level)

	_, ok = AsHalt(assert.AnError)
	assert.False(t, ok)
}
