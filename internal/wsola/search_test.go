package wsola

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchFirstFrameIsAlwaysDeltaZero(t *testing.T) {
	r := newRing(256, nil)
	samples := make([]int16, 200)
	for i := range samples {
		samples[i] = int16((i * 137) % 30000)
	}
	r.append(samples)

	tail := make([]int16, 16) // all zero, as before any frame is emitted
	res := search(r, tail, 50, 20, true)

	require.True(t, res.found)
	assert.Equal(t, 0, res.delta)
	assert.Equal(t, 0.0, res.ncc)
}

func TestSearchFindsExactMatch(t *testing.T) {
	r := newRing(256, nil)
	samples := make([]int16, 200)
	for i := range samples {
		samples[i] = int16((i*37)%1000 - 500)
	}
	r.append(samples)

	tail, ok := r.readSegment(80, 16)
	require.True(t, ok)

	res := search(r, tail, 75, 10, false)
	require.True(t, res.found)
	assert.Equal(t, 5, res.delta, "exact match should be found at delta=5")
	assert.InDelta(t, 1.0, res.ncc, 1e-9)
}

func TestSearchNoMatchWhenRingEmpty(t *testing.T) {
	r := newRing(256, nil)
	tail := make([]int16, 16)
	res := search(r, tail, 0, 10, false)
	assert.False(t, res.found)
}

func TestNormalizedCrossCorrelationZeroEnergy(t *testing.T) {
	a := make([]int16, 8)
	b := []int16{1, 2, 3, 4, 5, 6, 7, 8}
	assert.Equal(t, 0.0, normalizedCrossCorrelation(a, b))
}
