package wsola

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRingAppendAndReadSegment(t *testing.T) {
	r := newRing(16, nil)
	r.append([]int16{1, 2, 3, 4, 5})

	seg, ok := r.readSegment(0, 5)
	require.True(t, ok)
	assert.Equal(t, []int16{1, 2, 3, 4, 5}, seg)

	seg, ok = r.readSegment(1, 3)
	require.True(t, ok)
	assert.Equal(t, []int16{2, 3, 4}, seg)

	_, ok = r.readSegment(0, 6)
	assert.False(t, ok, "reading past content should fail")

	_, ok = r.readSegment(-1, 2)
	assert.False(t, ok, "reading before base offset should fail")
}

func TestRingDiscardTo(t *testing.T) {
	r := newRing(16, nil)
	r.append([]int16{1, 2, 3, 4, 5, 6, 7, 8})

	r.discardTo(3)
	assert.Equal(t, int64(3), r.baseOffset)
	assert.Equal(t, 5, r.content)

	seg, ok := r.readSegment(3, 5)
	require.True(t, ok)
	assert.Equal(t, []int16{4, 5, 6, 7, 8}, seg)

	_, ok = r.readSegment(0, 1)
	assert.False(t, ok, "discarded prefix should no longer be readable")
}

func TestRingOverflowDiscardsOldest(t *testing.T) {
	r := newRing(4, nil)
	r.append([]int16{1, 2, 3, 4})
	r.append([]int16{5, 6})

	assert.Equal(t, 4, r.content)
	assert.Equal(t, int64(2), r.baseOffset)

	seg, ok := r.readSegment(2, 4)
	require.True(t, ok)
	assert.Equal(t, []int16{3, 4, 5, 6}, seg)
}

func TestRingOverflowSingleChunkLargerThanCapacity(t *testing.T) {
	r := newRing(4, nil)
	r.append([]int16{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	assert.Equal(t, 4, r.content)
	assert.Equal(t, int64(6), r.baseOffset)
	seg, ok := r.readSegment(6, 4)
	require.True(t, ok)
	assert.Equal(t, []int16{7, 8, 9, 10}, seg)
}

// TestRingInvariants is the property-based check of two of spec.md §8's
// ring invariants: content <= capacity, and ring_base_offset is monotone
// non-decreasing across any sequence of appends and discards.
func TestRingInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 64).Draw(t, "capacity")
		r := newRing(capacity, nil)
		lastBase := r.baseOffset

		steps := rapid.IntRange(0, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if rapid.Bool().Draw(t, "isAppend") {
				n := rapid.IntRange(0, capacity*2).Draw(t, "appendLen")
				samples := make([]int16, n)
				for j := range samples {
					samples[j] = int16(rapid.IntRange(-32768, 32767).Draw(t, "sample"))
				}
				r.append(samples)
			} else {
				delta := int64(rapid.IntRange(0, capacity*2).Draw(t, "discardDelta"))
				r.discardTo(r.baseOffset + delta)
			}

			assert.LessOrEqual(t, r.content, capacity)
			assert.GreaterOrEqual(t, r.baseOffset, lastBase)
			lastBase = r.baseOffset
		}
	})
}
