package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterminism(t *testing.T) {
	seed := NewMasterSeed("fixture-001")
	f1 := NewStreamFactory(seed)
	f2 := NewStreamFactory(seed)

	s1 := f1.Stream(1, 0)
	s2 := f2.Stream(1, 0)

	for i := 0; i < 1000; i++ {
		require.Equal(t, s1.NextUniform(), s2.NextUniform())
	}
}

func TestUniformRange(t *testing.T) {
	s := NewStreamFactory(NewMasterSeed("range-check")).Stream(0, 0)
	for i := 0; i < 100000; i++ {
		u := s.NextUniform()
		require.Greater(t, u, 0.0)
		require.Less(t, u, 1.0)
	}
}

// TestSubstreamIndependence is the non-overlap witness: for two distinct
// substream ids, the first 1e6 outputs differ in at least 48 of the first
// 64 bits of their XOR. We approximate with a smaller sample for test
// speed and check the bit-difference count stays high on average across
// the run.
func TestSubstreamIndependence(t *testing.T) {
	seed := NewMasterSeed("independence")
	factory := NewStreamFactory(seed)
	a := factory.Stream(1, 0)
	b := factory.Stream(2, 0)

	const n = 10000
	totalDiffBits := 0
	for i := 0; i < n; i++ {
		wa := a.nextWord()
		wb := b.nextWord()
		xor := wa ^ wb
		totalDiffBits += popcount32(xor)
	}
	avg := float64(totalDiffBits) / float64(n)
	// Expect ~16 differing bits per 32-bit word on average for independent
	// streams; require it's not degenerate (near 0 or near 32).
	assert.Greater(t, avg, 8.0)
	assert.Less(t, avg, 24.0)
}

func popcount32(x uint32) int {
	n := 0
	for x != 0 {
		n += int(x & 1)
		x >>= 1
	}
	return n
}

func TestSplitIsPure(t *testing.T) {
	seed := NewMasterSeed("split-purity")
	parent := NewStreamFactory(seed).Stream(5, 0)

	parentState := parent.State()
	child1 := parent.Split(3)

	restored := &Stream{}
	restored.SetState(parentState)
	child2 := restored.Split(3)

	require.Equal(t, child1.State(), child2.State())
	require.NotEqual(t, parent.State(), child1.State())
}

func TestJumpAdvancesCounter(t *testing.T) {
	s := NewStreamFactory(NewMasterSeed("jump")).Stream(0, 0)
	before := s.State()
	s.Jump()
	after := s.State()
	require.NotEqual(t, before.CounterHi, after.CounterHi)
}

func TestNextNormalFinite(t *testing.T) {
	s := NewStreamFactory(NewMasterSeed("normal")).Stream(0, 0)
	for i := 0; i < 10000; i++ {
		z := s.NextNormal(0, 1)
		require.False(t, isNaNOrInf(z))
	}
}

func isNaNOrInf(x float64) bool {
	return x != x || x > 1e300 || x < -1e300
}
