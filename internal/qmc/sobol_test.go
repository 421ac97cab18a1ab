package qmc

import (
	"testing"

	"github.com/lifepath-sim/simcore/internal/rng"
	"github.com/stretchr/testify/require"
)

func TestSequenceDeterministic(t *testing.T) {
	seed := rng.NewMasterSeed("qmc-fixture")
	s1 := NewSequence(4, seed)
	s2 := NewSequence(4, seed)

	for i := 0; i < 500; i++ {
		p1 := s1.Next()
		p2 := s2.Next()
		require.Equal(t, p1, p2)
	}
}

func TestSequencePointsInUnitCube(t *testing.T) {
	seed := rng.NewMasterSeed("qmc-bounds")
	s := NewSequence(3, seed)
	for i := 0; i < 2000; i++ {
		p := s.Next()
		for _, v := range p {
			require.GreaterOrEqual(t, v, 0.0)
			require.Less(t, v, 1.0)
		}
	}
}

// TestBalanceProperty checks the stratification property: the first 2^k
// scrambled points in one dimension fall with equal count 2^(k-m) into each
// of 2^m equal-volume bins, for k=8, m up to 4.
func TestBalanceProperty(t *testing.T) {
	seed := rng.NewMasterSeed("qmc-balance")
	s := NewSequence(1, seed)

	const k = 8
	n := 1 << k
	points := make([]float64, n)
	for i := 0; i < n; i++ {
		points[i] = s.Next()[0]
	}

	for m := 1; m <= 4; m++ {
		bins := 1 << m
		expected := n / bins
		counts := make([]int, bins)
		for _, v := range points {
			bin := int(v * float64(bins))
			if bin >= bins {
				bin = bins - 1
			}
			counts[bin]++
		}
		for _, c := range counts {
			require.Equal(t, expected, c, "m=%d bin count should be exactly balanced", m)
		}
	}
}

func TestSkipMatchesManualAdvance(t *testing.T) {
	seed := rng.NewMasterSeed("qmc-skip")
	s1 := NewSequence(2, seed)
	s2 := NewSequence(2, seed)

	for i := 0; i < 10; i++ {
		s1.Next()
	}
	s2.Skip(10)

	require.Equal(t, s1.Next(), s2.Next())
}

func TestResetReturnsToStart(t *testing.T) {
	seed := rng.NewMasterSeed("qmc-reset")
	s := NewSequence(2, seed)
	first := s.Next()
	s.Next()
	s.Next()
	s.Reset()
	require.Equal(t, first, s.Next())
}

func TestNextPow2(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 5: 8, 8: 8, 9: 16, 1000: 1024}
	for in, want := range cases {
		require.Equal(t, want, NextPow2(in))
	}
}
