package qmc

import (
	"testing"

	"github.com/lifepath-sim/simcore/internal/rng"
	"github.com/stretchr/testify/require"
)

// TestScrambleIndependentAcrossDimensions guards against streamID collisions
// in hashBit: two distinct (dim, depth) pairs must never hash to the same
// Philox substream, or their permutation bits become correlated instead of
// independent. Deliberately exercises dim >= 1 with depth >= 2, the exact
// region where a dim*2+depth style encoding collides (e.g. dim=0,depth=2 and
// dim=1,depth=0 both landing on stream 2).
func TestScrambleIndependentAcrossDimensions(t *testing.T) {
	seed := rng.NewMasterSeed("qmc-owen-independence")
	table := NewScramblingTable(seed)

	const prefix = 0
	bits := make(map[[2]uint32]byte)
	for dim := uint32(0); dim < 4; dim++ {
		for depth := uint8(0); depth < 6; depth++ {
			bits[[2]uint32{dim, uint32(depth)}] = table.permutationBit(dim, depth, prefix)
		}
	}

	// Two different dimensions scrambling the same raw coordinate must not
	// produce identical output: if hashBit collided across dimensions the
	// whole per-depth bit sequence would match.
	const raw = 0xA5A5A5A5
	out0 := table.Scramble(0, raw)
	out1 := table.Scramble(1, raw)
	require.NotEqual(t, out0, out1)

	// dim=0,depth=2 and dim=1,depth=0 hash to the same streamID under a
	// dim*2+depth encoding; with a collision-free encoding their bits need
	// not agree, and across a spread of (dim, depth) pairs they shouldn't
	// all coincide.
	distinctValues := make(map[byte]int)
	for _, b := range bits {
		distinctValues[b]++
	}
	require.Greater(t, len(distinctValues), 1, "permutation bits across dimensions/depths should not be constant")
}

func TestScrambleDeterministic(t *testing.T) {
	seed := rng.NewMasterSeed("qmc-owen-deterministic")
	t1 := NewScramblingTable(seed)
	t2 := NewScramblingTable(seed)

	for dim := uint32(0); dim < 3; dim++ {
		require.Equal(t, t1.Scramble(dim, 0x12345678), t2.Scramble(dim, 0x12345678))
	}
}
