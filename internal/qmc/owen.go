package qmc

import (
	"sync"

	"github.com/lifepath-sim/simcore/internal/rng"
)

// ScramblingTable implements Owen scrambling: for each
// dimension and each binary prefix of the output, a uniform random
// 2-element permutation rewrites the next bit. A 2-element permutation of
// {0,1} is fully described by a single bit (identity vs. swap), so the
// table stores one bit per (dimension, depth, prefix).
//
// We derive that bit as a deterministic Philox-keyed hash of
// (masterSeed, dimension, depth, prefix) rather than drawing it from a
// stateful "scrambler stream" and caching the draw. This trivially
// satisfies the determinism requirement (same inputs always give
// the same permutation) without needing the cache for correctness; the
// cache here is purely a performance optimization over repeated re-hashing
// for common short prefixes. Documented simplification, not a behavior
// change — see DESIGN.md.
type ScramblingTable struct {
	seed rng.MasterSeed
	mu   sync.RWMutex
	bits map[owenKey]byte
}

type owenKey struct {
	dim    uint32
	depth  uint8
	prefix uint32
}

// NewScramblingTable builds a lazily populated, process-scoped table keyed
// by the given master seed. Safe for concurrent reads once entries exist;
// writes are guarded by mu (the table is immutable once populated).
func NewScramblingTable(seed rng.MasterSeed) *ScramblingTable {
	return &ScramblingTable{seed: seed, bits: make(map[owenKey]byte)}
}

func (t *ScramblingTable) permutationBit(dim uint32, depth uint8, prefix uint32) byte {
	k := owenKey{dim: dim, depth: depth, prefix: prefix}

	t.mu.RLock()
	if b, ok := t.bits[k]; ok {
		t.mu.RUnlock()
		return b
	}
	t.mu.RUnlock()

	b := t.hashBit(k)

	t.mu.Lock()
	t.bits[k] = b
	t.mu.Unlock()
	return b
}

// hashBit computes the permutation bit as a pure function of the key and
// the table's master seed, using Philox as a keyed hash rather than a
// sequential generator.
func (t *ScramblingTable) hashBit(k owenKey) byte {
	factory := rng.NewStreamFactory(t.seed)
	// Fold (dim, depth, prefix) into the substream coordinates so distinct
	// keys land on distinct, well-mixed Philox counters.
	streamID := (k.dim << 8) | uint32(k.depth)
	sub := uint32(k.prefix)
	s := factory.Stream(streamID, sub)
	if s.NextUint32()&1 == 1 {
		return 1
	}
	return 0
}

// Scramble applies Owen scrambling to one raw 32-bit Sobol coordinate for
// the given dimension, processing bits from the most significant (depth 0)
// to least significant (depth 31), each conditioned on the scrambled
// prefix decided so far — the nested-uniform property.
func (t *ScramblingTable) Scramble(dim uint32, raw uint32) uint32 {
	var scrambled uint32
	var prefix uint32
	for depth := uint8(0); depth < 32; depth++ {
		bitPos := 31 - depth
		rawBit := (raw >> bitPos) & 1
		flip := t.permutationBit(dim, depth, prefix)
		outBit := rawBit ^ uint32(flip)
		scrambled |= outBit << bitPos
		prefix = (prefix << 1) | outBit
	}
	return scrambled
}
