// Package qmc implements the core's low-discrepancy sequence: scrambled
// Sobol with Owen scrambling. It stands in for Philox uniforms
// whenever the orchestrator is configured for QMC mode, trading raw
// independence for better equidistribution across the sample space.
package qmc

import "github.com/lifepath-sim/simcore/internal/rng"

// direction holds the expanded V_1..V_32 table for one dimension.
type direction = [directionWordBits]uint32

// directionTable builds (and the caller should cache) the per-dimension
// direction-number tables for a sequence of the given dimensionality.
func directionTable(dims int, bootstrapSeed rng.MasterSeed) []direction {
	tables := make([]direction, dims)
	bootstrap := rng.NewStreamFactory(bootstrapSeed)
	for d := 0; d < dims; d++ {
		if d == 0 {
			// Van der Corput: m_i = 1 for every i, so V_i = 2^(32-i).
			for i := range tables[d] {
				tables[d][i] = 1 << uint(directionWordBits-1-i)
			}
		} else if d < len(joeKuoTable) {
			tables[d] = directionNumbers(joeKuoTable[d])
		} else {
			// Dimension index is folded into the bootstrap stream id so
			// distinct high dimensions never share a Philox substream.
			s := bootstrap.Stream(uint32(d), 0)
			tables[d] = bootstrapDirectionNumbers(d, s)
		}
	}
	return tables
}

// Sequence is a scrambled Sobol low-discrepancy sequence in d dimensions,
// deterministic in the given master seed.
type Sequence struct {
	dim        int
	directions []direction
	scramble   *ScramblingTable

	count  uint64
	x      []uint32 // per-dimension raw XOR state
}

// NewSequence constructs a dimension-fixed sequence. masterSeed governs
// both the Owen scrambling table and (beyond the hardcoded Joe–Kuo
// dimensions) the direction-number bootstrap.
func NewSequence(dim int, masterSeed rng.MasterSeed) *Sequence {
	return &Sequence{
		dim:        dim,
		directions: directionTable(dim, rng.NewMasterSeed(bootstrapSeedString)),
		scramble:   NewScramblingTable(masterSeed),
		x:          make([]uint32, dim),
	}
}

func rightmostZeroBit(n uint64) uint {
	var c uint
	for n&1 == 1 {
		n >>= 1
		c++
	}
	return c
}

// advance mutates x in place to move from point(count) to point(count+1)
// and bumps count, following Gray-code update.
func (s *Sequence) advance() {
	c := rightmostZeroBit(s.count)
	if int(c) < directionWordBits {
		for j := 0; j < s.dim; j++ {
			s.x[j] ^= s.directions[j][c]
		}
	}
	s.count++
}

// Next returns the next scrambled point in [0,1)^d.
func (s *Sequence) Next() []float64 {
	point := make([]float64, s.dim)
	for j := 0; j < s.dim; j++ {
		scrambled := s.scramble.Scramble(uint32(j), s.x[j])
		point[j] = float64(scrambled) / 4294967296.0
	}
	s.advance()
	return point
}

// Skip advances the sequence by n points without returning them.
func (s *Sequence) Skip(n int) {
	for i := 0; i < n; i++ {
		s.advance()
	}
}

// Reset returns the sequence to its initial position.
func (s *Sequence) Reset() {
	s.count = 0
	for j := range s.x {
		s.x[j] = 0
	}
}

// NextPow2 rounds n up to the next power of two.
func NextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// GeneratePoints draws n points from the sequence, internally padding the
// draw count up to the next power of two for balance and returning only
// the first n.
func GeneratePoints(s *Sequence, n int) [][]float64 {
	padded := NextPow2(n)
	points := make([][]float64, 0, n)
	for i := 0; i < padded; i++ {
		p := s.Next()
		if i < n {
			points = append(points, p)
		}
	}
	return points
}
