package orchestrator

import (
	"fmt"

	"github.com/lifepath-sim/simcore/internal/qmc"
	"github.com/lifepath-sim/simcore/internal/rng"
	"github.com/lifepath-sim/simcore/internal/scenario"
)

// qmcRegimeDims is the number of uniforms drawRegime consumes: the
// regime categorical draw (1), three macro normals via Box-Muller (2
// each), and the industry-outlook categorical draw (1). This is the
// highest-leverage draw in scenario generation — every later draw in
// projectYear is conditioned on it — and the one use_qmc is meant to
// equidistribute, so each scenario's Sobol point is sized to cover
// exactly it.
const qmcRegimeDims = 8

// qmcSource adapts one coordinate vector of a scrambled-Sobol point to
// scenario.UniformSource: the regime/macro draw consumes Sobol
// coordinates directly, while projectYear's later, event-driven draws
// (whose count varies with yearsElapsed and key-event rolls, so they
// cannot be sized into a fixed-dimension QMC point) fall through to the
// scenario's own Philox substream once the point is exhausted. Scenario
// IDs always come from the Philox substream, since ID generation needs
// determinism, not variance reduction.
type qmcSource struct {
	point    []float64
	idx      int
	fallback *rng.Stream
}

func (q *qmcSource) NextUniform() float64 {
	if q.idx < len(q.point) {
		u := q.point[q.idx]
		q.idx++
		const eps = 1e-12
		if u <= 0 {
			u = eps
		}
		if u >= 1 {
			u = 1 - eps
		}
		return u
	}
	return q.fallback.NextUniform()
}

func (q *qmcSource) NextUint32() uint32 {
	return q.fallback.NextUint32()
}

var _ scenario.UniformSource = (*qmcSource)(nil)

// qmcSources builds one qmcSource per scenario, each carrying its own
// slice of a batch of scrambled-Sobol points (use_qmc mode: draw from
// scrambled Sobol instead of Philox uniforms) plus its own Philox
// substream as both ID source and draw fallback.
func qmcSources(factory *rng.StreamFactory, cfgSeed string, n int) []*qmcSource {
	// streamSobolOffset marks this as a distinct substream namespace from
	// streamRegimeJitter even though qmc.NewSequence takes a standalone
	// MasterSeed rather than a Stream drawn from factory.
	sobolSeed := rng.NewMasterSeed(fmt.Sprintf("%s-qmc-%d", cfgSeed, streamSobolOffset))
	seq := qmc.NewSequence(qmcRegimeDims, sobolSeed)
	points := qmc.GeneratePoints(seq, n)

	sources := make([]*qmcSource, n)
	for i := 0; i < n; i++ {
		sources[i] = &qmcSource{
			point:    points[i],
			fallback: factory.Stream(streamRegimeJitter, uint32(i)),
		}
	}
	return sources
}
