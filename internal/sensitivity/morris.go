package sensitivity

import (
	"math"
	"sort"

	"github.com/lifepath-sim/simcore/internal/domain"
	"github.com/lifepath-sim/simcore/internal/rng"
)

// MorrisEffect is one parameter's elementary-effect summary (spec
// §4.6's "cheap alternative mode").
type MorrisEffect struct {
	Name string
	Mu   float64 // mean of signed effects
	MuStar float64 // mean of absolute effects, used for ranking
	Sigma float64 // std dev of effects, flags interaction/nonlinearity
}

// MorrisResult is RunMorris's output, Effects ranked by MuStar
// descending.
type MorrisResult struct {
	Effects     []MorrisEffect
	Evaluations int
}

// RunMorris runs r radial trajectories of length d+1 on an L-level grid
//, each trajectory perturbing one parameter at a time by a
// fixed step from the trajectory's base point and recording the
// elementary effect.
func RunMorris(seed rng.MasterSeed, params []domain.ParameterRange, levels, trajectories int, model ModelFunc) MorrisResult {
	d := len(params)
	if levels < 2 {
		levels = 4
	}
	delta := float64(levels) / (2 * float64(levels-1))

	factory := rng.NewStreamFactory(seed)
	sums := make([]float64, d)
	sumsAbs := make([]float64, d)
	sumsSq := make([]float64, d)
	counts := make([]int, d)
	evaluations := 0

	for t := 0; t < trajectories; t++ {
		stream := factory.Stream(9100, uint32(t))
		x := make([]float64, d)
		for j := range x {
			x[j] = gridPoint(stream, levels)
		}

		order := randomPermutation(stream, d)

		base := evalAt(x, params, model)
		evaluations++

		for _, j := range order {
			xNext := append([]float64{}, x...)
			step := delta
			if xNext[j]+step > 1 {
				step = -delta
			}
			xNext[j] += step

			next := evalAt(xNext, params, model)
			evaluations++

			effect := (next - base) / step
			sums[j] += effect
			sumsAbs[j] += math.Abs(effect)
			sumsSq[j] += effect * effect
			counts[j]++
		}
	}

	effects := make([]MorrisEffect, d)
	for j := 0; j < d; j++ {
		n := float64(counts[j])
		if n == 0 {
			n = 1
		}
		mu := sums[j] / n
		muStar := sumsAbs[j] / n
		mean := mu
		variance := sumsSq[j]/n - mean*mean
		if variance < 0 {
			variance = 0
		}
		effects[j] = MorrisEffect{
			Name:   params[j].Name,
			Mu:     mu,
			MuStar: muStar,
			Sigma:  math.Sqrt(variance),
		}
	}

	sort.Slice(effects, func(i, k int) bool { return effects[i].MuStar > effects[k].MuStar })

	return MorrisResult{Effects: effects, Evaluations: evaluations}
}

// randomPermutation draws a Fisher-Yates shuffle of {0,...,n-1} from the
// trajectory's substream, giving each Morris trajectory an independent
// one-at-a-time traversal order.
func randomPermutation(stream *rng.Stream, n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := stream.NextInt(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}

func gridPoint(stream *rng.Stream, levels int) float64 {
	step := 1.0 / float64(levels-1)
	return float64(stream.NextInt(levels)) * step
}

func evalAt(x []float64, params []domain.ParameterRange, model ModelFunc) float64 {
	values := make([]float64, len(x))
	for i, u := range x {
		values[i] = transform(u, params[i])
	}
	return model(values)
}
