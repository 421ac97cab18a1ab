package mlmc

import (
	"context"
	"math"
	"testing"

	"github.com/lifepath-sim/simcore/internal/rng"
	"github.com/stretchr/testify/require"
)

// constantGenerator is a trivial PathGenerator whose quantity of
// interest is always exactly 1.0 regardless of noise, used to check
// RunMLMC's plumbing (allocation, reduction order, convergence) in
// isolation from any real path dynamics.
type constantGenerator struct {
	baseSteps int
}

func (g constantGenerator) StepsFor(level int) int {
	n := g.baseSteps
	for i := 0; i < level; i++ {
		n *= 2
	}
	return n
}

func (g constantGenerator) GenerateFromNoise(level int, noise []float64) any { return noise }
func (g constantGenerator) GenerateFromUniform(level int, uniforms []float64) any { return uniforms }
func (g constantGenerator) Evaluate(path any) float64                        { return 1.0 }

func TestRunMLMCConstantModelConverges(t *testing.T) {
	seed := rng.NewMasterSeed("mlmc-fixture")
	factory := rng.NewStreamFactory(seed)
	gen := constantGenerator{baseSteps: 4}

	result, err := RunMLMC(context.Background(), factory, gen, 1e-4, 4, 500_000)
	require.NoError(t, err)
	require.InDelta(t, 1.0, result.Estimate, 1e-9)
	require.True(t, result.Converged)
}

func TestRunMLMCNonConvergentWithTinyBudget(t *testing.T) {
	seed := rng.NewMasterSeed("mlmc-fixture")
	factory := rng.NewStreamFactory(seed)

	// A path generator with real per-step variance so the pilot phase
	// reports nonzero level variances, forcing a real allocation.
	gen := NetWorthPathGenerator{InitialNetWorth: 10000, AnnualContribution: 5000, DriftAnnual: 0.05, VolAnnual: 0.2, BaseSteps: 4, HorizonYears: 10}

	_, err := RunMLMC(context.Background(), factory, gen, 1e-10, 6, 200)
	require.Error(t, err)
}

func TestRunMLMCCancellation(t *testing.T) {
	seed := rng.NewMasterSeed("mlmc-fixture")
	factory := rng.NewStreamFactory(seed)
	gen := constantGenerator{baseSteps: 4}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunMLMC(ctx, factory, gen, 1e-4, 4, 500_000)
	require.Error(t, err)
}

func TestRunMLMCDeterministic(t *testing.T) {
	gen := NetWorthPathGenerator{InitialNetWorth: 50000, AnnualContribution: 10000, DriftAnnual: 0.06, VolAnnual: 0.15, BaseSteps: 4, HorizonYears: 10}

	run := func() Result {
		seed := rng.NewMasterSeed("mlmc-fixture")
		factory := rng.NewStreamFactory(seed)
		result, err := RunMLMC(context.Background(), factory, gen, 1e8, 5, 500_000)
		require.NoError(t, err)
		return result
	}

	r1 := run()
	r2 := run()
	require.Equal(t, r1.Estimate, r2.Estimate)
	require.Equal(t, r1.Levels, r2.Levels)
}

func TestBrownianIncrementsFinite(t *testing.T) {
	seed := rng.NewMasterSeed("bridge-fixture")
	stream := rng.NewStreamFactory(seed).Stream(1, 0)
	inc := BrownianIncrements(stream, 16)
	require.Len(t, inc, 16)
	for _, v := range inc {
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestRefineBridgePreservesCoarseSum(t *testing.T) {
	seed := rng.NewMasterSeed("bridge-fixture")
	stream := rng.NewStreamFactory(seed).Stream(1, 0)
	coarse := BrownianIncrements(stream, 4)
	fine := RefineBridge(stream, coarse, 0.25)

	require.Len(t, fine, 8)
	var coarseSum, fineSum float64
	for _, v := range coarse {
		coarseSum += v
	}
	for _, v := range fine {
		fineSum += v
	}
	require.InDelta(t, coarseSum, fineSum, 1e-9)
}
