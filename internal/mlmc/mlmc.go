// Package mlmc implements Multilevel Monte Carlo with Brownian-bridge
// path coupling. Grounded on a reference
// internal/simulation/engine.go for the level-stepping driver shape,
// reworked from single-path simulation into a coupled fine/coarse
// telescoping-sum estimator.
package mlmc

import (
	"context"
	"math"
	"sort"

	"github.com/lifepath-sim/simcore/internal/rng"
	"github.com/lifepath-sim/simcore/internal/simerr"
)

// PathGenerator is the caller-supplied contract for one path-dependent
// model.
type PathGenerator interface {
	StepsFor(level int) int
	GenerateFromNoise(level int, noise []float64) any
	GenerateFromUniform(level int, uniforms []float64) any
	Evaluate(path any) float64
}

// LevelStat is the per-level diagnostic report in Result.Levels.
type LevelStat struct {
	Level    int
	Samples  int
	Mean     float64
	Variance float64
	Cost     float64
}

// Result is run_mlmc's output.
type Result struct {
	Estimate      float64
	Variance      float64
	CI95          [2]float64
	Levels        []LevelStat
	TotalCost     float64
	CostReduction float64
	Converged     bool
}

const pilotSamples = 64

// RunMLMC executes the pilot + optimal-allocation + main phase (spec
// §4.4). maxLevels bounds the telescoping sum; maxEvaluations is the
// hard evaluation budget whose overrun yields NonConvergent.
func RunMLMC(ctx context.Context, stream *rng.StreamFactory, gen PathGenerator, targetMSE float64, maxLevels, maxEvaluations int) (Result, error) {
	if targetMSE <= 0 {
		return Result{}, simerr.New(simerr.InvalidInput, "mlmc target MSE must be positive")
	}

	levelMeans := make([]float64, 0, maxLevels)
	levelVars := make([]float64, 0, maxLevels)
	levelCosts := make([]float64, 0, maxLevels)

	pilotEvals := 0
	for level := 0; level < maxLevels; level++ {
		if err := checkCancel(ctx); err != nil {
			return Result{}, err
		}
		mean, variance, cost := pilotLevel(stream, gen, level, pilotSamples)
		levelMeans = append(levelMeans, mean)
		levelVars = append(levelVars, variance)
		levelCosts = append(levelCosts, cost)
		pilotEvals += pilotSamples

		if level >= 2 && levelVars[level] < 0.1*levelVars[level-1] {
			break
		}
	}

	eps := math.Sqrt(targetMSE / 2)
	sqrtVC := make([]float64, len(levelVars))
	var sumSqrtVC float64
	for l := range levelVars {
		sqrtVC[l] = math.Sqrt(math.Max(levelVars[l], 0) * levelCosts[l])
		sumSqrtVC += sqrtVC[l]
	}

	optN := make([]int, len(levelVars))
	totalEvalBudget := pilotEvals
	for l := range levelVars {
		if levelCosts[l] <= 0 {
			optN[l] = 0
			continue
		}
		n := 2 / (eps * eps) * math.Sqrt(levelVars[l]/levelCosts[l]) * sumSqrtVC
		optN[l] = int(math.Ceil(n))
		if optN[l] < 2 {
			optN[l] = 2
		}
		totalEvalBudget += optN[l]
	}

	converged := true
	if totalEvalBudget > maxEvaluations {
		converged = false
		scale := float64(maxEvaluations-pilotEvals) / float64(totalEvalBudget-pilotEvals)
		if scale < 0 {
			scale = 0
		}
		for l := range optN {
			optN[l] = int(math.Max(2, math.Floor(float64(optN[l])*scale)))
		}
	}

	levels := make([]LevelStat, len(levelVars))
	var estimate, variance, totalCost float64
	for l := range levelVars {
		if err := checkCancel(ctx); err != nil {
			return Result{}, err
		}
		mean, varL, cost := mainLevel(stream, gen, l, optN[l])
		levels[l] = LevelStat{Level: l, Samples: optN[l], Mean: mean, Variance: varL, Cost: cost * float64(optN[l])}
		estimate += mean
		if optN[l] > 0 {
			variance += varL / float64(optN[l])
		}
		totalCost += levels[l].Cost
	}

	ci := 1.96 * math.Sqrt(math.Max(variance, 0))
	plainMCSamples := levelVars[0] / targetMSE
	plainMCCost := plainMCSamples * levelCosts[0]
	costReduction := 1.0
	if totalCost > 0 {
		costReduction = plainMCCost / totalCost
	}

	result := Result{
		Estimate:      estimate,
		Variance:      variance,
		CI95:          [2]float64{estimate - ci, estimate + ci},
		Levels:        levels,
		TotalCost:     totalCost,
		CostReduction: costReduction,
		Converged:     converged,
	}
	if !converged {
		return result, simerr.New(simerr.NonConvergent, "mlmc evaluation budget exhausted before target MSE")
	}
	return result, nil
}

func checkCancel(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return simerr.New(simerr.Cancelled, "mlmc cancelled")
	default:
		return nil
	}
}

// pilotLevel and mainLevel share the same correction-sample logic; the
// pilot phase only needs summary statistics while the main phase also
// accumulates cost, but both draw samples identically so variance
// estimates carry over to the allocation formula unbiased.
func pilotLevel(stream *rng.StreamFactory, gen PathGenerator, level, n int) (mean, variance, cost float64) {
	return sampleLevel(stream, gen, level, n, 1000+uint32(level))
}

func mainLevel(stream *rng.StreamFactory, gen PathGenerator, level, n int) (mean, variance, cost float64) {
	return sampleLevel(stream, gen, level, n, 5000+uint32(level))
}

func sampleLevel(stream *rng.StreamFactory, gen PathGenerator, level, n int, streamID uint32) (mean, variance, cost float64) {
	if n <= 0 {
		return 0, 0, float64(gen.StepsFor(level))
	}
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		s := stream.Stream(streamID, uint32(i))
		values[i] = correctionSample(s, gen, level)
	}
	sort.Float64s(values) // fixed associative reduction order
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	variance = sq / float64(n)
	cost = float64(gen.StepsFor(level))
	return
}

// correctionSample draws Y_l = f(P_l) - f(P_{l-1}) (Y_0 = f(P_0)) using
// Brownian-bridge coupling: coarse increments are generated first, then
// the fine path's extra detail is filled in via RefineBridge's midpoint
// insertion, so the coarse path is reproduced exactly inside the fine
// one.
func correctionSample(stream *rng.Stream, gen PathGenerator, level int) float64 {
	if level == 0 {
		noise := BrownianIncrements(stream, gen.StepsFor(0))
		path := gen.GenerateFromNoise(0, noise)
		return gen.Evaluate(path)
	}

	coarseSteps := gen.StepsFor(level - 1)
	coarseNoise := BrownianIncrements(stream, coarseSteps)
	coarsePath := gen.GenerateFromNoise(level-1, coarseNoise)
	coarseValue := gen.Evaluate(coarsePath)

	fineSteps := gen.StepsFor(level)
	dt := 1.0 / float64(coarseSteps)
	fineNoise := coarseNoise
	for len(fineNoise) < fineSteps {
		fineNoise = RefineBridge(stream, fineNoise, dt)
		dt /= 2
	}
	finePath := gen.GenerateFromNoise(level, fineNoise)
	fineValue := gen.Evaluate(finePath)

	return fineValue - coarseValue
}
