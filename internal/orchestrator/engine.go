// Package orchestrator composes the rng, qmc, copula, mlmc, scenario,
// sensitivity, and reducer packages into one reproducible pipeline.
// Grounded on a reference internal/simulation/engine.go Engine
// type and RunSimulation method shape, reworked from its single-pass
// Monte Carlo loop into an eight-step pipeline:
// data-quality assessment, substream derivation, optional sensitivity,
// generator selection, optional copula re-coupling, normalization,
// optional reduction, and aggregation.
package orchestrator

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/lifepath-sim/simcore/internal/config"
	"github.com/lifepath-sim/simcore/internal/domain"
	"github.com/lifepath-sim/simcore/internal/mlmc"
	"github.com/lifepath-sim/simcore/internal/obslog"
	"github.com/lifepath-sim/simcore/internal/reducer"
	"github.com/lifepath-sim/simcore/internal/rng"
	"github.com/lifepath-sim/simcore/internal/scenario"
	"github.com/lifepath-sim/simcore/internal/sensitivity"
	"github.com/lifepath-sim/simcore/internal/simerr"
	"golang.org/x/sync/errgroup"
)

// Substream ids the pipeline derives from the master stream.
const (
	streamRegimeJitter uint32 = 1 // per-scenario generation (regime draw + yearly jitter share one substream per scenario)
	streamSensitivity  uint32 = 2
	streamPathGen      uint32 = 3
	streamSobolOffset  uint32 = 4
	streamRecouple     uint32 = 5
)

// ProgressStage is published at each pipeline stage boundary (spec
// §4.8's progress contract).
type ProgressStage struct {
	Stage      string
	Percentage int
}

// ProgressFunc is the observer handle the caller supplies; nil is valid
// and simply receives no progress events.
type ProgressFunc func(ProgressStage)

func publish(progress ProgressFunc, stage string, pct int) {
	if progress != nil {
		progress(ProgressStage{Stage: stage, Percentage: pct})
	}
}

// SimulationEngine is the core's single public entry point.
// It holds no mutable state of its own; every run is independent given
// its inputs, so one value can safely serve concurrent callers.
type SimulationEngine struct {
	Workers int // 0 means "use hardware concurrency" (runtime.GOMAXPROCS(0))
}

// NewSimulationEngine constructs an engine. workers <= 0 sizes the
// scenario-generation pool to runtime.GOMAXPROCS(0).
func NewSimulationEngine(workers int) *SimulationEngine {
	return &SimulationEngine{Workers: workers}
}

// RunSimulation is run_simulation: the full eight-step
// pipeline from validated inputs to an aggregated, narrated result.
func (e *SimulationEngine) RunSimulation(
	ctx context.Context,
	decision domain.Decision,
	profile domain.Profile,
	priors domain.MarketPriors,
	cfg config.Config,
	progress ProgressFunc,
) (domain.SimulationResult, error) {
	start := time.Now()
	stageTimings := make(map[string]time.Duration)
	var warnings []string

	if violations := profile.Validate(); violations != nil {
		return domain.SimulationResult{}, simerr.Invalid(violations)
	}

	// Step 1: data quality assessment and sample-count adjustment.
	stepStart := time.Now()
	dataQuality := AssessDataQuality(profile, decision.Type)
	targetScenarios := int(float64(cfg.TargetScenarios) * sampleCountMultiplier(dataQuality.Completeness))
	stageTimings["data_quality"] = time.Since(stepStart)
	publish(progress, "data_quality", 10)

	if err := checkCancel(ctx); err != nil {
		return domain.SimulationResult{}, err
	}

	// Step 2: master stream and named substreams.
	seed := rng.NewMasterSeed(cfg.Seed)
	factory := rng.NewStreamFactory(seed)

	// Step 3: optional sensitivity analysis.
	stepStart = time.Now()
	var sensSummary *domain.SensitivitySummary
	if cfg.RunSensitivity {
		sensSummary = e.runSensitivity(priors, cfg)
	}
	stageTimings["sensitivity"] = time.Since(stepStart)
	publish(progress, "sensitivity", 25)

	if err := checkCancel(ctx); err != nil {
		return domain.SimulationResult{}, err
	}

	// Step 4: generator selection + scenario generation.
	stepStart = time.Now()
	method := "plain_mc"
	switch {
	case cfg.UseMLMC && decision.Type.PathDependent():
		method = "mlmc"
	case cfg.UseQMC:
		method = "qmc"
	}

	scenarios, mlmcResult, genWarnings, err := e.generateScenarios(ctx, factory, decision, profile, priors, method, targetScenarios, cfg.Seed)
	if err != nil {
		return domain.SimulationResult{}, err
	}
	warnings = append(warnings, genWarnings...)
	stageTimings["generation"] = time.Since(stepStart)
	publish(progress, "generation", 60)

	if err := checkCancel(ctx); err != nil {
		return domain.SimulationResult{}, err
	}

	// Step 5: optional copula re-coupling.
	stepStart = time.Now()
	if cfg.UseCopulas {
		recoupleStream := factory.Stream(streamRecouple, 0)
		recouple(recoupleStream, scenarios)
	}
	stageTimings["coupling"] = time.Since(stepStart)
	publish(progress, "coupling", 75)

	if err := checkCancel(ctx); err != nil {
		return domain.SimulationResult{}, err
	}

	// Step 6: normalize probabilities (regime reweight + renormalize).
	scenario.ReweightByRegime(scenarios)

	// Step 7: optional reduction.
	stepStart = time.Now()
	if cfg.ReduceScenarios && len(scenarios) > cfg.TargetScenarios {
		result := reducer.Reduce(scenarios, cfg.TargetScenarios)
		scenarios = result.Scenarios
		scenario.NormalizeProbabilities(scenarios)
	}
	stageTimings["reduction"] = time.Since(stepStart)
	publish(progress, "reduction", 85)

	if err := checkCancel(ctx); err != nil {
		return domain.SimulationResult{}, err
	}

	// Step 8: aggregate, narrate, attach metadata.
	metrics := scenario.Aggregate(scenarios, cfg.ConfidenceLevel, dataQuality)
	if mlmcResult != nil {
		blendMLMCEstimate(&metrics, *mlmcResult)
		if !mlmcResult.Converged {
			warnings = append(warnings, "mlmc did not converge within the evaluation budget")
		}
	}
	recommendations, risks, opportunities := scenario.Narrative(metrics, decision)

	result := domain.SimulationResult{
		Scenarios:        scenarios,
		AggregateMetrics: metrics,
		Recommendations:  recommendations,
		Risks:            risks,
		Opportunities:    opportunities,
		Metadata: domain.Metadata{
			Seed:            cfg.Seed,
			Method:          method,
			ComputationTime: time.Since(start),
			StageTimings:    stageTimings,
			DataQuality:     dataQuality,
			Sensitivity:     sensSummary,
			Warnings:        warnings,
			Converged:       mlmcResult == nil || mlmcResult.Converged,
		},
	}
	publish(progress, "complete", 100)

	obslog.Logger.Debug().
		Str("method", method).
		Int("scenarios", len(scenarios)).
		Dur("elapsed", result.Metadata.ComputationTime).
		Msg("run_simulation complete")

	return result, nil
}

// RunQuickEstimate is run_quick_estimate: the identical
// pipeline with a fixed lightweight config.
func (e *SimulationEngine) RunQuickEstimate(ctx context.Context, decision domain.Decision, profile domain.Profile, priors domain.MarketPriors, seed string) (domain.SimulationResult, error) {
	cfg := config.Default()
	cfg.Seed = seed
	cfg.TargetScenarios = 50
	cfg.RunSensitivity = false
	cfg.UseMLMC = false
	cfg.ReduceScenarios = false
	return e.RunSimulation(ctx, decision, profile, priors, cfg, nil)
}

// AnalyzeSensitivity is analyze_sensitivity: sensitivity only,
// returned directly rather than embedded in a SimulationResult.
func (e *SimulationEngine) AnalyzeSensitivity(priors domain.MarketPriors, cfg config.Config) *domain.SensitivitySummary {
	return e.runSensitivity(priors, cfg)
}

func (e *SimulationEngine) runSensitivity(priors domain.MarketPriors, cfg config.Config) *domain.SensitivitySummary {
	params := []domain.ParameterRange{
		{Name: "wage_growth", Dist: domain.DistNormal, Mean: priors.WageGrowthMean, StdDev: priors.WageGrowthStdDev},
		{Name: "inflation", Dist: domain.DistNormal, Mean: priors.InflationMean, StdDev: priors.InflationStdDev},
		{Name: "asset_return", Dist: domain.DistNormal, Mean: priors.AssetReturnMean, StdDev: priors.AssetReturnStdDev},
		{Name: "unemployment", Dist: domain.DistNormal, Mean: priors.UnemploymentMean, StdDev: priors.UnemploymentStdDev},
	}

	model := func(x []float64) float64 {
		wageGrowth, inflation, assetReturn := x[0], x[1], x[2]
		netWorth := 100000.0
		for year := 0; year < 10; year++ {
			income := 80000.0 * (1 + wageGrowth + inflation)
			netWorth = netWorth*(1+assetReturn) + income*0.15
		}
		return netWorth
	}

	seed := rng.NewMasterSeed(fmt.Sprintf("%s-sensitivity", cfg.Seed))
	result := sensitivity.RunSaltelli(seed, params, cfg.SensitivitySamples, model)
	drivers := sensitivity.KeyDrivers(result, 3)

	recommendation := "No single macro factor dominates outcome variance."
	if len(drivers) > 0 {
		recommendation = fmt.Sprintf("%s is the dominant driver of outcome variance; prioritize hedging or monitoring it.", drivers[0])
	}

	return &domain.SensitivitySummary{
		KeyDrivers:     drivers,
		Recommendation: recommendation,
		FirstOrder:     result.FirstOrder,
		TotalOrder:     result.TotalOrder,
	}
}

// generateScenarios fans scenario generation out across a worker pool,
// each scenario drawing its own substream so results are independent of
// worker count, then reduces in deterministic substream order. When
// method is "qmc", each scenario's regime/macro draw comes from a
// scrambled-Sobol point instead of Philox uniforms (the rest of the
// draw sequence still falls back to Philox — see qmcSource).
func (e *SimulationEngine) generateScenarios(
	ctx context.Context,
	factory *rng.StreamFactory,
	decision domain.Decision,
	profile domain.Profile,
	priors domain.MarketPriors,
	method string,
	n int,
	cfgSeed string,
) ([]domain.Scenario, *mlmc.Result, []string, error) {
	gen := scenario.NewGenerator(priors, decision, profile)
	scenarios := make([]domain.Scenario, n)

	var sources []*qmcSource
	if method == "qmc" {
		sources = qmcSources(factory, cfgSeed, n)
	}

	group, gctx := errgroup.WithContext(ctx)
	if e.Workers > 0 {
		group.SetLimit(e.Workers)
	} else {
		group.SetLimit(runtime.GOMAXPROCS(0))
	}
	for i := 0; i < n; i++ {
		i := i
		group.Go(func() error {
			if err := checkCancel(gctx); err != nil {
				return err
			}
			var src scenario.UniformSource
			if sources != nil {
				src = sources[i]
			} else {
				src = factory.Stream(streamRegimeJitter, uint32(i))
			}
			scenarios[i] = gen.Generate(src, 1.0/float64(n))
			for _, year := range config.ProjectionHorizons {
				scenario.ValidateOutcome(scenarios[i].Outcomes[year])
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, nil, err
	}

	var warnings []string
	var mlmcResult *mlmc.Result
	if method == "mlmc" {
		pg := pathGeneratorFor(decision, profile, priors)
		res, err := mlmc.RunMLMC(ctx, factory, pg, 1e-4, 6, 200_000)
		if err != nil {
			if se, ok := err.(*simerr.SimError); ok && se.Kind == simerr.NonConvergent {
				warnings = append(warnings, se.Error())
			} else {
				return nil, nil, nil, err
			}
		}
		mlmcResult = &res
	}

	return scenarios, mlmcResult, warnings, nil
}

// checkCancel reports a Cancelled SimError once ctx is done.
func checkCancel(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return simerr.New(simerr.Cancelled, "run_simulation cancelled")
	default:
		return nil
	}
}
