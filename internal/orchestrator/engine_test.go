package orchestrator

import (
	"context"
	"testing"

	"github.com/lifepath-sim/simcore/internal/config"
	"github.com/lifepath-sim/simcore/internal/domain"
	"github.com/stretchr/testify/require"
)

func fixtureProfile() domain.Profile {
	return domain.Profile{
		Age: 30, Salary: 120000, MonthlyExpenses: 5000, Cash: 20000, YearsExperience: 5,
		CurrentRole: "Engineer",
		Provided: map[string]bool{
			"age": true, "salary": true, "monthlyExpenses": true, "cash": true,
			"yearsExperience": true, "currentRole": true,
		},
	}
}

func fixturePriors() domain.MarketPriors {
	return domain.MarketPriors{
		WageGrowthMean: 0.03, WageGrowthStdDev: 0.01,
		InflationMean: 0.025, InflationStdDev: 0.01,
		AssetReturnMean: 0.07, AssetReturnStdDev: 0.12,
		UnemploymentMean: 0.045, UnemploymentStdDev: 0.01,
	}
}

func fixtureConfig() config.Config {
	c := config.Default()
	c.Seed = "fixture-001"
	c.TargetScenarios = 64
	c.RunSensitivity = false
	return c
}

func TestRunSimulationDoubledOfferBeatsBaseline(t *testing.T) {
	engine := NewSimulationEngine(4)
	profile := fixtureProfile()
	priors := fixturePriors()
	cfg := fixtureConfig()

	run := func(newSalary float64) domain.SimulationResult {
		decision := domain.Decision{Type: domain.DecisionJobOffer, Option: domain.Option{NewSalary: newSalary}}
		result, err := engine.RunSimulation(context.Background(), decision, profile, priors, cfg, nil)
		require.NoError(t, err)
		return result
	}

	low := run(120000)
	high := run(240000)
	require.Greater(t, high.AggregateMetrics.ExpectedValue.Financial, low.AggregateMetrics.ExpectedValue.Financial)
}

func TestRunSimulationDeterministicAcrossWorkerCounts(t *testing.T) {
	decision := domain.Decision{Type: domain.DecisionJobOffer, Option: domain.Option{NewSalary: 150000}}
	profile := fixtureProfile()
	priors := fixturePriors()
	cfg := fixtureConfig()

	r1, err := NewSimulationEngine(1).RunSimulation(context.Background(), decision, profile, priors, cfg, nil)
	require.NoError(t, err)
	r4, err := NewSimulationEngine(4).RunSimulation(context.Background(), decision, profile, priors, cfg, nil)
	require.NoError(t, err)

	require.Equal(t, r1.AggregateMetrics, r4.AggregateMetrics)
	require.Equal(t, len(r1.Scenarios), len(r4.Scenarios))
	for i := range r1.Scenarios {
		require.Equal(t, r1.Scenarios[i].ID, r4.Scenarios[i].ID)
	}
}

func TestRunSimulationSparseProfileLowersConfidence(t *testing.T) {
	decision := domain.Decision{Type: domain.DecisionJobOffer, Option: domain.Option{NewSalary: 150000}}
	sparse := domain.Profile{Age: 30, CurrentRole: "Engineer", Provided: map[string]bool{"age": true, "currentRole": true}}
	priors := fixturePriors()
	cfg := fixtureConfig()

	engine := NewSimulationEngine(4)
	result, err := engine.RunSimulation(context.Background(), decision, sparse, priors, cfg, nil)
	require.NoError(t, err)
	require.Less(t, result.Metadata.DataQuality.Completeness, 0.5)
	require.Equal(t, "low", result.Metadata.DataQuality.Confidence)
}

func TestRunSimulationInvalidProfileReturnsInvalidInput(t *testing.T) {
	decision := domain.Decision{Type: domain.DecisionJobOffer}
	bad := domain.Profile{Age: 5} // below [18,100]
	priors := fixturePriors()
	cfg := fixtureConfig()

	engine := NewSimulationEngine(1)
	_, err := engine.RunSimulation(context.Background(), decision, bad, priors, cfg, nil)
	require.Error(t, err)
}

func TestRunSimulationProgressReachesComplete(t *testing.T) {
	decision := domain.Decision{Type: domain.DecisionJobOffer, Option: domain.Option{NewSalary: 150000}}
	profile := fixtureProfile()
	priors := fixturePriors()
	cfg := fixtureConfig()

	var stages []ProgressStage
	engine := NewSimulationEngine(2)
	_, err := engine.RunSimulation(context.Background(), decision, profile, priors, cfg, func(s ProgressStage) {
		stages = append(stages, s)
	})
	require.NoError(t, err)
	require.NotEmpty(t, stages)
	last := stages[len(stages)-1]
	require.Equal(t, "complete", last.Stage)
	require.Equal(t, 100, last.Percentage)

	for i := 1; i < len(stages); i++ {
		require.GreaterOrEqual(t, stages[i].Percentage, stages[i-1].Percentage)
	}
}

func TestRunQuickEstimateUsesLightweightConfig(t *testing.T) {
	decision := domain.Decision{Type: domain.DecisionJobOffer, Option: domain.Option{NewSalary: 150000}}
	profile := fixtureProfile()
	priors := fixturePriors()

	engine := NewSimulationEngine(2)
	result, err := engine.RunQuickEstimate(context.Background(), decision, profile, priors, "fixture-001")
	require.NoError(t, err)
	require.LessOrEqual(t, len(result.Scenarios), 50)
}

func TestAnalyzeSensitivityReturnsKeyDrivers(t *testing.T) {
	priors := fixturePriors()
	cfg := fixtureConfig()
	cfg.SensitivitySamples = 2048

	engine := NewSimulationEngine(1)
	summary := engine.AnalyzeSensitivity(priors, cfg)
	require.NotNil(t, summary)
	require.NotEmpty(t, summary.KeyDrivers)
}

func TestAssessDataQualityCompleteProfile(t *testing.T) {
	profile := fixtureProfile()
	dq := AssessDataQuality(profile, domain.DecisionJobOffer)
	require.Equal(t, 1.0, dq.Completeness)
	require.Equal(t, "high", dq.Confidence)
}
