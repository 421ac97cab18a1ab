package scenario

import (
	"math"
	"testing"

	"github.com/lifepath-sim/simcore/internal/config"
	"github.com/lifepath-sim/simcore/internal/domain"
	"github.com/lifepath-sim/simcore/internal/rng"
	"github.com/stretchr/testify/require"
)

func fixtureProfile() domain.Profile {
	return domain.Profile{
		Age: 30, Salary: 120000, MonthlyExpenses: 5000, Cash: 20000, YearsExperience: 5,
		CurrentRole: "Engineer",
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

func TestGenerateProducesAllHorizons(t *testing.T) {
	decision := domain.Decision{Type: domain.DecisionJobOffer, Option: domain.Option{NewSalary: 240000}}
	g := NewGenerator(fixturePriors(), decision, fixtureProfile())

	seed := rng.NewMasterSeed("fixture-001")
	stream := rng.NewStreamFactory(seed).Stream(1, 0)
	sc := g.Generate(stream, 1.0/100)

	for _, year := range config.ProjectionHorizons {
		o, ok := sc.Outcomes[year]
		require.True(t, ok)
		require.False(t, math.IsNaN(o.Financial.NetWorth))
		require.GreaterOrEqual(t, o.Career.Satisfaction, 1.0)
		require.LessOrEqual(t, o.Career.Satisfaction, 10.0)
		require.GreaterOrEqual(t, o.Life.Happiness, 1.0)
		require.LessOrEqual(t, o.Life.Happiness, 10.0)
		ValidateOutcome(o)
	}
}

func TestHigherOfferIncreasesExpectedFinancialValue(t *testing.T) {
	profile := fixtureProfile()
	priors := fixturePriors()

	runMean := func(newSalary float64) float64 {
		decision := domain.Decision{Type: domain.DecisionJobOffer, Option: domain.Option{NewSalary: newSalary}}
		g := NewGenerator(priors, decision, profile)
		factory := rng.NewStreamFactory(rng.NewMasterSeed("fixture-001"))
		n := 200
		scenarios := make([]domain.Scenario, n)
		for i := 0; i < n; i++ {
			stream := factory.Stream(1, uint32(i))
			scenarios[i] = g.Generate(stream, 1.0/float64(n))
		}
		metrics := Aggregate(scenarios, 0.9, domain.DataQuality{Completeness: 1.0})
		return metrics.ExpectedValue.Financial
	}

	low := runMean(120000)
	high := runMean(240000)
	require.Greater(t, high, low)
}

func TestReweightByRegimeNormalizes(t *testing.T) {
	scenarios := []domain.Scenario{
		{Probability: 0.5, Conditions: domain.EconomicConditions{Regime: config.RegimeStable}},
		{Probability: 0.5, Conditions: domain.EconomicConditions{Regime: config.RegimeRecession}},
	}
	ReweightByRegime(scenarios)
	var total float64
	for _, sc := range scenarios {
		total += sc.Probability
	}
	require.InDelta(t, 1.0, total, 1e-9)
}

func TestDeterministicGeneration(t *testing.T) {
	decision := domain.Decision{Type: domain.DecisionJobOffer, Option: domain.Option{NewSalary: 150000}}
	profile := fixtureProfile()
	priors := fixturePriors()

	seed := rng.NewMasterSeed("fixture-001")
	g1 := NewGenerator(priors, decision, profile)
	g2 := NewGenerator(priors, decision, profile)

	s1 := rng.NewStreamFactory(seed).Stream(1, 7)
	s2 := rng.NewStreamFactory(seed).Stream(1, 7)

	sc1 := g1.Generate(s1, 0.01)
	sc2 := g2.Generate(s2, 0.01)

	require.Equal(t, sc1.Outcomes, sc2.Outcomes)
}
