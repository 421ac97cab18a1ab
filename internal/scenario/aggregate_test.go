package scenario

import (
	"math"
	"testing"

	"github.com/lifepath-sim/simcore/internal/config"
	"github.com/lifepath-sim/simcore/internal/domain"
	"github.com/stretchr/testify/require"
)

func fixtureScenarios() []domain.Scenario {
	lastHorizon := config.ProjectionHorizons[len(config.ProjectionHorizons)-1]
	build := func(netWorth, satisfaction, happiness, stress, balance, prob float64) domain.Scenario {
		return domain.Scenario{
			Probability: prob,
			Outcomes: map[int]domain.YearlyOutcome{
				lastHorizon: {
					Financial: domain.FinancialState{NetWorth: netWorth},
					Career:    domain.CareerState{Satisfaction: satisfaction},
					Life:      domain.LifeState{Happiness: happiness, Stress: stress, Balance: balance},
				},
			},
		}
	}
	return []domain.Scenario{
		build(200000, 8, 8, 3, 7, 0.5),
		build(-50000, 3, 4, 8, 3, 0.5),
	}
}

func TestAggregateLowConfidencePullsScoresTowardNeutral(t *testing.T) {
	scenarios := fixtureScenarios()

	highConfidence := Aggregate(scenarios, 0.9, domain.DataQuality{Completeness: 1.0})
	lowConfidence := Aggregate(scenarios, 0.9, domain.DataQuality{Completeness: 0.1})

	const neutral = 5.0
	require.Less(t, math.Abs(lowConfidence.RiskScore-neutral), math.Abs(highConfidence.RiskScore-neutral))
	require.Less(t, math.Abs(lowConfidence.OpportunityScore-neutral), math.Abs(highConfidence.OpportunityScore-neutral))
}

func TestAggregateZeroCompletenessYieldsNeutralScores(t *testing.T) {
	scenarios := fixtureScenarios()
	metrics := Aggregate(scenarios, 0.9, domain.DataQuality{Completeness: 0})
	require.InDelta(t, 5.0, metrics.RiskScore, 1e-9)
	require.InDelta(t, 5.0, metrics.OpportunityScore, 1e-9)
}
