package reducer

import (
	"math"
	"testing"

	"github.com/lifepath-sim/simcore/internal/domain"
	"github.com/stretchr/testify/require"
)

func fixtureScenarios(n int) []domain.Scenario {
	scenarios := make([]domain.Scenario, n)
	for i := 0; i < n; i++ {
		nw := 100000.0 + float64(i)*10000
		scenarios[i] = domain.Scenario{
			Probability: 1.0 / float64(n),
			Conditions:  domain.EconomicConditions{Regime: "stable", IndustryOutlook: "growing", GDPGrowth: 0.02, Inflation: 0.025},
			Outcomes: map[int]domain.YearlyOutcome{
				1:  {Year: 1, Financial: domain.FinancialState{NetWorth: nw, Income: 100000}, Career: domain.CareerState{Satisfaction: 6}, Life: domain.LifeState{Happiness: 6}},
				3:  {Year: 3, Financial: domain.FinancialState{NetWorth: nw * 1.1, Income: 105000}, Career: domain.CareerState{Satisfaction: 6}, Life: domain.LifeState{Happiness: 6}},
				5:  {Year: 5, Financial: domain.FinancialState{NetWorth: nw * 1.3, Income: 110000}, Career: domain.CareerState{Satisfaction: 7}, Life: domain.LifeState{Happiness: 7}},
				10: {Year: 10, Financial: domain.FinancialState{NetWorth: nw * 1.8, Income: 130000}, Career: domain.CareerState{Satisfaction: 7}, Life: domain.LifeState{Happiness: 7}},
			},
		}
	}
	return scenarios
}

func totalProbability(scenarios []domain.Scenario) float64 {
	var sum float64
	for _, sc := range scenarios {
		sum += sc.Probability
	}
	return sum
}

func TestReduceConservesProbability(t *testing.T) {
	scenarios := fixtureScenarios(50)
	result := Reduce(scenarios, 10)
	require.Len(t, result.Scenarios, 10)
	require.InDelta(t, 1.0, totalProbability(result.Scenarios), 1e-9)
}

func TestReduceNoOpAtKEqualsN(t *testing.T) {
	scenarios := fixtureScenarios(20)
	result := Reduce(scenarios, 20)
	require.Len(t, result.Scenarios, 20)
	require.Equal(t, 0.0, result.TransportCost)
}

func TestTransportCostMonotonicNonincreasing(t *testing.T) {
	scenarios := fixtureScenarios(40)
	var prevCost float64 = math.Inf(1)
	for k := 1; k <= 40; k++ {
		result := Reduce(scenarios, k)
		require.LessOrEqual(t, result.TransportCost, prevCost+1e-9)
		prevCost = result.TransportCost
	}
}

func TestDistanceZeroForIdenticalScenarios(t *testing.T) {
	scenarios := fixtureScenarios(2)
	require.Equal(t, 0.0, Distance(scenarios[0], scenarios[0]))
}

func TestReduceMultistageMergesToBreadth(t *testing.T) {
	scenarios := fixtureScenarios(12)
	nodes := ReduceMultistage(scenarios, 3)
	require.Len(t, nodes, 1) // all scenarios share the same stage key in this fixture
	require.LessOrEqual(t, len(nodes[0].Scenarios), 3)
	require.InDelta(t, 1.0, nodes[0].Probability, 1e-9)
}
