// Package reducer implements Wasserstein-based scenario reduction:
// Heitsch-Romisch forward selection down to k scenarios
// with mass redistributed to the nearest survivor, plus a nested-distance
// multistage variant for scenario trees. Grounded on a reference
// internal/engine/scenario_merge.go for the greedy nearest-neighbor
// merge shape, reworked from its single-distance-metric merge into a
// multi-horizon weighted distance and residual-transport-cost
// selection criterion.
package reducer

import (
	"math"

	"github.com/lifepath-sim/simcore/internal/config"
	"github.com/lifepath-sim/simcore/internal/domain"
)

const (
	netWorthScale = 1e10
	incomeScale   = 1e8
	macroWeight   = 0.1
)

// Distance computes the weighted multi-horizon distance between two scenarios: the
// square root of the sum, over horizons {1,3,5,10}, of squared
// differences in normalized net worth, income, satisfaction, and
// happiness, plus squared differences in GDP growth and inflation
// weighted by 0.1.
func Distance(a, b domain.Scenario) float64 {
	var sumSq float64
	for _, year := range config.ProjectionHorizons {
		oa, ok1 := a.Outcomes[year]
		ob, ok2 := b.Outcomes[year]
		if !ok1 || !ok2 {
			continue
		}
		sumSq += sq((oa.Financial.NetWorth - ob.Financial.NetWorth) / netWorthScale)
		sumSq += sq((oa.Financial.Income - ob.Financial.Income) / incomeScale)
		sumSq += sq(oa.Career.Satisfaction - ob.Career.Satisfaction)
		sumSq += sq(oa.Life.Happiness - ob.Life.Happiness)
	}
	sumSq += macroWeight * sq(a.Conditions.GDPGrowth-b.Conditions.GDPGrowth)
	sumSq += macroWeight * sq(a.Conditions.Inflation-b.Conditions.Inflation)
	return math.Sqrt(sumSq)
}

func sq(x float64) float64 { return x * x }

// Result is Reduce's output: k scenarios with renormalized probabilities
// plus the
// realized transport cost for diagnostics.
type Result struct {
	Scenarios    []domain.Scenario
	TransportCost float64
}

// Reduce selects k scenarios from the given n (k < n) via Heitsch-Romisch
// forward selection, then redistributes each unselected scenario's
// probability mass onto its nearest selected scenario.
//
// If k >= n, all scenarios are returned unchanged (reduction is a no-op,
// and transport cost is 0 — the k=n boundary case).
func Reduce(scenarios []domain.Scenario, k int) Result {
	n := len(scenarios)
	if k >= n {
		return Result{Scenarios: append([]domain.Scenario{}, scenarios...), TransportCost: 0}
	}
	if k <= 0 {
		return Result{Scenarios: nil, TransportCost: 0}
	}

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := Distance(scenarios[i], scenarios[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	selected := make(map[int]bool, k)
	best := 0
	for i := 1; i < n; i++ {
		if scenarios[i].Probability > scenarios[best].Probability {
			best = i
		}
	}
	selected[best] = true

	// nearestSelected[j] caches min_{s in S} d(j, s) so each iteration's
	// residual-cost scan is O(n) rather than O(n*|S|).
	nearestSelected := make([]float64, n)
	for j := 0; j < n; j++ {
		nearestSelected[j] = dist[j][best]
	}

	for len(selected) < k {
		candidate := -1
		candidateCost := math.Inf(1)
		for c := 0; c < n; c++ {
			if selected[c] {
				continue
			}
			cost := residualCostWith(scenarios, dist, selected, nearestSelected, c)
			if cost < candidateCost {
				candidateCost = cost
				candidate = c
			}
		}
		selected[candidate] = true
		for j := 0; j < n; j++ {
			if dist[j][candidate] < nearestSelected[j] {
				nearestSelected[j] = dist[j][candidate]
			}
		}
	}

	selectedIdx := make([]int, 0, k)
	for i := 0; i < n; i++ {
		if selected[i] {
			selectedIdx = append(selectedIdx, i)
		}
	}

	massOf := make(map[int]float64, k)
	for _, i := range selectedIdx {
		massOf[i] = scenarios[i].Probability
	}

	var transportCost float64
	for j := 0; j < n; j++ {
		if selected[j] {
			continue
		}
		nearest := selectedIdx[0]
		best := dist[j][nearest]
		for _, s := range selectedIdx[1:] {
			if dist[j][s] < best {
				best = dist[j][s]
				nearest = s
			}
		}
		massOf[nearest] += scenarios[j].Probability
		transportCost += scenarios[j].Probability * best
	}

	out := make([]domain.Scenario, 0, k)
	for _, i := range selectedIdx {
		sc := scenarios[i]
		sc.Probability = massOf[i]
		out = append(out, sc)
	}

	return Result{Scenarios: out, TransportCost: transportCost}
}

// residualCostWith computes Σ_{j not in S ∪ {candidate}} p_j * min(d(j,S), d(j,candidate)),
// the residual transport cost if candidate were added to the selection.
func residualCostWith(scenarios []domain.Scenario, dist [][]float64, selected map[int]bool, nearestSelected []float64, candidate int) float64 {
	var cost float64
	n := len(scenarios)
	for j := 0; j < n; j++ {
		if selected[j] || j == candidate {
			continue
		}
		d := nearestSelected[j]
		if dist[j][candidate] < d {
			d = dist[j][candidate]
		}
		cost += scenarios[j].Probability * d
	}
	return cost
}
