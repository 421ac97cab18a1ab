package orchestrator

import (
	"sort"

	"github.com/lifepath-sim/simcore/internal/copula"
	"github.com/lifepath-sim/simcore/internal/domain"
	"github.com/lifepath-sim/simcore/internal/rng"
)

// recoupleFields are the exogenous macro variables the vine copula is
// fit on; these are the scenario-level variables the vine copula
// couples (GDP growth, inflation, unemployment each carry
// cross-scenario dependence the independent regime draw otherwise
// discards).
var recoupleFields = []string{"gdpGrowth", "inflation", "unemployment"}

// recouple re-samples each scenario's exogenous macro uniforms from a
// vine fit on the generated batch's own empirical distribution, then
// reprojects through the empirical quantile function. Scenario count and probabilities are
// unchanged; only the macro fields are replaced with the vine-coupled
// draw, preserving each scenario's realized yearly outcomes (which
// already embed whatever macro values were originally drawn into the
// income/expense/return calculations) while giving the orchestrator's
// recorded macro conditions the tighter cross-field dependence the
// regime categorical draw alone does not produce.
func recouple(stream *rng.Stream, scenarios []domain.Scenario) {
	n := len(scenarios)
	if n < 8 {
		return // too few points for a meaningful empirical vine fit
	}

	raw := make([][]float64, n)
	for i, sc := range scenarios {
		raw[i] = []float64{sc.Conditions.GDPGrowth, sc.Conditions.Inflation, sc.Conditions.Unemployment}
	}

	pseudo, sorted := toPseudoUniforms(raw)
	vine := copula.Fit(transpose(pseudo))

	draws := make([][]float64, n)
	for i := 0; i < n; i++ {
		draws[i] = vine.Simulate(stream)
	}

	for i := range scenarios {
		scenarios[i].Conditions.GDPGrowth = fromPseudoUniform(draws[i][0], sorted[0])
		scenarios[i].Conditions.Inflation = fromPseudoUniform(draws[i][1], sorted[1])
		scenarios[i].Conditions.Unemployment = fromPseudoUniform(draws[i][2], sorted[2])
	}
}

// toPseudoUniforms converts each column of raw to pseudo-uniform
// marginals via its empirical CDF, returning both the pseudo-uniform
// matrix and each column's sorted values for the inverse mapping.
func toPseudoUniforms(raw [][]float64) ([][]float64, [][]float64) {
	n := len(raw)
	d := len(raw[0])
	pseudo := make([][]float64, n)
	for i := range pseudo {
		pseudo[i] = make([]float64, d)
	}
	sorted := make([][]float64, d)
	for j := 0; j < d; j++ {
		col := make([]float64, n)
		for i := 0; i < n; i++ {
			col[i] = raw[i][j]
		}
		sortedCol := append([]float64{}, col...)
		sort.Float64s(sortedCol)
		sorted[j] = sortedCol

		for i := 0; i < n; i++ {
			rank := sort.SearchFloat64s(sortedCol, col[i])
			pseudo[i][j] = (float64(rank) + 0.5) / float64(n)
		}
	}
	return pseudo, sorted
}

// transpose converts toPseudoUniforms' observation-major matrix into
// the variable-major layout copula.Fit expects (data[varIdx][obsIdx]).
func transpose(obsMajor [][]float64) [][]float64 {
	n := len(obsMajor)
	if n == 0 {
		return nil
	}
	d := len(obsMajor[0])
	out := make([][]float64, d)
	for j := 0; j < d; j++ {
		out[j] = make([]float64, n)
		for i := 0; i < n; i++ {
			out[j][i] = obsMajor[i][j]
		}
	}
	return out
}

// fromPseudoUniform maps a pseudo-uniform back to the empirical
// quantile of the original column (the inverse of toPseudoUniforms'
// empirical CDF).
func fromPseudoUniform(u float64, sorted []float64) float64 {
	n := len(sorted)
	idx := int(u * float64(n))
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}
