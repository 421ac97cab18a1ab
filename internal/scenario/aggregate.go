package scenario

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/lifepath-sim/simcore/internal/config"
	"github.com/lifepath-sim/simcore/internal/domain"
)

// ReweightByRegime applies the aggregator's regime re-weighting and
// renormalizes to sum to 1. Mutates Probability in
// place since scenarios are still owned by the generator at this point
// in the pipeline (ownership transfers to the aggregator only after
// this call returns).
func ReweightByRegime(scenarios []domain.Scenario) {
	total := 0.0
	weighted := make([]float64, len(scenarios))
	for i, sc := range scenarios {
		w := sc.Probability * config.RegimeAggregatorWeight[sc.Conditions.Regime]
		weighted[i] = w
		total += w
	}
	if total <= 0 {
		// NumericFailure fallback: uniform initial weights.
		for i := range scenarios {
			scenarios[i].Probability = 1.0 / float64(len(scenarios))
		}
		return
	}
	for i := range scenarios {
		scenarios[i].Probability = weighted[i] / total
	}
}

// weightedMeanStd computes the probability-weighted mean and standard
// deviation of values, using probabilities as weights.
func weightedMeanStd(values, weights []float64) (mean, std float64) {
	var sumW float64
	for _, w := range weights {
		sumW += w
	}
	if sumW == 0 {
		return 0, 0
	}
	mean = stat.Mean(values, weights)
	var sumSq float64
	for i, v := range values {
		d := v - mean
		sumSq += weights[i] * d * d
	}
	std = math.Sqrt(sumSq / sumW)
	return mean, std
}

// weightedQuantile returns the weighted order-statistic quantile q in
// [0,1] of values, using gonum's empirical-CDF weighted quantile over
// the ascending-sorted (value, weight) pairs it requires.
func weightedQuantile(values, weights []float64, q float64) float64 {
	type pair struct{ v, w float64 }
	pairs := make([]pair, len(values))
	var total float64
	for i := range values {
		pairs[i] = pair{values[i], weights[i]}
		total += weights[i]
	}
	if total == 0 || len(pairs) == 0 {
		return 0
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].v < pairs[j].v })
	sortedV := make([]float64, len(pairs))
	sortedW := make([]float64, len(pairs))
	for i, p := range pairs {
		sortedV[i] = p.v
		sortedW[i] = p.w
	}
	return stat.Quantile(q, stat.Empirical, sortedV, sortedW)
}

// Aggregate computes AggregateMetrics over the final (possibly reduced)
// scenario set at confidenceLevel. dataQuality's completeness ratio tags
// RiskScore and OpportunityScore with a confidence multiplier: the less
// complete the input profile, the more both scores get pulled toward the
// neutral midpoint, since a sparse profile has less evidence to support an
// extreme reading in either direction.
func Aggregate(scenarios []domain.Scenario, confidenceLevel float64, dataQuality domain.DataQuality) domain.AggregateMetrics {
	n := len(scenarios)
	if n == 0 {
		return domain.AggregateMetrics{ConfidenceLevel: confidenceLevel}
	}
	weights := make([]float64, n)
	netWorth10 := make([]float64, n)
	satisfaction10 := make([]float64, n)
	happiness10 := make([]float64, n)
	overall := make([]float64, n)

	lastHorizon := config.ProjectionHorizons[len(config.ProjectionHorizons)-1]
	for i, sc := range scenarios {
		weights[i] = sc.Probability
		o, ok := sc.Outcomes[lastHorizon]
		if !ok {
			continue
		}
		netWorth10[i] = o.Financial.NetWorth
		satisfaction10[i] = o.Career.Satisfaction
		happiness10[i] = o.Life.Happiness
		overall[i] = (o.Career.Satisfaction + o.Life.Happiness + (10 - o.Life.Stress) + o.Life.Balance) / 4
	}

	meanNW, stdNW := weightedMeanStd(netWorth10, weights)
	meanSat, _ := weightedMeanStd(satisfaction10, weights)
	meanHap, _ := weightedMeanStd(happiness10, weights)

	volatility := 0.0
	if meanNW != 0 {
		volatility = math.Abs(stdNW / meanNW)
	}

	alpha := (1 - confidenceLevel) / 2
	lower := weightedQuantile(netWorth10, weights, alpha)
	upper := weightedQuantile(netWorth10, weights, 1-alpha)

	var successWeight float64
	for i := range scenarios {
		if netWorth10[i] > 0 && satisfaction10[i] > 5 && happiness10[i] > 5 {
			successWeight += weights[i]
		}
	}

	var downsideMass float64
	for i, v := range netWorth10 {
		if v < meanNW {
			downsideMass += weights[i]
		}
	}
	meanOverall, _ := weightedMeanStd(overall, weights)

	rawRisk := clamp01(volatility)*10*0.5 + clamp01(downsideMass)*10*0.3 + (10-meanOverall)*0.2
	rawOpportunity := meanOverall*0.6 + clamp01(1-volatility)*10*0.4

	confidenceFactor := clamp01(dataQuality.Completeness)
	const neutral = 5.0
	riskScore := domain.Clamp10(confidenceFactor*rawRisk + (1-confidenceFactor)*neutral)
	opportunityScore := domain.Clamp10(confidenceFactor*rawOpportunity + (1-confidenceFactor)*neutral)

	return domain.AggregateMetrics{
		ExpectedValue: domain.ExpectedValue{
			Financial:    meanNW,
			Satisfaction: meanSat,
			Happiness:    meanHap,
		},
		Volatility:           volatility,
		ConfidenceInterval:   [2]float64{lower, upper},
		ConfidenceLevel:      confidenceLevel,
		ProbabilityOfSuccess: successWeight,
		RiskScore:            riskScore,
		OpportunityScore:     opportunityScore,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// NormalizeProbabilities rescales scenario probabilities to sum to 1
// within 10^-9, used after reduction (ReweightByRegime renormalizes on
// its own after generation).
func NormalizeProbabilities(scenarios []domain.Scenario) {
	var total float64
	for _, sc := range scenarios {
		total += sc.Probability
	}
	if total <= 0 {
		for i := range scenarios {
			scenarios[i].Probability = 1.0 / float64(len(scenarios))
		}
		return
	}
	for i := range scenarios {
		scenarios[i].Probability /= total
	}
}
