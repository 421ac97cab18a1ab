package orchestrator

import (
	"github.com/lifepath-sim/simcore/internal/domain"
	"github.com/lifepath-sim/simcore/internal/mlmc"
)

// pathGeneratorFor builds the MLMC path generator for a path-dependent
// decision, parameterized from the profile's current
// financial position and the market priors' asset-return distribution.
func pathGeneratorFor(decision domain.Decision, profile domain.Profile, priors domain.MarketPriors) mlmc.NetWorthPathGenerator {
	annualContribution := profile.Salary - profile.MonthlyExpenses*12
	if annualContribution < 0 {
		annualContribution = 0
	}
	return mlmc.NetWorthPathGenerator{
		InitialNetWorth:    profile.Cash,
		AnnualContribution: annualContribution,
		DriftAnnual:        priors.AssetReturnMean,
		VolAnnual:          priors.AssetReturnStdDev,
		BaseSteps:          12,
		HorizonYears:       10,
	}
}

// blendMLMCEstimate folds the MLMC telescoping-sum estimate of year-10
// net worth into the scenario-aggregate expected value: the scenario
// generator's per-scenario paths capture the full outcome detail (life,
// career, key events) MLMC does not model, so MLMC contributes a
// variance-reduced correction to the financial expectation alone rather
// than replacing the aggregate wholesale.
func blendMLMCEstimate(metrics *domain.AggregateMetrics, result mlmc.Result) {
	if result.Estimate == 0 {
		return
	}
	const mlmcWeight = 0.5
	metrics.ExpectedValue.Financial = (1-mlmcWeight)*metrics.ExpectedValue.Financial + mlmcWeight*result.Estimate
}
