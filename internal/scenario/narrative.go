package scenario

import (
	"fmt"

	"github.com/lifepath-sim/simcore/internal/domain"
)

// Narrative turns the aggregate metrics into the ranked string lists
// the caller expects: recommendations, risks, opportunities.
// This is deliberately simple templated text — the AI narrative layer
// that would phrase these for an end user is explicitly out of scope.
func Narrative(metrics domain.AggregateMetrics, decision domain.Decision) (recommendations, risks, opportunities []string) {
	if metrics.ProbabilityOfSuccess >= 0.55 {
		recommendations = append(recommendations, fmt.Sprintf(
			"Proceeding with %s shows a favorable success probability of %.0f%%.",
			decision.Type, metrics.ProbabilityOfSuccess*100))
	} else {
		recommendations = append(recommendations, fmt.Sprintf(
			"The modeled success probability for %s is %.0f%%; consider mitigations before committing.",
			decision.Type, metrics.ProbabilityOfSuccess*100))
	}

	if metrics.Volatility > 0.5 {
		risks = append(risks, fmt.Sprintf("Outcome volatility is high (%.2f); build a larger cash buffer.", metrics.Volatility))
	}
	if metrics.RiskScore > 6 {
		risks = append(risks, fmt.Sprintf("Composite risk score is elevated (%.1f/10).", metrics.RiskScore))
	}
	if metrics.ConfidenceInterval[0] < 0 {
		risks = append(risks, "A meaningful share of outcomes show negative year-10 net worth.")
	}

	if metrics.OpportunityScore > 6 {
		opportunities = append(opportunities, fmt.Sprintf("Upside potential is strong (opportunity score %.1f/10).", metrics.OpportunityScore))
	}
	if metrics.ExpectedValue.Satisfaction > 7 {
		opportunities = append(opportunities, "Projected career satisfaction is well above baseline.")
	}

	if len(risks) == 0 {
		risks = append(risks, "No elevated risk factors detected in the modeled range.")
	}
	if len(opportunities) == 0 {
		opportunities = append(opportunities, "No standout upside beyond the expected trajectory was detected.")
	}
	return recommendations, risks, opportunities
}
