package orchestrator

import (
	"fmt"

	"github.com/lifepath-sim/simcore/internal/config"
	"github.com/lifepath-sim/simcore/internal/domain"
)

// AssessDataQuality reports how complete profile is against the field
// list a decision type requires.
func AssessDataQuality(profile domain.Profile, decisionType domain.DecisionType) domain.DataQuality {
	required := config.RequiredProfileFields[string(decisionType)]
	if len(required) == 0 {
		required = config.RequiredProfileFields["job_offer"]
	}

	var missing []string
	for _, field := range required {
		if !profile.Provided[field] {
			missing = append(missing, field)
		}
	}

	completeness := 1.0
	if len(required) > 0 {
		completeness = float64(len(required)-len(missing)) / float64(len(required))
	}

	confidence := "high"
	switch {
	case completeness < 0.5:
		confidence = "low"
	case completeness < 0.85:
		confidence = "medium"
	}

	var recommendations []string
	for _, field := range missing {
		recommendations = append(recommendations, fmt.Sprintf("Provide %s for a more precise estimate.", field))
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Profile is complete for this decision type.")
	}

	return domain.DataQuality{
		Completeness:    completeness,
		Confidence:      confidence,
		MissingFields:   missing,
		Recommendations: recommendations,
	}
}

// sampleCountMultiplier implements sample-count
// boost for sparse profiles: completeness < 0.5 doubles the target,
// < 0.7 multiplies by 1.5.
func sampleCountMultiplier(completeness float64) float64 {
	switch {
	case completeness < 0.5:
		return 2.0
	case completeness < 0.7:
		return 1.5
	default:
		return 1.0
	}
}
