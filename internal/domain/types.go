// Package domain holds the shared data model of the simulation core:
// the entities that flow between the RNG, scenario generator,
// sensitivity analyzer, reducer, and orchestrator. Grounded on a
// reference internal/engine/domain_types.go and unified_types.go, which
// play the same "one place to find every cross-package struct" role —
// adapted here from a reference tax/ledger/withdrawal domain to the
// life-decision/Monte-Carlo domain this core actually computes.
package domain

import "time"

// DecisionType enumerates the life decisions the engine projects
// outcomes for. career_change, job_offer, education, and retirement are
// path-dependent and become MLMC candidates.
type DecisionType string

const (
	DecisionCareerChange DecisionType = "career_change"
	DecisionJobOffer     DecisionType = "job_offer"
	DecisionEducation    DecisionType = "education"
	DecisionRetirement   DecisionType = "retirement"
	DecisionRelocation   DecisionType = "relocation"
	DecisionInvestment   DecisionType = "investment"
)

// PathDependent reports whether this decision type should prefer MLMC
// path generation over plain scenario stepping.
func (d DecisionType) PathDependent() bool {
	switch d {
	case DecisionCareerChange, DecisionJobOffer, DecisionEducation, DecisionRetirement:
		return true
	default:
		return false
	}
}

// Decision is the user's chosen life decision and the single option
// being evaluated against their current trajectory.
type Decision struct {
	Type   DecisionType
	Option Option
}

// Option carries the decision-type-specific parameters of the chosen
// path (e.g. a job offer's new salary).
type Option struct {
	NewSalary   float64 // job_offer / career_change: replaces base income in year 1
	TuitionCost float64 // education
	RelocationCost float64
	Description string
}

// Profile is the user's demographic/career/financial starting position.
// Field presence (zero vs set) feeds assess_data_quality; a
// caller that omits a field leaves it at its zero value, which is also
// why completeness tracking is driven by an explicit Provided set rather
// than a zero-value check.
type Profile struct {
	Age             int
	Salary          float64
	MonthlyExpenses float64
	Cash            float64
	YearsExperience int
	CurrentRole     string
	Industry        string

	// Provided names the fields the caller actually supplied, for data
	// quality assessment; fields absent here are treated as defaulted
	// rather than known.
	Provided map[string]bool
}

// Validate enforces input boundaries, accumulating every
// violation rather than failing fast on the first one (grounded on the
// teacher's config_validation.go accumulate-then-report pattern).
func (p Profile) Validate() []string {
	var violations []string
	if p.Age < 18 || p.Age > 100 {
		violations = append(violations, "age must be in [18, 100]")
	}
	if p.Salary < 0 || p.Salary > 1e7 {
		violations = append(violations, "salary must be in [0, 1e7]")
	}
	if p.MonthlyExpenses < 0 {
		violations = append(violations, "monthlyExpenses must be non-negative")
	}
	if p.Salary > 0 && p.MonthlyExpenses*12 > p.Salary {
		violations = append(violations, "monthlyExpenses*12 must not exceed annual salary")
	}
	return violations
}

// MarketPriors is the read-only input supplied by the data layer:
// historical series and marginal distributions the scenario generator
// and copula layer condition on. The core never fetches this itself.
type MarketPriors struct {
	WageGrowthMean     float64
	WageGrowthStdDev   float64
	InflationMean      float64
	InflationStdDev    float64
	AssetReturnMean    float64
	AssetReturnStdDev  float64
	UnemploymentMean   float64
	UnemploymentStdDev float64
	HousingGrowthMean  float64
	HousingGrowthStdDev float64

	// HistoricalSeries, when present, backs the vine copula's empirical
	// marginals. Keyed by series name (e.g. "wage_growth").
	HistoricalSeries map[string][]float64
}

// MissingRequiredFields reports which of the fields a given decision
// type requires are absent from HistoricalSeries, surfaced as
// InsufficientPriors rather than silently defaulting.
func (p MarketPriors) MissingRequiredFields(required []string) []string {
	var missing []string
	for _, f := range required {
		if _, ok := p.HistoricalSeries[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// ParameterDistribution tags how a ParameterRange's [Min, Max] is
// interpreted by the sensitivity transforms.
type ParameterDistribution string

const (
	DistUniform   ParameterDistribution = "uniform"
	DistNormal    ParameterDistribution = "normal"
	DistLognormal ParameterDistribution = "lognormal"
)

// ParameterRange is one sensitivity-analysis input factor.
type ParameterRange struct {
	Name     string
	Min      float64
	Max      float64
	Dist     ParameterDistribution
	Mean     float64 // used by normal/lognormal
	StdDev   float64 // used by normal/lognormal
}

// EconomicConditions is the regime draw and its conditional macro
// variables for one scenario.
type EconomicConditions struct {
	Regime           string // recession | downturn | stable | growth | boom
	GDPGrowth        float64
	Inflation        float64
	Unemployment     float64
	IndustryOutlook  string // declining | stable | growing | booming
}

// FinancialState is the financial slice of a YearlyOutcome.
type FinancialState struct {
	NetWorth float64
	Income   float64
	Expenses float64
	Savings  float64
}

// CareerState is the career slice of a YearlyOutcome. Seniority and
// Satisfaction are clamped to [1, 10].
type CareerState struct {
	Role         string
	Seniority    float64
	MarketValue  float64
	Satisfaction float64
}

// LifeState is the life slice of a YearlyOutcome. All four fields are
// clamped to [1, 10].
type LifeState struct {
	Happiness float64
	Stress    float64
	Balance   float64
	Health    float64
}

// Clamp10 clamps a 1-10 score; called after every
// stochastic update to the life/career scores.
func Clamp10(v float64) float64 {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// YearlyOutcome is the full projected state at one horizon year.
type YearlyOutcome struct {
	Year      int
	Financial FinancialState
	Career    CareerState
	Life      LifeState
}

// KeyEvent is a discrete named event injected during projection.
type KeyEvent struct {
	Year        int
	Type        string // market_crash | promotion | layoff | unexpected_expense
	Description string
	FinancialDelta float64
}

// Scenario is one simulated future. Immutable after the
// reducer finishes: no component mutates another's scenarios.
type Scenario struct {
	ID          string
	Probability float64
	Conditions  EconomicConditions
	Outcomes    map[int]YearlyOutcome // keyed by horizon year: 1, 3, 5, 10
	KeyEvents   []KeyEvent
	Assumptions map[string]float64
}

// ExpectedValue is the weighted mean of one outcome dimension across
// scenarios, computed per aggregate metrics.
type ExpectedValue struct {
	Financial    float64
	Satisfaction float64
	Happiness    float64
}

// AggregateMetrics summarizes the reduced scenario set.
type AggregateMetrics struct {
	ExpectedValue        ExpectedValue
	Volatility           float64
	ConfidenceInterval   [2]float64
	ConfidenceLevel      float64
	ProbabilityOfSuccess float64
	RiskScore            float64
	OpportunityScore     float64
}

// DataQuality is the result of assess_data_quality.
type DataQuality struct {
	Completeness    float64
	Confidence      string // high | medium | low
	MissingFields   []string
	Recommendations []string
}

// SensitivitySummary is the retained subset of a full sensitivity run
// attached to SimulationResult.Metadata.
type SensitivitySummary struct {
	KeyDrivers      []string
	Recommendation  string
	FirstOrder      map[string]float64
	TotalOrder      map[string]float64
}

// Metadata is the non-scenario part of SimulationResult. ComputationTime is explicitly the only non-reproducible
// field.
type Metadata struct {
	Seed            string
	Method          string // plain_mc | qmc | mlmc
	ComputationTime time.Duration
	StageTimings    map[string]time.Duration
	DataQuality     DataQuality
	Sensitivity     *SensitivitySummary
	Warnings        []string
	Converged       bool
}

// SimulationResult is the orchestrator's output.
type SimulationResult struct {
	Scenarios        []Scenario
	AggregateMetrics AggregateMetrics
	Recommendations  []string
	Risks            []string
	Opportunities    []string
	Metadata         Metadata
}
