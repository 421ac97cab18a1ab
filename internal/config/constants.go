package config

// Regime names, in prior-weight order.
const (
	RegimeRecession = "recession"
	RegimeDownturn  = "downturn"
	RegimeStable    = "stable"
	RegimeGrowth    = "growth"
	RegimeBoom      = "boom"
)

// Regimes lists the five economic regimes in the fixed order their
// prior weights and conditional parameters below are indexed by.
var Regimes = []string{RegimeRecession, RegimeDownturn, RegimeStable, RegimeGrowth, RegimeBoom}

// RegimeWeights are the regime draw's prior probabilities.
var RegimeWeights = map[string]float64{
	RegimeRecession: 0.10,
	RegimeDownturn:  0.15,
	RegimeStable:    0.50,
	RegimeGrowth:    0.15,
	RegimeBoom:      0.10,
}

// RegimeAggregatorWeight re-weights scenario probability by regime
// before renormalization.
var RegimeAggregatorWeight = map[string]float64{
	RegimeRecession: 0.8,
	RegimeDownturn:  0.9,
	RegimeStable:    1.2,
	RegimeGrowth:    1.0,
	RegimeBoom:      0.7,
}

// RegimeConditional holds the normal-distribution parameters for GDP
// growth, inflation, unemployment, and asset return conditioned on a
// regime.
type RegimeConditional struct {
	GDPGrowthMean     float64
	GDPGrowthStdDev   float64
	InflationMean     float64
	InflationStdDev   float64
	UnemploymentMean  float64
	UnemploymentStdDev float64
	AssetReturnMean   float64
	AssetReturnStdDev float64
}

// RegimeConditionals are documented placeholder calibrations .
var RegimeConditionals = map[string]RegimeConditional{
	RegimeRecession: {GDPGrowthMean: -0.02, GDPGrowthStdDev: 0.015, InflationMean: 0.01, InflationStdDev: 0.01, UnemploymentMean: 0.09, UnemploymentStdDev: 0.015, AssetReturnMean: -0.15, AssetReturnStdDev: 0.20},
	RegimeDownturn:  {GDPGrowthMean: 0.005, GDPGrowthStdDev: 0.012, InflationMean: 0.02, InflationStdDev: 0.01, UnemploymentMean: 0.065, UnemploymentStdDev: 0.01, AssetReturnMean: -0.03, AssetReturnStdDev: 0.15},
	RegimeStable:    {GDPGrowthMean: 0.02, GDPGrowthStdDev: 0.01, InflationMean: 0.025, InflationStdDev: 0.008, UnemploymentMean: 0.045, UnemploymentStdDev: 0.008, AssetReturnMean: 0.07, AssetReturnStdDev: 0.12},
	RegimeGrowth:    {GDPGrowthMean: 0.035, GDPGrowthStdDev: 0.012, InflationMean: 0.03, InflationStdDev: 0.01, UnemploymentMean: 0.04, UnemploymentStdDev: 0.008, AssetReturnMean: 0.11, AssetReturnStdDev: 0.13},
	RegimeBoom:      {GDPGrowthMean: 0.05, GDPGrowthStdDev: 0.015, InflationMean: 0.04, InflationStdDev: 0.015, UnemploymentMean: 0.03, UnemploymentStdDev: 0.006, AssetReturnMean: 0.18, AssetReturnStdDev: 0.18},
}

// IndustryOutlookWeights give the categorical draw of industryOutlook
// conditioned on regime. Order: declining, stable,
// growing, booming.
var IndustryOutlookWeights = map[string][4]float64{
	RegimeRecession: {0.45, 0.35, 0.15, 0.05},
	RegimeDownturn:  {0.30, 0.40, 0.22, 0.08},
	RegimeStable:    {0.10, 0.45, 0.35, 0.10},
	RegimeGrowth:    {0.05, 0.25, 0.45, 0.25},
	RegimeBoom:      {0.02, 0.13, 0.40, 0.45},
}

// IndustryOutlooks is the fixed order IndustryOutlookWeights indexes.
var IndustryOutlooks = [4]string{"declining", "stable", "growing", "booming"}

// KeyEventProbability gives each event's regime-conditional probability
// per projected year.
type KeyEventProbability struct {
	MarketCrash       float64
	Promotion         float64
	Layoff            float64
	UnexpectedExpense float64
}

var KeyEventProbabilities = map[string]KeyEventProbability{
	RegimeRecession: {MarketCrash: 0.12, Promotion: 0.03, Layoff: 0.10, UnexpectedExpense: 0.18},
	RegimeDownturn:  {MarketCrash: 0.06, Promotion: 0.05, Layoff: 0.06, UnexpectedExpense: 0.15},
	RegimeStable:    {MarketCrash: 0.02, Promotion: 0.10, Layoff: 0.02, UnexpectedExpense: 0.12},
	RegimeGrowth:    {MarketCrash: 0.015, Promotion: 0.15, Layoff: 0.015, UnexpectedExpense: 0.12},
	RegimeBoom:      {MarketCrash: 0.03, Promotion: 0.20, Layoff: 0.01, UnexpectedExpense: 0.10},
}

// KeyEventFinancialDelta is the fixed financial delta (as a fraction of
// income, applied at the event's year) for each named key event.
var KeyEventFinancialDelta = map[string]float64{
	"market_crash":      -0.20,
	"promotion":         0.08,
	"layoff":            -0.50,
	"unexpected_expense": -0.08,
}

// LifeEventDelta are the baseline deltas applied to life metrics per
// decision type.
type LifeEventDelta struct {
	Satisfaction float64
	Balance      float64
	Stress       float64
	Health       float64
}

var DecisionLifeDeltas = map[string]LifeEventDelta{
	"career_change": {Satisfaction: 0.8, Balance: -0.3, Stress: 0.6, Health: -0.1},
	"job_offer":     {Satisfaction: 0.6, Balance: -0.2, Stress: 0.4, Health: 0.0},
	"education":     {Satisfaction: 0.3, Balance: -0.5, Stress: 0.7, Health: -0.2},
	"retirement":    {Satisfaction: 0.5, Balance: 1.2, Stress: -1.0, Health: 0.3},
	"relocation":    {Satisfaction: 0.2, Balance: -0.4, Stress: 0.5, Health: -0.1},
	"investment":    {Satisfaction: 0.1, Balance: 0.0, Stress: 0.2, Health: 0.0},
}

// VolatilityFactorRange bounds the investment-return volatility
// multiplier.
var VolatilityFactorRange = [2]float64{0.85, 1.15}

// ExpenseVarianceRange bounds the expense projection's uniform jitter
//.
var ExpenseVarianceRange = [2]float64{0.9, 1.1}

// ExpenseShockProbability is the annual chance of an expense shock
//.
const ExpenseShockProbability = 0.20

// ExpenseShockRange bounds the shock's fraction of income.
var ExpenseShockRange = [2]float64{0.05, 0.15}

// MarketValueFactorRange bounds the career market-value multiplier
//.
var MarketValueFactorRange = [2]float64{0.9, 1.25}

// RarePromotionBonusProbability and RarePromotionBonusRange implement
// the "rare_promotion_bonus" term of seniority progression.
const RarePromotionBonusProbability = 0.05

var RarePromotionBonusRange = [2]float64{1, 3}

// ProjectionHorizons are the four year marks the generator projects
//.
var ProjectionHorizons = []int{1, 3, 5, 10}

// RequiredProfileFields names the profile fields assess_data_quality
// checks for a given decision type. All decisions need the core financial fields;
// path-dependent decisions additionally need tenure context.
var RequiredProfileFields = map[string][]string{
	"career_change": {"age", "salary", "monthlyExpenses", "cash", "yearsExperience", "currentRole"},
	"job_offer":     {"age", "salary", "monthlyExpenses", "cash", "yearsExperience", "currentRole"},
	"education":     {"age", "salary", "monthlyExpenses", "cash", "yearsExperience"},
	"retirement":    {"age", "salary", "monthlyExpenses", "cash", "yearsExperience"},
	"relocation":    {"age", "salary", "monthlyExpenses", "cash"},
	"investment":    {"age", "salary", "monthlyExpenses", "cash"},
}
