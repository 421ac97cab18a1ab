// Package scenario implements the scenario generator and aggregator:
// regime draws, four-horizon financial/career/life
// projection, key-event injection, and probability-weighted
// aggregation. Grounded on a reference internal/engine/event_*.go for
// the event-table shape and internal/simulation/engine.go for the
// year-stepping projection loop, adapted from a reference
// tax/withdrawal domain to this package's financial/career/life outcome
// model.
package scenario

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/lifepath-sim/simcore/internal/config"
	"github.com/lifepath-sim/simcore/internal/domain"
	"github.com/lifepath-sim/simcore/internal/simerr"
)

// UniformSource is the minimal draw surface scenario generation needs:
// a stream of (0,1) uniforms plus a raw 32-bit word for scenario-ID
// bytes. *rng.Stream satisfies it directly (plain MC); the orchestrator
// also hands Generate a QMC-backed source when use_qmc is set, so the
// regime/macro draw that conditions the rest of the trajectory comes
// from scrambled Sobol points instead of Philox uniforms.
type UniformSource interface {
	NextUniform() float64
	NextUint32() uint32
}

// nextNormal draws from N(mu, sigma^2) via Box-Muller over src's
// uniforms, so a QMC-backed UniformSource gets the same variance
// reduction on normal draws that *rng.Stream.NextNormal gives Philox.
func nextNormal(src UniformSource, mu, sigma float64) float64 {
	const eps = 1e-12
	u1 := src.NextUniform()
	if u1 < eps {
		u1 = eps
	}
	u2 := src.NextUniform()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mu + sigma*z
}

// Generator produces one Scenario per call to Generate, using a
// dedicated RNG substream per scenario so generation is embarrassingly
// parallel and reproducible regardless of worker count.
type Generator struct {
	Priors  domain.MarketPriors
	Decision domain.Decision
	Profile  domain.Profile
}

// NewGenerator constructs a Generator for one decision/profile/priors
// triple, reused across every scenario draw.
func NewGenerator(priors domain.MarketPriors, decision domain.Decision, profile domain.Profile) *Generator {
	return &Generator{Priors: priors, Decision: decision, Profile: profile}
}

// Generate draws one scenario using the given uniform source.
func (g *Generator) Generate(stream UniformSource, weight float64) domain.Scenario {
	conditions := drawRegime(stream)
	sc := domain.Scenario{
		ID:          deterministicScenarioID(stream),
		Probability: weight,
		Conditions:  conditions,
		Outcomes:    make(map[int]domain.YearlyOutcome, len(config.ProjectionHorizons)),
		Assumptions: map[string]float64{
			"wage_growth":  g.Priors.WageGrowthMean,
			"asset_return": g.Priors.AssetReturnMean,
		},
	}

	prev := domain.FinancialState{
		NetWorth: g.Profile.Cash,
		Income:   g.Profile.Salary,
		Expenses: g.Profile.MonthlyExpenses * 12,
		Savings:  0,
	}
	prevLife := domain.LifeState{Happiness: 6, Stress: 4, Balance: 6, Health: 7}
	prevCareer := domain.CareerState{
		Role:         g.Profile.CurrentRole,
		Seniority:    domain.Clamp10(float64(g.Profile.YearsExperience) / 3),
		MarketValue:  g.Profile.Salary,
		Satisfaction: 6,
	}

	lastYear := 0
	for _, year := range config.ProjectionHorizons {
		yearsElapsed := year - lastYear
		outcome, events := g.projectYear(stream, conditions, year, yearsElapsed, prev, prevCareer, prevLife)
		sc.Outcomes[year] = outcome
		sc.KeyEvents = append(sc.KeyEvents, events...)
		prev = outcome.Financial
		prevCareer = outcome.Career
		prevLife = outcome.Life
		lastYear = year
	}

	return sc
}

// deterministicScenarioID draws 16 bytes from the scenario's own
// substream to build the Scenario.ID, rather than google/uuid's default
// crypto-random generator — required so Scenario.ID is itself
// reproducible across runs sharing a MasterSeed (bit-identical
// SimulationResult.scenarios regardless of worker-pool size).
func deterministicScenarioID(stream UniformSource) string {
	var b [16]byte
	for i := 0; i < 4; i++ {
		w := stream.NextUint32()
		b[i*4], b[i*4+1], b[i*4+2], b[i*4+3] = byte(w>>24), byte(w>>16), byte(w>>8), byte(w)
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return uuid.UUID(b).String()
}

func drawRegime(stream UniformSource) domain.EconomicConditions {
	u := stream.NextUniform()
	var cum float64
	regime := config.RegimeStable
	for _, r := range config.Regimes {
		cum += config.RegimeWeights[r]
		if u <= cum {
			regime = r
			break
		}
	}
	rc := config.RegimeConditionals[regime]

	gdp := nextNormal(stream, rc.GDPGrowthMean, rc.GDPGrowthStdDev)
	inflation := nextNormal(stream, rc.InflationMean, rc.InflationStdDev)
	unemployment := nextNormal(stream, rc.UnemploymentMean, rc.UnemploymentStdDev)
	if unemployment < 0 {
		unemployment = 0
	}

	outlookWeights := config.IndustryOutlookWeights[regime]
	ou := stream.NextUniform()
	var ocum float64
	outlook := config.IndustryOutlooks[1]
	for i, w := range outlookWeights {
		ocum += w
		if ou <= ocum {
			outlook = config.IndustryOutlooks[i]
			break
		}
	}

	return domain.EconomicConditions{
		Regime:          regime,
		GDPGrowth:       gdp,
		Inflation:       inflation,
		Unemployment:    unemployment,
		IndustryOutlook: outlook,
	}
}

// careerGrowthRate maps industry outlook and tenure bucket to an annual
// career growth contribution.
func careerGrowthRate(outlook string, yearsExperience int) float64 {
	base := map[string]float64{"declining": -0.01, "stable": 0.01, "growing": 0.025, "booming": 0.045}[outlook]
	tenureBonus := 0.0
	switch {
	case yearsExperience < 3:
		tenureBonus = 0.01
	case yearsExperience < 10:
		tenureBonus = 0.005
	default:
		tenureBonus = 0.0
	}
	return base + tenureBonus
}

func (g *Generator) projectYear(
	stream UniformSource,
	conditions domain.EconomicConditions,
	year, yearsElapsed int,
	prevFin domain.FinancialState,
	prevCareer domain.CareerState,
	prevLife domain.LifeState,
) (domain.YearlyOutcome, []domain.KeyEvent) {
	growthEps := nextNormal(stream, 0, 0.02)
	careerGrowth := careerGrowthRate(conditions.IndustryOutlook, g.Profile.YearsExperience+year)

	baseIncome := g.Profile.Salary
	if year == 1 && (g.Decision.Type == domain.DecisionCareerChange || g.Decision.Type == domain.DecisionJobOffer) && g.Decision.Option.NewSalary > 0 {
		baseIncome = g.Decision.Option.NewSalary
	}
	income := baseIncome * math.Pow(1+conditions.Inflation+careerGrowth+growthEps, float64(year))

	monthlyBase := g.Profile.MonthlyExpenses * 12
	expenseJitterLo, expenseJitterHi := config.ExpenseVarianceRange[0], config.ExpenseVarianceRange[1]
	expenseJitter := expenseJitterLo + (expenseJitterHi-expenseJitterLo)*stream.NextUniform()
	expenses := monthlyBase * math.Pow(1+conditions.Inflation, float64(year)) * expenseJitter

	var events []domain.KeyEvent
	for y := 0; y < yearsElapsed; y++ {
		if stream.NextUniform() < config.ExpenseShockProbability {
			lo, hi := config.ExpenseShockRange[0], config.ExpenseShockRange[1]
			shock := income * (lo + (hi-lo)*stream.NextUniform())
			expenses += shock
			events = append(events, domain.KeyEvent{Year: year, Type: "unexpected_expense", Description: "expense shock", FinancialDelta: -shock})
		}
	}

	investable := prevFin.NetWorth - g.Profile.Cash
	if investable < 0 {
		investable = 0
	}
	rc := config.RegimeConditionals[conditions.Regime]
	volLo, volHi := config.VolatilityFactorRange[0], config.VolatilityFactorRange[1]
	volFactor := volLo + (volHi-volLo)*stream.NextUniform()
	returnRate := nextNormal(stream, rc.AssetReturnMean, rc.AssetReturnStdDev) * volFactor
	investmentReturn := 0.0
	if investable > 0 {
		investmentReturn = investable * returnRate
	}

	savings := income - expenses
	netWorth := prevFin.NetWorth + savings + investmentReturn

	for y := 0; y < yearsElapsed; y++ {
		rel := config.KeyEventProbabilities[conditions.Regime]
		if stream.NextUniform() < rel.MarketCrash {
			delta := income * config.KeyEventFinancialDelta["market_crash"]
			netWorth += delta
			events = append(events, domain.KeyEvent{Year: year, Type: "market_crash", Description: "market crash", FinancialDelta: delta})
		}
		if stream.NextUniform() < rel.Promotion {
			delta := income * config.KeyEventFinancialDelta["promotion"]
			netWorth += delta
			events = append(events, domain.KeyEvent{Year: year, Type: "promotion", Description: "promotion", FinancialDelta: delta})
		}
		if stream.NextUniform() < rel.Layoff {
			delta := income * config.KeyEventFinancialDelta["layoff"]
			netWorth += delta
			events = append(events, domain.KeyEvent{Year: year, Type: "layoff", Description: "layoff", FinancialDelta: delta})
		}
	}

	rareBonus := 0.0
	if stream.NextUniform() < config.RarePromotionBonusProbability {
		lo, hi := config.RarePromotionBonusRange[0], config.RarePromotionBonusRange[1]
		rareBonus = lo + (hi-lo)*stream.NextUniform()
	}
	seniority := domain.Clamp10(math.Floor(float64(g.Profile.YearsExperience+year)/3) + rareBonus)
	mvLo, mvHi := config.MarketValueFactorRange[0], config.MarketValueFactorRange[1]
	marketValue := income * (mvLo + (mvHi-mvLo)*stream.NextUniform())

	satisfactionDelta := config.DecisionLifeDeltas[string(g.Decision.Type)]
	jitter := func(sigma float64) float64 { return nextNormal(stream, 0, sigma) }

	satisfaction := domain.Clamp10(prevCareer.Satisfaction + satisfactionDelta.Satisfaction*0.3 + jitter(0.4))
	balance := domain.Clamp10(prevLife.Balance + satisfactionDelta.Balance + jitter(0.4))
	stress := domain.Clamp10(prevLife.Stress + satisfactionDelta.Stress + jitter(0.5))
	health := domain.Clamp10(prevLife.Health + satisfactionDelta.Health + jitter(0.3))
	happiness := domain.Clamp10((satisfaction+balance+(10-stress))/3 + jitter(0.3))

	outcome := domain.YearlyOutcome{
		Year: year,
		Financial: domain.FinancialState{
			NetWorth: netWorth,
			Income:   income,
			Expenses: expenses,
			Savings:  savings,
		},
		Career: domain.CareerState{
			Role:         g.Profile.CurrentRole,
			Seniority:    seniority,
			MarketValue:  marketValue,
			Satisfaction: satisfaction,
		},
		Life: domain.LifeState{
			Happiness: happiness,
			Stress:    stress,
			Balance:   balance,
			Health:    health,
		},
	}
	return outcome, events
}

// ValidateOutcome panics with a simerr.Invariant if a fatal internal
// invariant is violated.
func ValidateOutcome(o domain.YearlyOutcome) {
	for name, v := range map[string]float64{
		"career.seniority":    o.Career.Seniority,
		"career.satisfaction": o.Career.Satisfaction,
		"life.happiness":      o.Life.Happiness,
		"life.stress":         o.Life.Stress,
		"life.balance":        o.Life.Balance,
		"life.health":         o.Life.Health,
	} {
		if v < 1 || v > 10 {
			simerr.PanicInvariant(name, fmt.Sprintf("value %v out of [1,10]", v))
		}
	}
	if math.IsNaN(o.Financial.NetWorth) || math.IsInf(o.Financial.NetWorth, 0) {
		simerr.PanicInvariant("financial.netWorth", fmt.Sprintf("non-finite value %v", o.Financial.NetWorth))
	}
}
