package reducer

import "github.com/lifepath-sim/simcore/internal/domain"

// StageKey groups scenarios sharing identical stage-prefix values (spec
// §4.7's multistage variant). For this core, the stage prefix is the
// scenario's economic regime and industry outlook, which are fixed per
// scenario rather than per horizon, so every scenario has one key.
type StageKey struct {
	Regime  string
	Outlook string
}

// stageKeyFor derives one scenario's prefix key from its regime and
// industry outlook; scenarios sharing a key are siblings in the tree.
func stageKeyFor(sc domain.Scenario) StageKey {
	return StageKey{Regime: sc.Conditions.Regime, Outlook: sc.Conditions.IndustryOutlook}
}

// TreeNode is one node of the reduced scenario tree: either a leaf
// (single scenario) or a merged group of siblings collapsed to their
// probability-weighted mean.
type TreeNode struct {
	Key         StageKey
	Probability float64
	Scenarios   []domain.Scenario // members collapsed into this node
}

// ReduceMultistage groups scenarios by stage-prefix key, then merges
// siblings within each group (closest pair first, by Distance) until
// each group's breadth is at most targetBreadth. Merge sets probability to the sum and each numeric
// field effectively to the probability-weighted mean (realized by
// mergeScenarios on the surviving representative).
func ReduceMultistage(scenarios []domain.Scenario, targetBreadth int) []TreeNode {
	groups := make(map[StageKey][]domain.Scenario)
	order := make([]StageKey, 0)
	for _, sc := range scenarios {
		key := stageKeyFor(sc)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], sc)
	}

	nodes := make([]TreeNode, 0, len(order))
	for _, key := range order {
		members := groups[key]
		merged := collapseToBreadth(members, targetBreadth)
		var totalP float64
		for _, m := range merged {
			totalP += m.Probability
		}
		nodes = append(nodes, TreeNode{Key: key, Probability: totalP, Scenarios: merged})
	}
	return nodes
}

// collapseToBreadth repeatedly merges the closest pair of scenarios
// (by Distance) in the slice until at most targetBreadth remain.
func collapseToBreadth(scenarios []domain.Scenario, targetBreadth int) []domain.Scenario {
	items := append([]domain.Scenario{}, scenarios...)
	for len(items) > targetBreadth && len(items) > 1 {
		bi, bj := 0, 1
		best := Distance(items[0], items[1])
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				d := Distance(items[i], items[j])
				if d < best {
					best, bi, bj = d, i, j
				}
			}
		}
		items[bi] = mergeScenarios(items[bi], items[bj])
		items = append(items[:bj], items[bj+1:]...)
	}
	return items
}

// mergeScenarios collapses two scenarios into one: probability is the
// sum, outcome values are the probability-weighted mean per horizon
//.
func mergeScenarios(a, b domain.Scenario) domain.Scenario {
	totalP := a.Probability + b.Probability
	if totalP == 0 {
		return a
	}
	wa, wb := a.Probability/totalP, b.Probability/totalP

	merged := a
	merged.Probability = totalP
	merged.Outcomes = make(map[int]domain.YearlyOutcome, len(a.Outcomes))
	for year, oa := range a.Outcomes {
		ob, ok := b.Outcomes[year]
		if !ok {
			merged.Outcomes[year] = oa
			continue
		}
		merged.Outcomes[year] = domain.YearlyOutcome{
			Year: year,
			Financial: domain.FinancialState{
				NetWorth: wa*oa.Financial.NetWorth + wb*ob.Financial.NetWorth,
				Income:   wa*oa.Financial.Income + wb*ob.Financial.Income,
				Expenses: wa*oa.Financial.Expenses + wb*ob.Financial.Expenses,
				Savings:  wa*oa.Financial.Savings + wb*ob.Financial.Savings,
			},
			Career: domain.CareerState{
				Role:         oa.Career.Role,
				Seniority:    wa*oa.Career.Seniority + wb*ob.Career.Seniority,
				MarketValue:  wa*oa.Career.MarketValue + wb*ob.Career.MarketValue,
				Satisfaction: wa*oa.Career.Satisfaction + wb*ob.Career.Satisfaction,
			},
			Life: domain.LifeState{
				Happiness: wa*oa.Life.Happiness + wb*ob.Life.Happiness,
				Stress:    wa*oa.Life.Stress + wb*ob.Life.Stress,
				Balance:   wa*oa.Life.Balance + wb*ob.Life.Balance,
				Health:    wa*oa.Life.Health + wb*ob.Life.Health,
			},
		}
	}
	return merged
}
