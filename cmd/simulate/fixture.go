package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lifepath-sim/simcore/internal/domain"
)

// fixtureFile is the on-disk YAML shape `run` loads its decision,
// profile, and priors from.
type fixtureFile struct {
	Decision struct {
		Type   string  `yaml:"type"`
		NewSalary float64 `yaml:"newSalary"`
	} `yaml:"decision"`
	Profile struct {
		Age             int     `yaml:"age"`
		Salary          float64 `yaml:"salary"`
		MonthlyExpenses float64 `yaml:"monthlyExpenses"`
		Cash            float64 `yaml:"cash"`
		YearsExperience int     `yaml:"yearsExperience"`
		CurrentRole     string  `yaml:"currentRole"`
	} `yaml:"profile"`
	Priors struct {
		WageGrowthMean     float64 `yaml:"wageGrowthMean"`
		WageGrowthStdDev   float64 `yaml:"wageGrowthStdDev"`
		InflationMean      float64 `yaml:"inflationMean"`
		InflationStdDev    float64 `yaml:"inflationStdDev"`
		AssetReturnMean    float64 `yaml:"assetReturnMean"`
		AssetReturnStdDev  float64 `yaml:"assetReturnStdDev"`
		UnemploymentMean   float64 `yaml:"unemploymentMean"`
		UnemploymentStdDev float64 `yaml:"unemploymentStdDev"`
	} `yaml:"priors"`
}

func loadFixture(path string) (domain.Decision, domain.Profile, domain.MarketPriors, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Decision{}, domain.Profile{}, domain.MarketPriors{}, err
	}
	var f fixtureFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return domain.Decision{}, domain.Profile{}, domain.MarketPriors{}, err
	}

	decision := domain.Decision{
		Type:   domain.DecisionType(f.Decision.Type),
		Option: domain.Option{NewSalary: f.Decision.NewSalary},
	}
	profile := domain.Profile{
		Age:             f.Profile.Age,
		Salary:          f.Profile.Salary,
		MonthlyExpenses: f.Profile.MonthlyExpenses,
		Cash:            f.Profile.Cash,
		YearsExperience: f.Profile.YearsExperience,
		CurrentRole:     f.Profile.CurrentRole,
		Provided: map[string]bool{
			"age": true, "salary": true, "monthlyExpenses": true,
			"cash": true, "yearsExperience": true, "currentRole": true,
		},
	}
	priors := domain.MarketPriors{
		WageGrowthMean:     f.Priors.WageGrowthMean,
		WageGrowthStdDev:   f.Priors.WageGrowthStdDev,
		InflationMean:      f.Priors.InflationMean,
		InflationStdDev:    f.Priors.InflationStdDev,
		AssetReturnMean:    f.Priors.AssetReturnMean,
		AssetReturnStdDev:  f.Priors.AssetReturnStdDev,
		UnemploymentMean:   f.Priors.UnemploymentMean,
		UnemploymentStdDev: f.Priors.UnemploymentStdDev,
	}
	return decision, profile, priors, nil
}
