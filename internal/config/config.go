// Package config holds the engine's tunable configuration:
// mode presets, sample counts, and the feature flags that select QMC,
// MLMC, copula re-coupling, reduction, and sensitivity. Grounded on the
// teacher's internal/engine/config.go + config_validation.go: a
// Default() constructor returning the documented default settings (the
// model's constant tables live in constants.go), and a single
// accumulate-then-report Validate.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lifepath-sim/simcore/internal/simerr"
)

// Mode is the engine's preset selector.
type Mode string

const (
	ModeFast     Mode = "fast"
	ModeBalanced Mode = "balanced"
	ModeAccurate Mode = "accurate"
)

// Config is the full set of recognized options from table.
type Config struct {
	Mode                Mode    `yaml:"mode"`
	TargetScenarios     int     `yaml:"target_scenarios"`
	UseQMC              bool    `yaml:"use_qmc"`
	UseMLMC             bool    `yaml:"use_mlmc"`
	UseCopulas          bool    `yaml:"use_copulas"`
	ReduceScenarios     bool    `yaml:"reduce_scenarios"`
	RunSensitivity      bool    `yaml:"run_sensitivity"`
	SensitivitySamples  int     `yaml:"sensitivity_samples"`
	MLMCTargetMSE       float64 `yaml:"mlmc_target_mse"`
	Seed                string  `yaml:"seed"`
	ConfidenceLevel     float64 `yaml:"confidence_level"`
	MLMCMaxLevels       int     `yaml:"mlmc_max_levels"`
	MLMCMaxEvaluations  int     `yaml:"mlmc_max_evaluations"`
}

// Default returns the engine's documented default configuration, preset
// to "balanced".
func Default() Config {
	c := Config{
		Mode:                ModeBalanced,
		TargetScenarios:     500,
		UseQMC:              true,
		UseMLMC:             true,
		UseCopulas:          true,
		ReduceScenarios:     true,
		RunSensitivity:      false,
		SensitivitySamples:  1024,
		MLMCTargetMSE:       1e-4,
		Seed:                "default-seed",
		ConfidenceLevel:     0.90,
		MLMCMaxLevels:       8,
		MLMCMaxEvaluations:  2_000_000,
	}
	c.ApplyModePreset()
	return c
}

// ApplyModePreset sets the mode-controlled fields (TargetScenarios,
// UseMLMC, UseQMC) without disturbing any value
// the caller has already overridden for the other fields.
func (c *Config) ApplyModePreset() {
	switch c.Mode {
	case ModeFast:
		c.TargetScenarios = 100
		c.UseMLMC = false
		c.UseQMC = true
	case ModeAccurate:
		c.TargetScenarios = 2000
		c.UseMLMC = true
		c.UseQMC = true
	default: // balanced
		c.TargetScenarios = 500
		c.UseMLMC = true
		c.UseQMC = true
	}
}

// Load reads a YAML override file on top of Default().
func Load(path string) (Config, error) {
	c := Default()
	f, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(f, &c); err != nil {
		return c, err
	}
	if violations := c.Validate(); violations != nil {
		return c, simerr.Invalid(violations)
	}
	return c, nil
}

// Validate accumulates every configuration violation rather than
// failing on the first (mirrors a reference config_validation.go).
func (c Config) Validate() []string {
	var violations []string
	switch c.Mode {
	case ModeFast, ModeBalanced, ModeAccurate:
	default:
		violations = append(violations, "mode must be one of fast, balanced, accurate")
	}
	if c.TargetScenarios <= 0 {
		violations = append(violations, "target_scenarios must be positive")
	}
	if c.SensitivitySamples <= 0 {
		violations = append(violations, "sensitivity_samples must be positive")
	}
	if c.MLMCTargetMSE <= 0 {
		violations = append(violations, "mlmc_target_mse must be positive")
	}
	if c.ConfidenceLevel <= 0 || c.ConfidenceLevel >= 1 {
		violations = append(violations, "confidence_level must be in (0, 1)")
	}
	if c.MLMCMaxLevels <= 0 {
		violations = append(violations, "mlmc_max_levels must be positive")
	}
	return violations
}
