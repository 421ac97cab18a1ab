package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lifepath-sim/simcore/internal/config"
	"github.com/lifepath-sim/simcore/internal/orchestrator"
)

var (
	sensFixturePath string
	sensSamples     int
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity",
	Short: "run analyze_sensitivity standalone and print the Sobol index summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, priors, err := loadFixture(sensFixturePath)
		if err != nil {
			return fmt.Errorf("load fixture: %w", err)
		}

		cfg := config.Default()
		cfg.SensitivitySamples = sensSamples

		engine := orchestrator.NewSimulationEngine(0)
		summary := engine.AnalyzeSensitivity(priors, cfg)

		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal summary: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	sensitivityCmd.Flags().StringVar(&sensFixturePath, "fixture", "fixture.yaml", "path to the fixture supplying MarketPriors")
	sensitivityCmd.Flags().IntVar(&sensSamples, "samples", 1024, "N per Saltelli matrix")
}
