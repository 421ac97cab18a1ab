package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lifepath-sim/simcore/internal/config"
	"github.com/lifepath-sim/simcore/internal/orchestrator"
)

var (
	fixturePath string
	configPath  string
	workers     int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "run a full simulation from a fixture and print a JSON summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		decision, profile, priors, err := loadFixture(fixturePath)
		if err != nil {
			return fmt.Errorf("load fixture: %w", err)
		}

		cfg := config.Default()
		if configPath != "" {
			cfg, err = config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
		}

		engine := orchestrator.NewSimulationEngine(workers)
		result, err := engine.RunSimulation(context.Background(), decision, profile, priors, cfg, func(s orchestrator.ProgressStage) {
			log.Debug().Str("stage", s.Stage).Int("percentage", s.Percentage).Msg("progress")
		})
		if err != nil {
			return fmt.Errorf("run_simulation: %w", err)
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&fixturePath, "fixture", "fixture.yaml", "path to the decision/profile/priors fixture")
	runCmd.Flags().StringVar(&configPath, "config", "", "optional YAML config override")
	runCmd.Flags().IntVar(&workers, "workers", 0, "worker pool size (0 = hardware concurrency)")
}
