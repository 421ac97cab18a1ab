// Command simulate is the core's CLI entry point, the transport-free
// analog of a typical cmd/server: a cobra root with a `run`
// subcommand (loads a fixture, runs run_simulation, prints a JSON
// summary) and a `sensitivity` subcommand (analyze_sensitivity only).
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lifepath-sim/simcore/internal/obslog"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "simulate",
	Short: "simulate runs the life-decision Monte Carlo core",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		obslog.SetLogger(obslog.NewConsole(level))
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(runCmd, sensitivityCmd)
}
