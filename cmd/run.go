// ABOUTME: Run command simulating restoration of one scenario
// ABOUTME: Writes the daily timeline CSV and prints a summary or JSON

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/markalston/grid-restore/config"
	"github.com/markalston/grid-restore/dataset"
	"github.com/markalston/grid-restore/internal/tui/recentfiles"
	"github.com/markalston/grid-restore/internal/tui/report"
	"github.com/markalston/grid-restore/internal/tui/wizard"
	"github.com/markalston/grid-restore/models"
	"github.com/markalston/grid-restore/services"
	"github.com/spf13/cobra"
)

const reportWidth = 80

var (
	outPath     string
	outDir      string
	interactive bool
)

var runCmd = &cobra.Command{
	Use:   "run [SCENARIO.csv]",
	Short: "Simulate restoration of one scenario",
	Long: `Simulate restoration of the locations in a scenario table.

The daily timeline is written as CSV, by default to
Results_<scenario>_<method>_<sort>_<order>_<update|static>.csv in --out-dir.

Example:
  grid-restore run scenarios/maria.csv --budget 5e6 --method hybrid --sort-type outage-magnitude
  grid-restore run --interactive`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		recent := recentfiles.New(recentfiles.DefaultConfigDir())
		var input string
		switch {
		case len(args) == 1:
			input = args[0]
		case interactive:
			discovered, err := dataset.Discover(".")
			if err != nil {
				return err
			}
			if input, err = wizard.PickScenario(recent.List(), discovered); err != nil {
				return err
			}
		default:
			return fmt.Errorf("run needs a scenario file (or --interactive to pick one)")
		}

		if interactive {
			if cfg, err = wizard.Run(cfg); err != nil {
				return err
			}
		}

		err = runScenario(ctx, cfg, input, resultPath(input, cfg), os.Stdout, IsJSONOutput())
		if addErr := recent.Add(input); addErr != nil {
			slog.Debug("Could not remember scenario", "path", input, "error", addErr)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&outPath, "out", "o", "", "Timeline CSV path (overrides --out-dir)")
	runCmd.Flags().StringVar(&outDir, "out-dir", ".", "Directory for the timeline CSV")
	runCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Choose the strategy in an interactive form")
}

// resultPath picks the timeline file for a scenario
func resultPath(input string, cfg *config.Config) string {
	if outPath != "" {
		return outPath
	}
	name := dataset.ResultFileName(dataset.ScenarioName(input), cfg.SimulationOptions().RunOptions())
	return filepath.Join(outDir, name)
}

// runScenario simulates one scenario. A run that stops without converging still
// writes and prints its partial timeline, then returns the NonConvergenceError.
func runScenario(ctx context.Context, cfg *config.Config, input, output string, w io.Writer, jsonOut bool) error {
	locations, err := dataset.ReadLocationsFile(input)
	if err != nil {
		return err
	}

	sim := services.NewSimulator(cfg.SimulationOptions(), slog.Default())

	result, runErr := sim.Simulate(ctx, dataset.ScenarioName(input), locations)
	var nce *models.NonConvergenceError
	if runErr != nil && (result == nil || !errors.As(runErr, &nce)) {
		return runErr
	}

	if output != "" {
		if err := dataset.WriteTimelineFile(output, result.Timeline); err != nil {
			return err
		}
		slog.Info("Timeline written", "path", output, "days", len(result.Timeline))
	}

	if err := saveRun(ctx, cfg, result); err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
		return runErr
	}

	fmt.Fprintln(w, report.Summary(result, reportWidth))
	if output != "" {
		fmt.Fprintf(w, "\nTimeline: %s\n", output)
	}
	return runErr
}

// saveRun persists a run when a store is configured
func saveRun(ctx context.Context, cfg *config.Config, result *models.RunResult) error {
	st, err := openStore(ctx, cfg)
	if err != nil || st == nil {
		return err
	}
	defer st.Close()
	return st.SaveRun(ctx, result.Summary, result.Timeline)
}
