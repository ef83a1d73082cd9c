// ABOUTME: Check command for the grid-restore CLI
// ABOUTME: Fails a pipeline when a scenario restores too slowly

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/markalston/grid-restore/config"
	"github.com/markalston/grid-restore/dataset"
	"github.com/markalston/grid-restore/models"
	"github.com/markalston/grid-restore/services"
	"github.com/spf13/cobra"
)

var (
	maxRestoreDays int
	atDay          int
	minPower       float64
)

var checkCmd = &cobra.Command{
	Use:   "check SCENARIO.csv",
	Short: "Check restoration thresholds",
	Long: `Simulate a scenario and exit non-zero if a restoration threshold is missed.

Exit codes:
  0 - All checks passed
  1 - One or more thresholds missed
  2 - Error (unreadable input, invalid configuration)`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintf(os.Stdout, "Error: %v\n", err)
			os.Exit(2)
		}

		exitCode := runCheck(ctx, cfg, args[0], os.Stdout, IsJSONOutput())
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().IntVar(&maxRestoreDays, "max-restore-days", 365, "Maximum days until power is restored")
	checkCmd.Flags().IntVar(&atDay, "at-day", -1, "Day at which --min-power is checked (-1 disables)")
	checkCmd.Flags().Float64Var(&minPower, "min-power", 0.9, "Minimum fraction of population with power on --at-day")
}

// checkResult represents the result of a single threshold check
type checkResult struct {
	name      string
	value     float64
	threshold float64
	unit      string
	display   string // overrides the formatted value
	passed    bool
}

// runCheck simulates the scenario and returns the exit code
func runCheck(ctx context.Context, cfg *config.Config, input string, w io.Writer, jsonOut bool) int {
	if err := validateThresholds(maxRestoreDays, atDay, minPower); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	locations, err := dataset.ReadLocationsFile(input)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	result, err := services.NewSimulator(cfg.SimulationOptions(), slog.Default()).Simulate(ctx, dataset.ScenarioName(input), locations)
	var nce *models.NonConvergenceError
	if err != nil && (result == nil || !errors.As(err, &nce)) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	results := performChecks(result, maxRestoreDays, atDay, minPower)

	if jsonOut {
		fmt.Fprintln(w, formatCheckJSON(results))
	} else {
		fmt.Fprintln(w, formatCheckHuman(results))
	}

	_, failed := countResults(results)
	if failed > 0 {
		return 1
	}
	return 0
}

// validateThresholds ensures threshold values are valid
func validateThresholds(maxDays, day int, power float64) error {
	if maxDays < 0 {
		return fmt.Errorf("--max-restore-days must not be negative")
	}
	if day < -1 {
		return fmt.Errorf("--at-day must be -1 (disabled) or a day number")
	}
	if math.IsNaN(power) || power < 0 || power > 1 {
		return fmt.Errorf("--min-power must be between 0 and 1")
	}
	return nil
}

// performChecks evaluates the thresholds against a run
func performChecks(result *models.RunResult, maxDays, day int, power float64) []checkResult {
	s := result.Summary

	restore := checkResult{
		name:      "Days to restore",
		value:     float64(s.DaysToRestore),
		threshold: float64(maxDays),
		unit:      " days",
		passed:    s.Converged && s.DaysToRestore <= maxDays,
	}
	if !s.Converged {
		restore.display = fmt.Sprintf("never (stopped at day %d)", s.DaysSimulated)
	}
	results := []checkResult{restore}

	if day >= 0 {
		rec, ok := result.Timeline.At(day)
		pc := checkResult{
			name:      fmt.Sprintf("Power on day %d", day),
			value:     rec.PowerFraction * 100,
			threshold: power * 100,
			unit:      "%",
			passed:    ok && rec.PowerFraction >= power,
		}
		if !ok {
			pc.display = "no data"
		}
		results = append(results, pc)
	}

	return results
}

// countResults returns the count of passed and failed checks
func countResults(results []checkResult) (passed, failed int) {
	for _, r := range results {
		if r.passed {
			passed++
		} else {
			failed++
		}
	}
	return
}

// formatCheckHuman formats check results for human readability
func formatCheckHuman(results []checkResult) string {
	var sb strings.Builder

	for _, r := range results {
		symbol := "✓"
		if !r.passed {
			symbol = "✗"
		}
		value := r.display
		if value == "" {
			value = fmt.Sprintf("%.0f%s", r.value, r.unit)
		}
		fmt.Fprintf(&sb, "%s %s: %s (threshold: %.0f%s)\n", symbol, r.name, value, r.threshold, r.unit)
	}

	passed, failed := countResults(results)
	if failed > 0 {
		fmt.Fprintf(&sb, "\nFAILED: %d check(s) missed threshold", failed)
	} else {
		fmt.Fprintf(&sb, "\nPASSED: All %d check(s) within thresholds", passed)
	}

	return sb.String()
}

// formatCheckJSON formats check results as JSON
func formatCheckJSON(results []checkResult) string {
	_, failed := countResults(results)

	checks := make([]map[string]interface{}, len(results))
	for i, r := range results {
		checks[i] = map[string]interface{}{
			"name":      r.name,
			"value":     r.value,
			"threshold": r.threshold,
			"unit":      strings.TrimSpace(r.unit),
			"passed":    r.passed,
		}
	}

	status := "passed"
	if failed > 0 {
		status = "failed"
	}

	output := map[string]interface{}{
		"status": status,
		"checks": checks,
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
