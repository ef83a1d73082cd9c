// ABOUTME: Runs command listing and exporting runs saved with --store
// ABOUTME: Lists summaries as a table and prints a stored timeline as CSV

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/markalston/grid-restore/dataset"
	"github.com/markalston/grid-restore/internal/tui/report"
	"github.com/markalston/grid-restore/store"
	"github.com/spf13/cobra"
)

var runsScenario string

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List runs saved in the run store",
	Long: `List runs saved with --store, oldest first.

Example:
  grid-restore runs --store runs.db --scenario maria
  grid-restore runs show 6f1c... --store runs.db > timeline.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := requireStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		return runListRuns(cmd.Context(), st, runsScenario, os.Stdout, IsJSONOutput())
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show RUN_ID",
	Short: "Print the timeline of a stored run as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := requireStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		return runShowRun(cmd.Context(), st, args[0], os.Stdout, IsJSONOutput())
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.Flags().StringVar(&runsScenario, "scenario", "", "Only list runs of this scenario")
}

func requireStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.StoreDSN == "" {
		return nil, fmt.Errorf("no run store configured: set --store or RESTORE_STORE_DSN")
	}
	return openStore(cmd.Context(), cfg)
}

func runListRuns(ctx context.Context, st *store.Store, scenario string, w io.Writer, jsonOut bool) error {
	runs, err := st.ListRuns(ctx, scenario)
	if err != nil {
		return err
	}
	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs stored")
		return nil
	}
	fmt.Fprintln(w, report.RunsTable(runs))
	return nil
}

func runShowRun(ctx context.Context, st *store.Store, runID string, w io.Writer, jsonOut bool) error {
	timeline, err := st.LoadTimeline(ctx, runID)
	if err != nil {
		return err
	}
	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(timeline)
	}
	return dataset.WriteTimeline(w, timeline)
}
