// ABOUTME: Sweep command running every strategy combination over a directory of scenarios
// ABOUTME: Shares each scenario's assessed damage between runs and writes one timeline per run

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
	"sort"
	"syscall"

	"github.com/markalston/grid-restore/cache"
	"github.com/markalston/grid-restore/config"
	"github.com/markalston/grid-restore/dataset"
	"github.com/markalston/grid-restore/internal/tui/report"
	"github.com/markalston/grid-restore/models"
	"github.com/markalston/grid-restore/services"
	"github.com/markalston/grid-restore/store"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	sweepDir     string
	sweepOutDir  string
	sweepMethods []string
	sweepTypes   []string
	sweepOrders  []string
	sweepUpdates []string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run every strategy combination for each scenario",
	Long: `Run the cartesian product of restoration methods, sort types, sort orders and
update modes for every scenario table in a directory.

Damage is assessed once per scenario and shared by all of its runs. Files named
Results_* are skipped so earlier output is never read as input.

Example:
  grid-restore sweep --dir scenarios --methods node-first,hybrid --updates static`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		grid, err := parseSweepGrid(sweepMethods, sweepTypes, sweepOrders, sweepUpdates)
		if err != nil {
			return err
		}
		out := sweepOutDir
		if out == "" {
			out = sweepDir
		}
		return runSweep(ctx, cfg, sweepDir, out, grid, os.Stdout, IsJSONOutput())
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepDir, "dir", ".", "Directory of scenario tables")
	sweepCmd.Flags().StringVar(&sweepOutDir, "out-dir", "", "Directory for timeline CSVs (default: --dir)")
	sweepCmd.Flags().StringSliceVar(&sweepMethods, "methods", enumNames(models.AllRestoreMethods()), "Restoration methods to run")
	sweepCmd.Flags().StringSliceVar(&sweepTypes, "sort-types", enumNames(models.AllSortTypes()), "Sort types to run")
	sweepCmd.Flags().StringSliceVar(&sweepOrders, "sort-orders", enumNames(models.AllSortOrders()), "Sort orders to run")
	sweepCmd.Flags().StringSliceVar(&sweepUpdates, "updates", []string{"static", "update"}, "Update modes to run: static, update")
}

func enumNames[T fmt.Stringer](values []T) []string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = v.String()
	}
	return names
}

// sweepGrid holds the option values to combine
type sweepGrid struct {
	methods []models.RestoreMethod
	types   []models.SortType
	orders  []models.SortOrder
	updates []bool
}

// parseSweepGrid parses the option lists, reporting every unknown value
func parseSweepGrid(methods, types, orders, updates []string) (sweepGrid, error) {
	var grid sweepGrid
	var errs []error
	for _, s := range methods {
		m, err := models.ParseRestoreMethod(s)
		errs = append(errs, err)
		grid.methods = append(grid.methods, m)
	}
	for _, s := range types {
		st, err := models.ParseSortType(s)
		errs = append(errs, err)
		grid.types = append(grid.types, st)
	}
	for _, s := range orders {
		so, err := models.ParseSortOrder(s)
		errs = append(errs, err)
		grid.orders = append(grid.orders, so)
	}
	for _, s := range updates {
		switch s {
		case "static", "false":
			grid.updates = append(grid.updates, false)
		case "update", "true":
			grid.updates = append(grid.updates, true)
		default:
			errs = append(errs, &models.ValidationError{Field: "updates", Reason: fmt.Sprintf("unknown value %q (want static or update)", s)})
		}
	}
	if err := errors.Join(errs...); err != nil {
		return sweepGrid{}, err
	}
	if len(grid.methods) == 0 || len(grid.types) == 0 || len(grid.orders) == 0 || len(grid.updates) == 0 {
		return sweepGrid{}, &models.ValidationError{Field: "sweep", Reason: "every option list needs at least one value"}
	}
	return grid, nil
}

// sweepJob is one scenario run under one strategy
type sweepJob struct {
	scenario dataset.ScenarioFile
	opts     services.SimulationOptions
}

func (g sweepGrid) jobs(cfg *config.Config, scenarios []dataset.ScenarioFile) []sweepJob {
	base := cfg.SimulationOptions()
	base.Workers = 1 // parallelism comes from the sweep itself

	var jobs []sweepJob
	for _, sc := range scenarios {
		for _, m := range g.methods {
			for _, st := range g.types {
				for _, so := range g.orders {
					for _, up := range g.updates {
						opts := base
						opts.RestoreMethod = m
						opts.SortType = st
						opts.SortOrder = so
						opts.SortUpdate = up
						jobs = append(jobs, sweepJob{scenario: sc, opts: opts})
					}
				}
			}
		}
	}
	return jobs
}

// runSweep runs every job with at most cfg.Workers in flight. Runs that do not
// converge are reported in the table and do not fail the sweep.
func runSweep(ctx context.Context, cfg *config.Config, dir, out string, grid sweepGrid, w io.Writer, jsonOut bool) error {
	scenarios, err := dataset.Discover(dir)
	if err != nil {
		return fmt.Errorf("discovering scenarios: %w", err)
	}
	if len(scenarios) == 0 {
		return fmt.Errorf("no scenario tables found in %s", dir)
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	jobs := grid.jobs(cfg, scenarios)
	slog.Info("Starting sweep", "scenarios", len(scenarios), "runs", len(jobs), "workers", cfg.Workers)

	baselines := cache.New[*models.GridState](0)
	summaries := make([]models.RunSummary, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, job := range jobs {
		g.Go(func() error {
			summary, err := runSweepJob(gctx, job, baselines, out, st)
			if err != nil {
				return fmt.Errorf("%s (%s): %w", job.scenario.Name, report.Strategy(job.opts.RunOptions()), err)
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	fmt.Fprintln(w, report.SweepTable(summaries))
	for _, sc := range scenarios {
		best, worst := bestAndWorst(summaries, sc.Name)
		if best != nil && worst != nil && best != worst {
			fmt.Fprintln(w)
			fmt.Fprintln(w, report.Comparison(best, worst, reportWidth))
		}
	}
	fmt.Fprintf(w, "\nTimelines written to %s\n", out)
	return nil
}

func runSweepJob(ctx context.Context, job sweepJob, baselines *cache.Cache[*models.GridState], out string, st *store.Store) (models.RunSummary, error) {
	sim := services.NewSimulator(job.opts, slog.Default())

	// Damage assessment depends only on the scenario and the model switches, which a sweep holds fixed
	baseline, err := baselines.GetOrLoad(job.scenario.Path, func() (*models.GridState, error) {
		locations, err := dataset.ReadLocationsFile(job.scenario.Path)
		if err != nil {
			return nil, err
		}
		return sim.Initialize(ctx, locations)
	})
	if err != nil {
		return models.RunSummary{}, err
	}

	result, err := sim.Run(ctx, job.scenario.Name, baseline.Clone())
	var nce *models.NonConvergenceError
	if err != nil && (result == nil || !errors.As(err, &nce)) {
		return models.RunSummary{}, err
	}

	path := filepath.Join(out, dataset.ResultFileName(job.scenario.Name, job.opts.RunOptions()))
	if err := dataset.WriteTimelineFile(path, result.Timeline); err != nil {
		return models.RunSummary{}, err
	}
	if st != nil {
		if err := st.SaveRun(ctx, result.Summary, result.Timeline); err != nil {
			return models.RunSummary{}, err
		}
	}
	return result.Summary, nil
}

// bestAndWorst picks the fastest and slowest runs of one scenario. Converged runs
// beat runs that never restored; ties go to the lower spend.
func bestAndWorst(summaries []models.RunSummary, scenario string) (best, worst *models.RunSummary) {
	var runs []*models.RunSummary
	for i := range summaries {
		if summaries[i].Scenario == scenario {
			runs = append(runs, &summaries[i])
		}
	}
	if len(runs) == 0 {
		return nil, nil
	}
	sort.SliceStable(runs, func(i, j int) bool { return fasterThan(runs[i], runs[j]) })
	return runs[0], runs[len(runs)-1]
}

func fasterThan(a, b *models.RunSummary) bool {
	if a.Converged != b.Converged {
		return a.Converged
	}
	if !a.Converged {
		return a.FinalOutage < b.FinalOutage
	}
	if a.DaysToRestore != b.DaysToRestore {
		return a.DaysToRestore < b.DaysToRestore
	}
	return a.TotalSpent < b.TotalSpent
}
