// ABOUTME: Root command for the grid-restore CLI
// ABOUTME: Handles global flags and loads the run configuration

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/markalston/grid-restore/config"
	"github.com/markalston/grid-restore/logger"
	"github.com/markalston/grid-restore/models"
	"github.com/markalston/grid-restore/store"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	configFile string
	envFile    string
	logLevel   string
	debugFlag  bool
	storeDSN   string
	workers    int

	// Strategy overrides
	budgetFlag     float64
	delayFlag      int
	sortTypeFlag   string
	sortOrderFlag  string
	sortUpdateFlag bool
	methodFlag     string
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "grid-restore",
	Short: "Post-hurricane power grid restoration simulator",
	Long: `grid-restore estimates how long a hurricane-damaged power grid takes to restore.

It turns peak wind speed into expected damage per asset class, then simulates daily
repair crews working through the damage under a budget and a prioritization strategy.

Settings are read in order of increasing priority: defaults, environment (RESTORE_*,
optionally from a .env file), a YAML run file (--config), then command-line flags.

Environment Variables:
  RESTORE_BUDGET, RESTORE_DELAY, RESTORE_SORT_TYPE, RESTORE_SORT_ORDER,
  RESTORE_SORT_UPDATE, RESTORE_METHOD, RESTORE_STORE_DSN, LOG_LEVEL, LOG_FORMAT`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	pf.StringVar(&configFile, "config", "", "YAML run file")
	pf.StringVar(&envFile, "env-file", "", "Environment file (default: .env if present)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	pf.BoolVar(&debugFlag, "debug", false, "Log every repair action and daily outage")
	pf.StringVar(&storeDSN, "store", "", "Save runs to a SQL database (SQLite path or postgres:// URL)")
	pf.IntVar(&workers, "workers", 0, "Parallel workers (default: number of CPUs)")

	pf.Float64Var(&budgetFlag, "budget", 0, "Repair budget in dollars per day")
	pf.IntVar(&delayFlag, "delay", 0, "Days before repairs start")
	pf.StringVar(&sortTypeFlag, "sort-type", "", "Priority metric: cost, cost-per-capita, outage-magnitude")
	pf.StringVar(&sortOrderFlag, "sort-order", "", "Priority order: ascending, descending")
	pf.BoolVar(&sortUpdateFlag, "sort-update", false, "Re-prioritize locations after every repair day")
	pf.StringVar(&methodFlag, "method", "", "Budget allocation: node-first, class-first, hybrid")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// loadConfig builds the configuration for a command invocation and sets up logging
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if configFile != "" {
		if err := cfg.LoadFile(configFile); err != nil {
			return nil, err
		}
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Init(cfg.EffectiveLogLevel(), cfg.LogFormat)
	slog.Debug("Configuration loaded",
		"budget", cfg.Budget,
		"delay", cfg.Delay,
		"sort_type", cfg.SortType,
		"sort_order", cfg.SortOrder,
		"sort_update", cfg.SortUpdate,
		"method", cfg.RestoreMethod,
		"workers", cfg.Workers,
	)
	return cfg, nil
}

// applyFlags overlays the flags the user actually set
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("budget") {
		cfg.Budget = budgetFlag
	}
	if flags.Changed("delay") {
		cfg.Delay = delayFlag
	}
	if flags.Changed("sort-update") {
		cfg.SortUpdate = sortUpdateFlag
	}
	if flags.Changed("debug") {
		cfg.Debug = debugFlag
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("store") {
		cfg.StoreDSN = storeDSN
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}

	var errs []error
	if flags.Changed("sort-type") {
		st, err := models.ParseSortType(sortTypeFlag)
		errs = append(errs, err)
		cfg.SortType = st
	}
	if flags.Changed("sort-order") {
		so, err := models.ParseSortOrder(sortOrderFlag)
		errs = append(errs, err)
		cfg.SortOrder = so
	}
	if flags.Changed("method") {
		m, err := models.ParseRestoreMethod(methodFlag)
		errs = append(errs, err)
		cfg.RestoreMethod = m
	}
	return errors.Join(errs...)
}

// openStore opens the configured run store, or returns nil when none is set
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	if cfg.StoreDSN == "" {
		return nil, nil
	}
	st, err := store.Open(ctx, cfg.StoreDSN, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("opening run store: %w", err)
	}
	return st, nil
}
