// ABOUTME: Tests for the root command and global flag handling
// ABOUTME: Verifies flag overrides on top of the loaded configuration

package cmd

import (
	"testing"

	"github.com/markalston/grid-restore/config"
	"github.com/markalston/grid-restore/models"
	"github.com/spf13/cobra"
)

// flagCommand binds the strategy flags to a throwaway command
func flagCommand() *cobra.Command {
	c := &cobra.Command{Use: "test"}
	f := c.Flags()
	f.Float64Var(&budgetFlag, "budget", 0, "")
	f.IntVar(&delayFlag, "delay", 0, "")
	f.StringVar(&sortTypeFlag, "sort-type", "", "")
	f.StringVar(&sortOrderFlag, "sort-order", "", "")
	f.BoolVar(&sortUpdateFlag, "sort-update", false, "")
	f.StringVar(&methodFlag, "method", "", "")
	f.IntVar(&workers, "workers", 0, "")
	f.StringVar(&storeDSN, "store", "", "")
	return c
}

func TestApplyFlags_OnlyChanged(t *testing.T) {
	c := flagCommand()
	if err := c.ParseFlags([]string{"--budget", "5000", "--method", "hybrid", "--sort-update"}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	cfg := config.Default()
	cfg.Delay = 3
	if err := applyFlags(c, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Budget != 5000 {
		t.Errorf("expected budget 5000, got %v", cfg.Budget)
	}
	if cfg.RestoreMethod != models.Hybrid {
		t.Errorf("expected hybrid, got %s", cfg.RestoreMethod)
	}
	if !cfg.SortUpdate {
		t.Error("expected sort update on")
	}
	if cfg.Delay != 3 {
		t.Errorf("expected unset --delay to keep 3, got %d", cfg.Delay)
	}
}

func TestApplyFlags_UnknownEnums(t *testing.T) {
	c := flagCommand()
	if err := c.ParseFlags([]string{"--sort-type", "random", "--sort-order", "sideways"}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	if err := applyFlags(c, config.Default()); err == nil {
		t.Fatal("expected error for unknown sort values")
	}
}

func TestApplyFlags_Runtime(t *testing.T) {
	c := flagCommand()
	if err := c.ParseFlags([]string{"--workers", "3", "--store", "runs.db"}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	cfg := config.Default()
	if err := applyFlags(c, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Workers)
	}
	if cfg.StoreDSN != "runs.db" {
		t.Errorf("expected store runs.db, got %s", cfg.StoreDSN)
	}
}

func TestJSONOutput(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()

	if !IsJSONOutput() {
		t.Error("expected IsJSONOutput to return true")
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"run", "sweep", "check", "fragility", "runs"} {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected %s command to be registered", name)
		}
	}
}
