// ABOUTME: Tests for the run command
// ABOUTME: Simulates small scenario files and checks output, timeline files and the store

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/markalston/grid-restore/config"
	"github.com/markalston/grid-restore/dataset"
	"github.com/markalston/grid-restore/models"
	"github.com/markalston/grid-restore/store"
)

const scenarioHeader = "Node,Region,Central,Population,Windspeed_mph,Transmission_Towers,Substations,Distribution_Towers,Solar_Farms,Wind_Turbines,Solar_MW,Wind_MW,Total_MW\n"

// One transmission tower at 150 mph: a single damaged unit costing $400,000
const oneTowerRow = "Adjuntas,West,N,1000,150,1,0,0,0,0,0,0,0\n"

func writeScenario(t *testing.T, dir, name, rows string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(scenarioHeader+rows), 0o644); err != nil {
		t.Fatalf("failed to write scenario: %v", err)
	}
	return path
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Budget = 1e6
	cfg.Delay = 0
	cfg.Workers = 2
	return cfg
}

func TestRunScenario_HumanOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeScenario(t, dir, "small.csv", oneTowerRow)
	output := filepath.Join(dir, "out", "timeline.csv")

	var buf bytes.Buffer
	if err := runScenario(context.Background(), testConfig(), input, output, &buf, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"small", "restored", "Timeline: " + output} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("expected timeline file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != strings.Join(dataset.TimelineColumns, ",") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if len(lines) != 3 {
		t.Errorf("expected header plus 2 days, got %d lines", len(lines))
	}
}

func TestRunScenario_JSONOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeScenario(t, dir, "small.csv", oneTowerRow)

	var buf bytes.Buffer
	if err := runScenario(context.Background(), testConfig(), input, "", &buf, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result models.RunResult
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if result.Summary.DaysToRestore != 1 {
		t.Errorf("expected restore on day 1, got %d", result.Summary.DaysToRestore)
	}
	if result.Summary.TotalSpent != 400000 {
		t.Errorf("expected $400000 spent, got %v", result.Summary.TotalSpent)
	}
	if len(result.Timeline) != 2 {
		t.Errorf("expected 2 timeline records, got %d", len(result.Timeline))
	}
}

func TestRunScenario_NonConvergenceKeepsTimeline(t *testing.T) {
	dir := t.TempDir()
	input := writeScenario(t, dir, "small.csv", oneTowerRow)
	output := filepath.Join(dir, "timeline.csv")

	cfg := testConfig()
	cfg.Budget = 100
	cfg.MaxDays = 2

	var buf bytes.Buffer
	err := runScenario(context.Background(), cfg, input, output, &buf, false)
	var nce *models.NonConvergenceError
	if !errors.As(err, &nce) {
		t.Fatalf("expected NonConvergenceError, got %v", err)
	}
	if _, statErr := os.Stat(output); statErr != nil {
		t.Errorf("expected partial timeline to be written: %v", statErr)
	}
	if !strings.Contains(buf.String(), "never") {
		t.Errorf("expected summary to report no restoration, got:\n%s", buf.String())
	}
}

func TestRunScenario_SavesToStore(t *testing.T) {
	dir := t.TempDir()
	input := writeScenario(t, dir, "small.csv", oneTowerRow)

	cfg := testConfig()
	cfg.StoreDSN = filepath.Join(dir, "runs.db")

	var buf bytes.Buffer
	if err := runScenario(context.Background(), cfg, input, "", &buf, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st, err := store.Open(context.Background(), cfg.StoreDSN, nil)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(context.Background(), "small")
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 stored run, got %d", len(runs))
	}

	timeline, err := st.LoadTimeline(context.Background(), runs[0].RunID)
	if err != nil {
		t.Fatalf("failed to load timeline: %v", err)
	}
	if len(timeline) != 2 {
		t.Errorf("expected 2 stored records, got %d", len(timeline))
	}
}

func TestRunScenario_MissingInput(t *testing.T) {
	var buf bytes.Buffer
	err := runScenario(context.Background(), testConfig(), filepath.Join(t.TempDir(), "missing.csv"), "", &buf, false)
	if err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestRunScenario_InvalidLocations(t *testing.T) {
	dir := t.TempDir()
	input := writeScenario(t, dir, "bad.csv", "Adjuntas,West,N,-5,150,1,0,0,0,0,0,0,0\n")

	var buf bytes.Buffer
	err := runScenario(context.Background(), testConfig(), input, "", &buf, false)
	var ve *models.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestResultPath(t *testing.T) {
	defer func() {
		outPath = ""
		outDir = "."
	}()

	cfg := testConfig()
	outDir = "results"
	got := resultPath("scenarios/maria.csv", cfg)
	want := filepath.Join("results", dataset.ResultFileName("maria", cfg.SimulationOptions().RunOptions()))
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	outPath = "explicit.csv"
	if got := resultPath("scenarios/maria.csv", cfg); got != "explicit.csv" {
		t.Errorf("expected --out to win, got %s", got)
	}
}
