// ABOUTME: Tests for the runs command
// ABOUTME: Lists and exports runs from an in-memory store

package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/markalston/grid-restore/models"
	"github.com/markalston/grid-restore/store"
)

func storedRun(t *testing.T) (*store.Store, models.RunSummary) {
	t.Helper()
	st, err := store.Open(context.Background(), ":memory:", nil)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	summary := models.RunSummary{
		RunID:         "run-1",
		Scenario:      "maria",
		Options:       models.RunOptions{Budget: 1e6, RestoreMethod: models.Hybrid},
		DaysToRestore: 1,
		DaysSimulated: 1,
		Converged:     true,
		Phase:         models.PhaseConverged,
	}
	timeline := models.Timeline{
		models.NewRestorationRecord(0, 0, 1, 100),
		models.NewRestorationRecord(1, 1e6, 0, 100),
	}
	if err := st.SaveRun(context.Background(), summary, timeline); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	return st, summary
}

func TestRunListRuns(t *testing.T) {
	st, _ := storedRun(t)

	var buf bytes.Buffer
	if err := runListRuns(context.Background(), st, "", &buf, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"run-1", "maria", "hybrid"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in output, got:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if err := runListRuns(context.Background(), st, "irma", &buf, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "No runs stored") {
		t.Errorf("expected empty message, got %q", buf.String())
	}
}

func TestRunShowRun(t *testing.T) {
	st, summary := storedRun(t)

	var buf bytes.Buffer
	if err := runShowRun(context.Background(), st, summary.RunID, &buf, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "time,costs") {
		t.Errorf("unexpected header %q", lines[0])
	}
}

func TestRunShowRun_Unknown(t *testing.T) {
	st, _ := storedRun(t)

	var buf bytes.Buffer
	err := runShowRun(context.Background(), st, "nope", &buf, false)
	if !errors.Is(err, store.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}
