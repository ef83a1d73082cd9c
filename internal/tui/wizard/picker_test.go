package wizard

import (
	"testing"
	"time"

	"github.com/markalston/grid-restore/dataset"
	"github.com/markalston/grid-restore/internal/tui/recentfiles"
)

func TestScenarioOptions(t *testing.T) {
	recent := []recentfiles.Entry{
		{Path: "/data/maria.csv", Scenario: "maria", UsedAt: time.Now()},
	}
	discovered := []dataset.ScenarioFile{
		{Name: "irma", Path: "/data/irma.csv"},
		{Name: "maria", Path: "/data/maria.csv"},
	}

	opts := scenarioOptions(recent, discovered)
	if len(opts) != 2 {
		t.Fatalf("expected 2 options without duplicates, got %d", len(opts))
	}
	if opts[0].Value != "/data/maria.csv" {
		t.Errorf("expected recent scenario first, got %s", opts[0].Value)
	}
	if opts[1].Key != "irma" {
		t.Errorf("expected irma second, got %s", opts[1].Key)
	}
}

func TestPickScenarioNothingToPick(t *testing.T) {
	if _, err := PickScenario(nil, nil); err == nil {
		t.Error("expected error with no scenarios")
	}
}
