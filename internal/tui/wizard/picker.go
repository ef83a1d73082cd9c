// ABOUTME: Scenario picker shown when run is started interactively without a file
// ABOUTME: Offers recently simulated tables first, then tables found in the working directory

package wizard

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/markalston/grid-restore/dataset"
	"github.com/markalston/grid-restore/internal/tui/recentfiles"
)

// scenarioOptions lists recent tables then discovered ones, without duplicates
func scenarioOptions(recent []recentfiles.Entry, discovered []dataset.ScenarioFile) []huh.Option[string] {
	seen := make(map[string]bool)
	var opts []huh.Option[string]
	for _, e := range recent {
		if seen[e.Path] {
			continue
		}
		seen[e.Path] = true
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (recent, %s)", e.Scenario, e.UsedAt.Local().Format("Jan 2 15:04")), e.Path))
	}
	for _, f := range discovered {
		if seen[f.Path] {
			continue
		}
		seen[f.Path] = true
		opts = append(opts, huh.NewOption(f.Name, f.Path))
	}
	return opts
}

// PickScenario asks for a scenario table and returns its path
func PickScenario(recent []recentfiles.Entry, discovered []dataset.ScenarioFile) (string, error) {
	opts := scenarioOptions(recent, discovered)
	if len(opts) == 0 {
		return "", fmt.Errorf("no scenario tables found: pass a CSV file")
	}

	var path string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Scenario").
				Description("Use ↑/↓ to select, Enter to confirm").
				Options(opts...).
				Value(&path),
		),
	).WithTheme(createTheme())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrCancelled
		}
		return "", err
	}
	return path, nil
}
