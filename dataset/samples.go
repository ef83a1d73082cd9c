// ABOUTME: Discovers scenario input tables in a directory
// ABOUTME: A scenario is any .csv file, named after the file without its extension

package dataset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScenarioFile represents a discovered scenario table
type ScenarioFile struct {
	Name string // Scenario name (e.g., "scenarioA")
	Path string // Full path to the file
}

// Discover finds all CSV files in the given directory, sorted by name.
// Files that look like simulation output (Results_*) are skipped.
func Discover(dir string) ([]ScenarioFile, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []ScenarioFile{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []ScenarioFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.ToLower(filepath.Ext(name)) != ".csv" || strings.HasPrefix(name, "Results_") {
			continue
		}
		files = append(files, ScenarioFile{
			Name: ScenarioName(name),
			Path: filepath.Join(dir, name),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// ScenarioName derives a scenario name from a file path
func ScenarioName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
