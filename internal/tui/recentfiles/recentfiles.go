// ABOUTME: Remembers recently simulated scenario tables
// ABOUTME: Stored as JSON in the XDG config directory and offered by the interactive picker

package recentfiles

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/markalston/grid-restore/dataset"
)

// MaxRecentFiles is the maximum number of scenarios to keep
const MaxRecentFiles = 8

// Entry is one remembered scenario table
type Entry struct {
	Path     string    `json:"path"`
	Scenario string    `json:"scenario"`
	UsedAt   time.Time `json:"used_at"`
}

// RecentFiles manages the list of recently simulated scenarios, newest first
type RecentFiles struct {
	configDir string
	entries   []Entry
	now       func() time.Time
}

type recentData struct {
	Scenarios []Entry `json:"scenarios"`
}

// New creates a manager storing its list under configDir
func New(configDir string) *RecentFiles {
	return &RecentFiles{configDir: configDir, now: time.Now}
}

// DefaultConfigDir returns the default config directory following XDG
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "grid-restore")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "grid-restore")
}

func (rf *RecentFiles) configFile() string {
	return filepath.Join(rf.configDir, "recent.json")
}

// Load reads the list from disk, dropping tables that no longer exist.
// A missing or corrupt file gives an empty list.
func (rf *RecentFiles) Load() ([]Entry, error) {
	data, err := os.ReadFile(rf.configFile())
	if errors.Is(err, fs.ErrNotExist) {
		rf.entries = []Entry{}
		return rf.entries, nil
	}
	if err != nil {
		return nil, err
	}

	var recent recentData
	if err := json.Unmarshal(data, &recent); err != nil {
		rf.entries = []Entry{}
		return rf.entries, nil
	}

	rf.entries = make([]Entry, 0, len(recent.Scenarios))
	for _, e := range recent.Scenarios {
		if _, err := os.Stat(e.Path); err == nil {
			rf.entries = append(rf.entries, e)
		}
	}
	return rf.entries, nil
}

func (rf *RecentFiles) save(entries []Entry) error {
	if rf.configDir == "" {
		return errors.New("no config directory for recent scenarios")
	}
	if err := os.MkdirAll(rf.configDir, 0o755); err != nil {
		return err
	}
	if len(entries) > MaxRecentFiles {
		entries = entries[:MaxRecentFiles]
	}
	rf.entries = entries

	data, err := json.MarshalIndent(recentData{Scenarios: entries}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(rf.configFile(), data, 0o644)
}

// Add moves a scenario table to the front of the list
func (rf *RecentFiles) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if rf.entries == nil {
		if _, err := rf.Load(); err != nil {
			rf.entries = []Entry{}
		}
	}

	entries := make([]Entry, 0, len(rf.entries)+1)
	entries = append(entries, Entry{Path: abs, Scenario: dataset.ScenarioName(abs), UsedAt: rf.now().UTC()})
	for _, e := range rf.entries {
		if e.Path != abs {
			entries = append(entries, e)
		}
	}
	return rf.save(entries)
}

// List returns the remembered scenarios, newest first
func (rf *RecentFiles) List() []Entry {
	if rf.entries == nil {
		if _, err := rf.Load(); err != nil {
			return nil
		}
	}
	return rf.entries
}
