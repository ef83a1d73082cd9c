package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"scenarioB.csv", "scenarioA.CSV", "notes.txt", "Results_scenarioA.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0o755))

	files, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "scenarioA", files[0].Name)
	assert.Equal(t, filepath.Join(dir, "scenarioA.CSV"), files[0].Path)
	assert.Equal(t, "scenarioB", files[1].Name)
}

func TestDiscoverMissingDir(t *testing.T) {
	files, err := Discover(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScenarioName(t *testing.T) {
	assert.Equal(t, "scenarioC", ScenarioName("/data/pr/scenarioC.csv"))
	assert.Equal(t, "plain", ScenarioName("plain"))
}
