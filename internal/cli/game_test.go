package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchemypls/stellar/internal/catalog"
)

func TestNavSession(t *testing.T) {
	cfg := testConfig(t)
	base := []string{"--config", cfg, "--data", fixtureDir}
	nav := func(args ...string) (string, string, int) {
		return run(t, append(append([]string{}, base...), args...)...)
	}

	// The default start star is not in the fixtures, so play begins on the
	// first star of Orion
	out, _, code := nav("nav")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Current star: Betelgeuse (Orion, mag 0.45)")
	assert.Contains(t, out, "right -> Bellatrix")
	assert.Contains(t, out, "down  -> Rigel")

	out, _, code = nav("nav", "right")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Travelled right to Bellatrix")

	out, _, code = nav("--format", "json", "nav", "rigel")
	require.Equal(t, ExitSuccess, code)

	var resp struct {
		Status string    `json:"status"`
		Data   NavResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Data.Moved)
	require.NotNil(t, resp.Data.Connected)
	assert.True(t, *resp.Data.Connected, "bellatrix and rigel share an edge")
	assert.Equal(t, "rigel", resp.Data.CurrentStar)
	assert.Equal(t, []string{"ori"}, resp.Data.Discovered)

	out, _, code = nav("stats")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Stars found:    3/4")
	assert.Contains(t, out, "Constellations: 1/2")
	assert.Contains(t, out, "Current star:   Rigel (Orion)")
	assert.Contains(t, out, "Unlocked:       Orion, Taurus")

	out, _, code = nav("nav", "betelgeuse")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Note: Betelgeuse is not connected to the current star")
	assert.Contains(t, out, "Jumped to Betelgeuse")

	out, _, code = nav("reset")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Progress reset, starting at Betelgeuse")

	out, _, code = nav("stats")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Stars found:    1/4")
	assert.Contains(t, out, "Constellations: 0/2")
}

func TestNavErrors(t *testing.T) {
	cfg := testConfig(t)
	base := []string{"--config", cfg, "--data", fixtureDir}

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no star that way", []string{"nav", "left"}, "no star to the left"},
		{"unknown star", []string{"nav", "vega"}, `unknown star "vega"`},
		{"too many args", []string{"nav", "up", "down"}, "invalid arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut, code := run(t, append(append([]string{}, base...), tt.args...)...)
			assert.Equal(t, ExitCommandError, code)
			assert.Contains(t, errOut, tt.wantErr)
		})
	}
}

func TestStatsWithoutSave(t *testing.T) {
	out, _, code := run(t, "--config", testConfig(t), "--data", fixtureDir, "stats")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "No saved session in slot stellar-game-storage")
	assert.Contains(t, out, "Stars found:    0/4")
}

func TestSlotsAndPurge(t *testing.T) {
	cfg := testConfig(t)
	base := []string{"--config", cfg, "--data", fixtureDir}

	out, _, code := run(t, append(base, "slots")...)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "No save slots")

	_, _, code = run(t, append(base, "nav")...)
	require.Equal(t, ExitSuccess, code)

	out, _, code = run(t, append(base, "slots")...)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "* stellar-game-storage")

	out, _, code = run(t, append(base, "reset", "--purge")...)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Deleted slot stellar-game-storage")

	out, _, code = run(t, append(base, "slots")...)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "No save slots")
}

func TestSiteCommand(t *testing.T) {
	outDir := t.TempDir()

	out, _, code := run(t, "--data", fixtureDir, "site", outDir)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Wrote 6 pages to "+outDir)
	assert.FileExists(t, filepath.Join(outDir, "projects", "betelgeuse", "index.html"))
}

func TestIngestCommand(t *testing.T) {
	outDir := t.TempDir()

	out, errOut, code := run(t, "ingest", "../ingest/testdata/hyg_sample.csv", "--out", outDir)
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "Processed 10 records, kept 7 stars")
	assert.Contains(t, out, "projects:       2 assigned, 3 unmatched")
	assert.Contains(t, errOut, "no star for project")

	cat, err := catalog.Load(outDir)
	require.NoError(t, err)
	assert.Len(t, cat.Stars, 6)
	assert.Len(t, cat.Assignments, 2)
}

func TestIngestMissingFile(t *testing.T) {
	_, errOut, code := run(t, "ingest", "/nonexistent/hyg.csv", "--out", t.TempDir())
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut, "open star database")
}
