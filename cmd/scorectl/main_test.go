package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "arcade.db"))
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("ARCADE_GAMES", "")
	t.Setenv("MAX_SCORES", "")
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	c := newCLI()
	var out bytes.Buffer
	c.root.SetOut(&out)
	c.root.SetErr(&out)
	c.root.SetIn(strings.NewReader(stdin))
	c.root.SetArgs(args)
	err := c.execute()
	assert.Nil(t, c.arcade, "store left open")
	return out.String(), err
}

func TestSeedAndShow(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "", "seed")
	require.NoError(t, err)

	out, err := runCLI(t, "", "show", "tetris")
	require.NoError(t, err)
	assert.Contains(t, out, "CHAD")
	assert.Contains(t, out, "15000")

	out, err = runCLI(t, "", "show", "galaga")
	require.NoError(t, err)
	assert.Contains(t, out, "No scores yet!")
}

func TestSubmit(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "", "submit", "frogger", "4200", "--name", "JUMPER")
	require.NoError(t, err)
	assert.Contains(t, out, "JUMPER")

	// prompted name
	out, err = runCLI(t, "HOPPER\n", "submit", "frogger", "5000")
	require.NoError(t, err)
	assert.Contains(t, out, "Enter your name")
	assert.Contains(t, out, "HOPPER")

	// declined prompt
	out, err = runCLI(t, "\n", "submit", "frogger", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "score not saved")

	_, err = runCLI(t, "", "submit", "frogger", "lots", "--name", "X")
	assert.Error(t, err)
}

func TestExportClearImport(t *testing.T) {
	dir := setupEnv(t)
	file := filepath.Join(dir, "scores.json")

	_, err := runCLI(t, "", "submit", "tetris", "900", "--name", "ACE")
	require.NoError(t, err)

	_, err = runCLI(t, "", "export", "-o", file)
	require.NoError(t, err)
	blob, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(blob), `"ACE"`)

	_, err = runCLI(t, "", "clear", "tetris")
	require.NoError(t, err)
	out, err := runCLI(t, "", "show", "tetris")
	require.NoError(t, err)
	assert.NotContains(t, out, "ACE")

	_, err = runCLI(t, "", "import", file)
	require.NoError(t, err)
	out, err = runCLI(t, "", "show", "tetris")
	require.NoError(t, err)
	assert.Contains(t, out, "ACE")

	out, err = runCLI(t, "", "export")
	require.NoError(t, err)
	assert.JSONEq(t, string(blob), out)
}

func TestImportRejectsGarbage(t *testing.T) {
	setupEnv(t)

	_, err := runCLI(t, "not json", "import", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid score import")
}

func TestDefaultsToSQLiteFile(t *testing.T) {
	dir := setupEnv(t)
	t.Setenv("STORE_DRIVER", "")
	file := filepath.Join(dir, "scores.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"tetris": [{"name":"ACE","score":900,"date":0}]}`), 0o644))

	out, err := runCLI(t, "", "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Scores imported")

	out, err = runCLI(t, "", "show", "tetris")
	require.NoError(t, err)
	assert.Contains(t, out, "ACE")

	_, err = os.Stat(filepath.Join(dir, "arcade.db"))
	assert.NoError(t, err)
}

func TestRejectsMemoryStore(t *testing.T) {
	setupEnv(t)
	t.Setenv("STORE_DRIVER", "memory")

	_, err := runCLI(t, "", "show")
	assert.ErrorIs(t, err, errMemoryStore)
}

func TestFailedCommandClosesStore(t *testing.T) {
	setupEnv(t)

	// runCLI asserts the store was released
	_, err := runCLI(t, "", "import", "/does/not/exist.json")
	assert.Error(t, err)
}
