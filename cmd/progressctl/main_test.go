package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/2beens/fitprogress/internal/progress"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`
[development]
port = 9000
log_level = "error"
storage_backend = "sqlite"
sqlite_path = %q
`, filepath.Join(dir, "data", "progress.db"))
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return configPath
}

func run(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestProgressctl_mutationsArePersisted(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := run(t, configPath, "complete", "e1")
	require.NoError(t, err)
	var setResult progress.SetResult
	require.NoError(t, json.Unmarshal([]byte(out), &setResult))
	assert.Equal(t, progress.SetResult{ExerciseID: "e1", CompletedSets: 1, TotalSets: 3}, setResult)

	_, err = run(t, configPath, "done", "e2")
	require.NoError(t, err)

	// every command opens the store anew
	out, err = run(t, configPath, "state")
	require.NoError(t, err)
	var state progress.State
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	assert.Equal(t, 1, state["e1"].CompletedSets)
	assert.Equal(t, 3, state["e2"].CompletedSets)
	assert.Equal(t, 0, state["e3"].CompletedSets)

	out, err = run(t, configPath, "totals")
	require.NoError(t, err)
	var totals progress.Totals
	require.NoError(t, json.Unmarshal([]byte(out), &totals))
	assert.Equal(t, 1, totals.CompletedExercises)
	assert.Positive(t, totals.CompletedCalories)

	out, err = run(t, configPath, "history")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf(`"weekly": [
    0,
    0,
    0,
    0,
    0,
    0,
    %d
  ]`, totals.Percent))

	out, err = run(t, configPath, "reset", "e2")
	require.NoError(t, err)
	assert.JSONEq(t, `{"completedSets": 0}`, out)

	out, err = run(t, configPath, "clear")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &totals))
	assert.Equal(t, progress.Totals{}, totals)
}

func TestProgressctl_unknownExercise(t *testing.T) {
	configPath := writeTestConfig(t)

	_, err := run(t, configPath, "complete", "nope")
	assert.EqualError(t, err, "unknown exercise: nope")
}

func TestProgressctl_badArgs(t *testing.T) {
	configPath := writeTestConfig(t)

	_, err := run(t, configPath, "complete")
	assert.Error(t, err)

	_, err = run(t, "/does/not/exist.toml", "totals")
	assert.ErrorContains(t, err, "read config file")
}
