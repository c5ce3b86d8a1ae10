package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: counter_hits
description: "An observe-marked field gets an equatable accessor"
standalone:
  enclosing:
    kind: struct
    name: Counter
    members: []
  member:
    name: hits
    type: { expr: int, capabilities: { equatable: true } }
    storage: stored
    directive: observing
assertions:
  - type: rewritten
    members: [hits]
  - type: comparison
    member: hits
    comparison: equatable
`

const failingScenario = `name: wrong_comparison
description: "Expects the wrong comparison variant"
standalone:
  enclosing:
    kind: struct
    name: Counter
    members: []
  member:
    name: hits
    type: { expr: int, capabilities: { equatable: true } }
    storage: stored
    directive: observing
assertions:
  - type: comparison
    member: hits
    comparison: always
`

func writeScenarios(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestTestCommand_Pass(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"counter_hits.yaml": passingScenario})

	stdout, _, err := executeCommand(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ counter_hits")
	assert.Contains(t, stdout, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, stdout, "✓ All scenarios passed")
}

func TestTestCommand_Fail(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"counter_hits.yaml":     passingScenario,
		"wrong_comparison.yaml": failingScenario,
	})

	stdout, _, err := executeCommand(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ wrong_comparison")
	assert.Contains(t, stdout, "Assertion failed: comparison")
	assert.Contains(t, stdout, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommand_Filter(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"counter_hits.yaml":     passingScenario,
		"wrong_comparison.yaml": failingScenario,
	})

	stdout, _, err := executeCommand(t, "test", dir, "--filter", "counter_*")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 total")
	assert.NotContains(t, stdout, "wrong_comparison")
}

func TestTestCommand_UpdateThenCompare(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"counter_hits.yaml": passingScenario})

	stdout, _, err := executeCommand(t, "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ counter_hits (golden updated)")

	golden := filepath.Join(dir, "golden", "counter_hits.golden")
	require.FileExists(t, golden)

	_, _, err = executeCommand(t, "test", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(golden, []byte(`{"scenario":"stale"}`), 0o644))
	stdout, _, err = executeCommand(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, stdout, "expansion does not match golden file")
}

func TestTestCommand_JSON(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"wrong_comparison.yaml": failingScenario})

	stdout, _, err := executeCommand(t, "test", dir, "--format", "json")
	require.Error(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 1, resp.Data.Failed)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
}

func TestTestCommand_BadScenario(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"broken.yaml": "name: broken\nbogus: true\n"})

	stdout, _, err := executeCommand(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, stdout, "✗ broken.yaml")
	assert.Contains(t, stdout, "failed to load scenario")
}

func TestTestCommand_EmptyDir(t *testing.T) {
	stdout, _, err := executeCommand(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, stdout, "No scenarios found.")
}

func TestTestCommand_MissingDir(t *testing.T) {
	stdout, _, err := executeCommand(t, "test", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E004]")
}

func TestFindScenarioFiles(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"a.yaml":    passingScenario,
		"b.yml":     passingScenario,
		"notes.txt": "skip",
	})

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	_, err = findScenarioFiles(dir, "[")
	require.Error(t, err)
}
