package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/valobs/internal/ir"
)

func TestExplain_Text(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "counter.go")
	require.NoError(t, os.WriteFile(path, []byte(counterTemplate), 0o644))

	stdout, _, err := executeCommand(t, "explain", "-C", dir, path)
	require.NoError(t, err)

	var explanation Explanation
	require.NoError(t, json.Unmarshal([]byte(stdout), &explanation))
	assert.Equal(t, filepath.Join(dir, "counter_valobs.go"), explanation.Output)
	require.Len(t, explanation.Expansions, 1)

	exp := explanation.Expansions[0]
	assert.Equal(t, "Counter", exp.Declaration)
	require.Len(t, exp.Members, 1)
	assert.Equal(t, ir.DefaultObserving, exp.Members[0].Classification)
	require.NotNil(t, exp.Members[0].Accessor)
	assert.Equal(t, ir.CompareEquatable, exp.Members[0].Accessor.Comparison)
	assert.Empty(t, explanation.Diagnostics)
}

func TestExplain_JSONKeepsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flavor.go")
	require.NoError(t, os.WriteFile(path, []byte(flavorTemplate), 0o644))

	stdout, _, err := executeCommand(t, "explain", "-C", dir, "--format", "json", path)
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   Explanation `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Diagnostics, 1)
	assert.Equal(t, "E201", resp.Data.Diagnostics[0].Code)
}

func TestExplain_MissingFile(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := executeCommand(t, "explain", "-C", dir, filepath.Join(dir, "nope.go"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E004]")
}

func TestExplain_RequiresOneArg(t *testing.T) {
	_, _, err := executeCommand(t, "explain")
	require.Error(t, err)
}
