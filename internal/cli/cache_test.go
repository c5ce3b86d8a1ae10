package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/valobs/internal/store"
)

func TestCacheCommands(t *testing.T) {
	dir := writeModule(t, map[string]string{"counter.go": counterTemplate})
	db := filepath.Join(dir, "cache.db")

	_, _, err := executeCommand(t, "generate", "-C", dir, "--cache", db)
	require.NoError(t, err)

	stdout, _, err := executeCommand(t, "cache", "stats", "--cache", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "entries: 1")

	stdout, _, err = executeCommand(t, "cache", "list", "--cache", db, "--format", "json")
	require.NoError(t, err)
	var listResp struct {
		Status string        `json:"status"`
		Data   []store.Entry `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &listResp))
	require.Len(t, listResp.Data, 1)
	assert.Equal(t, 1, listResp.Data[0].Declarations)
	assert.Contains(t, listResp.Data[0].Path, "counter.go")

	stdout, _, err = executeCommand(t, "cache", "clear", "--cache", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "removed 1 entry")

	stdout, _, err = executeCommand(t, "cache", "list", "--cache", db)
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestCacheDefaultPath(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := executeCommand(t, "cache", "stats", "-C", dir, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"status": "ok"`)
	assert.FileExists(t, filepath.Join(dir, DefaultCachePath))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "y", plural(1, "y", "ies"))
	assert.Equal(t, "ies", plural(0, "y", "ies"))
	assert.Equal(t, "abc", shortHash("abc"))
	assert.Equal(t, "0123456789ab", shortHash("0123456789abcdef"))
}
