package gosrc

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/valobs/internal/config"
	"github.com/roach88/valobs/internal/store"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]store.Entry
	puts    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]store.Entry{}}
}

func (c *memoryCache) Lookup(_ context.Context, hash string) (*store.Entry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[hash]
	if !ok {
		return nil, false, nil
	}
	return &e, true, nil
}

func (c *memoryCache) Put(_ context.Context, e store.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[e.SourceHash] = e
	c.puts++
	return nil
}

const counterTemplate = `//go:build valobsgen

package demo

//valobs:observable
type Counter struct {
	Value int
}
`

func writeTemplate(t *testing.T, dir, name, src string) *File {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	f, err := ParseFile(path, []byte(src))
	require.NoError(t, err)
	f.TypeCheck()
	return f
}

func TestGeneratorCachesAndSkipsUnchangedWrites(t *testing.T) {
	dir := t.TempDir()
	f := writeTemplate(t, dir, "counter.go", counterTemplate)
	cache := newMemoryCache()
	g := &Generator{Config: config.Default(), Cache: cache, Logger: zerolog.Nop()}

	first, err := g.GenerateFiles(context.Background(), []*File{f})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.False(t, first[0].Cached)
	assert.True(t, first[0].Written)
	assert.Equal(t, 1, cache.puts)

	written, err := os.ReadFile(filepath.Join(dir, "counter_valobs.go"))
	require.NoError(t, err)
	assert.Equal(t, string(first[0].Output), string(written))

	second, err := g.GenerateFiles(context.Background(), []*File{f})
	require.NoError(t, err)
	assert.True(t, second[0].Cached)
	assert.False(t, second[0].Written)
	assert.Equal(t, string(first[0].Output), string(second[0].Output))
	assert.Equal(t, 1, cache.puts)
}

func TestGeneratorDoesNotCacheDiagnostics(t *testing.T) {
	dir := t.TempDir()
	f := writeTemplate(t, dir, "flavor.go", `//go:build valobsgen

package demo

//valobs:observable
type Flavor int

const Vanilla Flavor = 0
`)
	cache := newMemoryCache()
	g := &Generator{Config: config.Default(), Cache: cache, Logger: zerolog.Nop()}

	results, err := g.GenerateFiles(context.Background(), []*File{f})
	require.NoError(t, err)
	assert.True(t, results[0].Failed())
	assert.Zero(t, cache.puts)
}

func TestGeneratorDryRun(t *testing.T) {
	dir := t.TempDir()
	f := writeTemplate(t, dir, "counter.go", counterTemplate)
	g := &Generator{Config: config.Default(), Logger: zerolog.Nop(), DryRun: true}

	results, err := g.GenerateFiles(context.Background(), []*File{f})
	require.NoError(t, err)
	assert.False(t, results[0].Written)
	assert.Contains(t, string(results[0].Output), "func (c *Counter) SetValue(value int) {")
	assert.NoFileExists(t, filepath.Join(dir, "counter_valobs.go"))
}

func TestGeneratorPreservesFileOrder(t *testing.T) {
	dir := t.TempDir()
	var files []*File
	for _, name := range []string{"a.go", "b.go", "c.go", "d.go", "e.go"} {
		files = append(files, writeTemplate(t, dir, name, counterTemplate))
	}
	cfg := config.Default()
	cfg.Workers = 2
	g := &Generator{Config: cfg, Logger: zerolog.Nop(), DryRun: true}

	results, err := g.GenerateFiles(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, results, len(files))
	for i, res := range results {
		assert.Equal(t, files[i].Path, res.Path)
	}
}

func TestGeneratorCanceled(t *testing.T) {
	dir := t.TempDir()
	f := writeTemplate(t, dir, "counter.go", counterTemplate)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := &Generator{Config: config.Default(), Logger: zerolog.Nop(), DryRun: true}
	_, err := g.GenerateFiles(ctx, []*File{f})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateLoadsModule(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/demo\n\ngo 1.22\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plain.go"), []byte("package demo\n\nfunc Plain() int { return 1 }\n"), 0o644))
	writeTemplate(t, dir, "counter.go", `//go:build valobsgen

package demo

//valobs:observable
type Label struct {
	Text string
}

//valobs:observable
type Counter struct {
	Value int
	Label Label
}

func (c *Counter) Bump() { c.SetValue(c.Value() + 1) }
`)

	g := &Generator{Config: config.Default(), Logger: zerolog.Nop()}
	results, err := g.Generate(context.Background(), dir, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Diagnostics)
	assert.True(t, results[0].Written)

	counter := results[0].Expansions[1]
	accessors := counter.Accessors()
	require.Len(t, accessors, 2)
	assert.True(t, accessors[1].Type.Capabilities.Observable)

	// A second load ignores the generated file, which is excluded by !valobsgen.
	again, err := g.Generate(context.Background(), dir, []string{"./..."})
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.False(t, again[0].Written)
}

func writeModuleFile(t *testing.T, dir, name, src string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
}

func TestGenerateTemplateCallingOwnAccessors(t *testing.T) {
	dir := t.TempDir()
	writeModuleFile(t, dir, "go.mod", "module example.com/model\n\ngo 1.22\n")
	writeModuleFile(t, dir, "model.go", modelTemplate)

	g := &Generator{Config: config.Default(), Logger: zerolog.Nop()}
	results, err := g.Generate(context.Background(), dir, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	require.Len(t, res.Expansions, 2)
	assert.Equal(t, "Model", res.Expansions[0].Declaration)
	assert.False(t, res.Expansions[0].Failed())
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "E201", res.Diagnostics[0].Code)

	out, err := os.ReadFile(filepath.Join(dir, "model_valobs.go"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "func (m *Model) Computed() int { return m.Count() }")
	assert.Contains(t, string(out), "func (m *Model) SetCount(value int) {")
}

const holderTemplate = `//go:build valobsgen

package demo

//valobs:observable
type Holder struct {
	X Foo
}
`

func TestGenerateCacheSeesSiblingCapabilities(t *testing.T) {
	dir := t.TempDir()
	writeModuleFile(t, dir, "go.mod", "module example.com/demo\n\ngo 1.22\n")
	writeModuleFile(t, dir, "foo.go", "package demo\n\ntype Foo struct{ parts []int }\n")
	writeModuleFile(t, dir, "holder.go", holderTemplate)

	cache := newMemoryCache()
	g := &Generator{Config: config.Default(), Cache: cache, Logger: zerolog.Nop()}
	ctx := context.Background()

	first, err := g.Generate(ctx, dir, nil)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.False(t, first[0].Cached)
	assert.Contains(t, string(first[0].Output), "if !holderShouldNotifyObservers(h._X, value) {")

	// Unchanged package: served from cache.
	again, err := g.Generate(ctx, dir, nil)
	require.NoError(t, err)
	assert.True(t, again[0].Cached)

	// An Equal method in a sibling file changes the comparison.
	writeModuleFile(t, dir, "foo.go", "package demo\n\ntype Foo struct{ parts []int }\n\nfunc (f Foo) Equal(o Foo) bool { return len(f.parts) == len(o.parts) }\n")
	changed, err := g.Generate(ctx, dir, nil)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.False(t, changed[0].Cached)
	assert.True(t, changed[0].Written)
	assert.Contains(t, string(changed[0].Output), "if !observation.ShouldNotifyEqual(h._X, value) {")
	assert.Equal(t, 2, cache.puts)
}
