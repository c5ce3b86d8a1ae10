package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/valobs/internal/ir"
)

// Snapshot returns the canonical JSON recorded in a scenario's golden file.
// Generated source is not part of it; output assertions cover that.
func Snapshot(name string, r *Result) ([]byte, error) {
	snap := map[string]any{
		"scenario":    name,
		"expansions":  r.Expansions,
		"diagnostics": r.Diagnostics,
	}
	if len(r.Standalone) > 0 {
		snap["standalone"] = r.Standalone
	}
	data, err := ir.MarshalCanonical(snap)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", name, err)
	}
	return data, nil
}

// RunWithGolden executes a scenario, fails t on any assertion failure and
// compares the snapshot against testdata/golden/<name>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

// GoldenPath returns the golden file of a scenario file outside go test:
// golden/<base>.golden next to the scenario.
func GoldenPath(scenarioFile string) string {
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(scenarioFile), "golden", name+".golden")
}

// UpdateGolden writes the result's snapshot to the scenario's golden file.
func UpdateGolden(scenarioFile string, scenario *Scenario, result *Result) error {
	data, err := Snapshot(scenario.Name, result)
	if err != nil {
		return err
	}
	path := GoldenPath(scenarioFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// CompareGolden reports whether the result matches the scenario's golden
// file. ok is false with a nil error when no golden file exists.
func CompareGolden(scenarioFile string, scenario *Scenario, result *Result) (match, ok bool, err error) {
	want, err := os.ReadFile(GoldenPath(scenarioFile))
	if os.IsNotExist(err) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("failed to read golden file: %w", err)
	}
	got, err := Snapshot(scenario.Name, result)
	if err != nil {
		return false, true, err
	}
	return bytes.Equal(bytes.TrimSpace(want), got), true, nil
}
