package harness

import (
	"fmt"

	"github.com/roach88/valobs/internal/compiler"
	"github.com/roach88/valobs/internal/config"
	"github.com/roach88/valobs/internal/gosrc"
)

// Run executes a scenario and evaluates its assertions.
//
// An error is returned only when the scenario cannot be executed, for
// example a source template that does not parse. Failed assertions are
// reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	opts := compiler.DefaultOptions()
	if scenario.Directive != "" {
		opts.DirectiveName = scenario.Directive
	}

	result := NewResult()
	switch {
	case scenario.Declaration != nil:
		exp := compiler.Augment(*scenario.Declaration, opts)
		result.Expansions = append(result.Expansions, exp)
		result.Diagnostics = append(result.Diagnostics, exp.Diagnostics...)

	case scenario.Standalone != nil:
		me := compiler.TransformMember(scenario.Standalone.Enclosing, scenario.Standalone.Member, opts)
		result.Standalone = append(result.Standalone, me)

	case scenario.Source != nil:
		res, err := gosrc.ProcessSource(scenario.Source.Path, []byte(scenario.Source.Text), config.Default())
		if err != nil {
			return nil, fmt.Errorf("failed to process source: %w", err)
		}
		result.Expansions = append(result.Expansions, res.Expansions...)
		result.Standalone = append(result.Standalone, res.Standalone...)
		result.Diagnostics = append(result.Diagnostics, res.Diagnostics...)
		result.Output = string(res.Output)

	default:
		return nil, fmt.Errorf("scenario %s has no input", scenario.Name)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}
