package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/valobs/internal/ir"
)

// Scenario defines one conformance case.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Directive overrides the record directive spelling quoted in
	// diagnostics. Defaults to "//valobs:observable".
	Directive string `yaml:"directive,omitempty"`

	// Exactly one of Declaration, Standalone and Source is set.
	Declaration *ir.Declaration `yaml:"declaration,omitempty"`
	Standalone  *StandaloneCase `yaml:"standalone,omitempty"`
	Source      *SourceCase     `yaml:"source,omitempty"`

	Assertions []Assertion `yaml:"assertions"`
}

// StandaloneCase is a single member outside record augmentation.
type StandaloneCase struct {
	// Enclosing is nil for a member with no enclosing declaration.
	Enclosing *ir.Declaration `yaml:"enclosing,omitempty"`
	Member    ir.Member       `yaml:"member"`
}

// SourceCase is a Go template run through the Go host.
type SourceCase struct {
	// Path is the template's file name. Defaults to "template.go".
	Path string `yaml:"path,omitempty"`
	Text string `yaml:"text"`
}

// Assertion validates one aspect of the outcome.
type Assertion struct {
	Type string `yaml:"type"`

	// Declaration selects the expansion for support, conformance and
	// member lookups. Empty selects every member, or the first expansion.
	Declaration string `yaml:"declaration,omitempty"`

	// Members is used by rewritten and untouched.
	Members []string `yaml:"members,omitempty"`

	// Member is used by classification and comparison.
	Member         string `yaml:"member,omitempty"`
	Classification string `yaml:"classification,omitempty"`
	Comparison     string `yaml:"comparison,omitempty"`

	// Kinds is used by support.
	Kinds []string `yaml:"kinds,omitempty"`

	// Present is used by conformance.
	Present *bool `yaml:"present,omitempty"`

	// Code, Message, Line and Column are used by diagnostic. Zero values
	// are not compared, except Code which is required.
	Code    string `yaml:"code,omitempty"`
	Message string `yaml:"message,omitempty"`
	Line    int    `yaml:"line,omitempty"`
	Column  int    `yaml:"column,omitempty"`

	// Text is used by output_contains and output_excludes.
	Text string `yaml:"text,omitempty"`
}

// Assertion type constants.
const (
	AssertRewritten      = "rewritten"
	AssertUntouched      = "untouched"
	AssertClassification = "classification"
	AssertComparison     = "comparison"
	AssertSupport        = "support"
	AssertConformance    = "conformance"
	AssertDiagnostic     = "diagnostic"
	AssertNoDiagnostics  = "no_diagnostics"
	AssertOutputContains = "output_contains"
	AssertOutputExcludes = "output_excludes"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if scenario.Source != nil && scenario.Source.Path == "" {
		scenario.Source.Path = "template.go"
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Description == "" {
		return errors.New("description is required")
	}

	inputs := 0
	for _, set := range []bool{s.Declaration != nil, s.Standalone != nil, s.Source != nil} {
		if set {
			inputs++
		}
	}
	if inputs != 1 {
		return errors.New("exactly one of declaration, standalone or source is required")
	}
	if s.Declaration != nil && s.Declaration.Name == "" {
		return errors.New("declaration: name is required")
	}
	if s.Standalone != nil && s.Standalone.Member.Name == "" {
		return errors.New("standalone.member: name is required")
	}
	if s.Source != nil && s.Source.Text == "" {
		return errors.New("source: text is required")
	}

	if len(s.Assertions) == 0 {
		return errors.New("assertions list is required and must be non-empty")
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i], s.Source != nil); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, hasSource bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertRewritten:
		// An empty list asserts that nothing is rewritten.
	case AssertUntouched:
		if len(a.Members) == 0 {
			return fmt.Errorf("assertions[%d]: members list is required for untouched", index)
		}
	case AssertClassification:
		if a.Member == "" || a.Classification == "" {
			return fmt.Errorf("assertions[%d]: member and classification are required for classification", index)
		}
	case AssertComparison:
		if a.Member == "" || a.Comparison == "" {
			return fmt.Errorf("assertions[%d]: member and comparison are required for comparison", index)
		}
	case AssertSupport:
	case AssertConformance:
		if a.Present == nil {
			return fmt.Errorf("assertions[%d]: present is required for conformance", index)
		}
	case AssertDiagnostic:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for diagnostic", index)
		}
	case AssertNoDiagnostics:
	case AssertOutputContains, AssertOutputExcludes:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for %s", index, a.Type)
		}
		if !hasSource {
			return fmt.Errorf("assertions[%d]: %s requires a source scenario", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
