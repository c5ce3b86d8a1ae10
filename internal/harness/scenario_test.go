package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/valobs/internal/ir"
)

func TestLoadScenario_Declaration(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/model_record.yaml")
	require.NoError(t, err)

	assert.Equal(t, "model_record", s.Name)
	require.NotNil(t, s.Declaration)
	assert.Nil(t, s.Standalone)
	assert.Nil(t, s.Source)

	d := s.Declaration
	assert.Equal(t, ir.KindStruct, d.Kind)
	assert.Equal(t, "Model", d.Name)
	assert.Equal(t, ir.Position{File: "model.go", Line: 3, Column: 1}, d.Pos)
	require.Len(t, d.Members, 6)

	assert.Equal(t, ir.Member{
		Name:        "count",
		Type:        ir.TypeRef{Expr: "int", Capabilities: ir.TypeCapabilities{Equatable: true}},
		Storage:     ir.StoredWithInitializer,
		Initializer: "0",
	}, d.Members[0])
	assert.Equal(t, ir.StoredConstant, d.Members[1].Storage)
	assert.Equal(t, ir.DirectiveIgnoring, d.Members[2].Directive)
	assert.Equal(t, ir.DirectiveObserving, d.Members[3].Directive)
	assert.True(t, d.Members[4].Type.Capabilities.Reference)
	assert.Equal(t, ir.Computed, d.Members[5].Storage)

	assert.Len(t, s.Assertions, 8)
}

func TestLoadScenario_Standalone(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/standalone_member.yaml")
	require.NoError(t, err)
	require.NotNil(t, s.Standalone)
	require.NotNil(t, s.Standalone.Enclosing)
	assert.Equal(t, "Counter", s.Standalone.Enclosing.Name)
	assert.Equal(t, "hits", s.Standalone.Member.Name)
}

func TestLoadScenario_SourceDefaultsPath(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: src
description: "d"
source:
  text: "package p\n"
assertions:
  - type: no_diagnostics
`))
	require.NoError(t, err)
	assert.Equal(t, "template.go", s.Source.Path)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: typo
description: "d"
declaration: { kind: struct, name: T, members: [] }
assertion:
  - type: no_diagnostics
`), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
	assert.Contains(t, err.Error(), "assertion")
}

func TestLoadScenario_UnknownEnumText(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: bad
description: "d"
declaration: { kind: class, name: T, members: [] }
assertions:
  - type: no_diagnostics
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "class")
}

func TestValidateScenario(t *testing.T) {
	yes := true
	decl := &ir.Declaration{Name: "T"}
	valid := func() Scenario {
		return Scenario{
			Name:        "n",
			Description: "d",
			Declaration: decl,
			Assertions:  []Assertion{{Type: AssertNoDiagnostics}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Scenario)
		wantErr string
	}{
		{"valid", func(*Scenario) {}, ""},
		{"missing name", func(s *Scenario) { s.Name = "" }, "name is required"},
		{"missing description", func(s *Scenario) { s.Description = "" }, "description is required"},
		{"no input", func(s *Scenario) { s.Declaration = nil }, "exactly one of"},
		{"two inputs", func(s *Scenario) { s.Source = &SourceCase{Text: "package p"} }, "exactly one of"},
		{"unnamed declaration", func(s *Scenario) { s.Declaration = &ir.Declaration{} }, "declaration: name is required"},
		{"unnamed standalone member", func(s *Scenario) {
			s.Declaration = nil
			s.Standalone = &StandaloneCase{}
		}, "standalone.member: name is required"},
		{"empty source", func(s *Scenario) {
			s.Declaration = nil
			s.Source = &SourceCase{}
		}, "source: text is required"},
		{"no assertions", func(s *Scenario) { s.Assertions = nil }, "assertions list is required"},
		{"missing type", func(s *Scenario) { s.Assertions = []Assertion{{}} }, "assertions[0]: type is required"},
		{"unknown type", func(s *Scenario) { s.Assertions = []Assertion{{Type: "trace_order"}} }, `unknown assertion type "trace_order"`},
		{"untouched without members", func(s *Scenario) { s.Assertions = []Assertion{{Type: AssertUntouched}} }, "members list is required"},
		{"classification without value", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertClassification, Member: "x"}}
		}, "member and classification are required"},
		{"comparison without member", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertComparison, Comparison: "always"}}
		}, "member and comparison are required"},
		{"conformance without present", func(s *Scenario) { s.Assertions = []Assertion{{Type: AssertConformance}} }, "present is required"},
		{"conformance with present", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertConformance, Present: &yes}}
		}, ""},
		{"diagnostic without code", func(s *Scenario) { s.Assertions = []Assertion{{Type: AssertDiagnostic}} }, "code is required"},
		{"output assertion on declaration", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertOutputContains, Text: "x"}}
		}, "requires a source scenario"},
		{"output assertion without text", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertOutputExcludes}}
		}, "text is required for output_excludes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			err := validateScenario(&s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
