package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/valobs/internal/ir"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

type assertionFunc func(r *Result, a Assertion) error

var assertionFuncs = map[string]assertionFunc{
	AssertRewritten:      assertRewritten,
	AssertUntouched:      assertUntouched,
	AssertClassification: assertClassification,
	AssertComparison:     assertComparison,
	AssertSupport:        assertSupport,
	AssertConformance:    assertConformance,
	AssertDiagnostic:     assertDiagnostic,
	AssertNoDiagnostics:  assertNoDiagnostics,
	AssertOutputContains: assertOutputContains,
	AssertOutputExcludes: assertOutputExcludes,
}

// EvaluateAssertions runs every assertion and returns one message per
// failure, in assertion order.
func EvaluateAssertions(r *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		fn, ok := assertionFuncs[a.Type]
		if !ok {
			failures = append(failures, fmt.Sprintf("assertion %d: unknown assertion type %q", i, a.Type))
			continue
		}
		if err := fn(r, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertion %d (%s): %s", i, a.Type, err))
		}
	}
	return failures
}

func assertRewritten(r *Result, a Assertion) error {
	got := []string{}
	for _, me := range r.members(a.Declaration) {
		if me.Accessor != nil {
			got = append(got, me.Member.Name)
		}
	}
	want := a.Members
	if want == nil {
		want = []string{}
	}
	if !slices.Equal(got, want) {
		return &AssertionError{
			Type:     AssertRewritten,
			Expected: fmt.Sprintf("%v", want),
			Actual:   fmt.Sprintf("%v", got),
		}
	}
	return nil
}

func assertUntouched(r *Result, a Assertion) error {
	members := r.members(a.Declaration)
	for _, name := range a.Members {
		me, ok := findMember(members, name)
		if !ok {
			return &AssertionError{Type: AssertUntouched, Expected: "member " + name, Actual: "not found"}
		}
		if me.Accessor != nil {
			return &AssertionError{
				Type:     AssertUntouched,
				Expected: "member " + name + " without accessor",
				Actual:   "rewritten into " + me.Accessor.Storage,
			}
		}
	}
	return nil
}

func assertClassification(r *Result, a Assertion) error {
	me, ok := findMember(r.members(a.Declaration), a.Member)
	if !ok {
		return &AssertionError{Type: AssertClassification, Expected: "member " + a.Member, Actual: "not found"}
	}
	if got := me.Classification.String(); got != a.Classification {
		return &AssertionError{Type: AssertClassification, Expected: a.Classification, Actual: got}
	}
	return nil
}

func assertComparison(r *Result, a Assertion) error {
	me, ok := findMember(r.members(a.Declaration), a.Member)
	if !ok {
		return &AssertionError{Type: AssertComparison, Expected: "member " + a.Member, Actual: "not found"}
	}
	if me.Accessor == nil {
		return &AssertionError{Type: AssertComparison, Expected: a.Comparison, Actual: "no accessor"}
	}
	if got := me.Accessor.Comparison.String(); got != a.Comparison {
		return &AssertionError{Type: AssertComparison, Expected: a.Comparison, Actual: got}
	}
	return nil
}

func assertSupport(r *Result, a Assertion) error {
	exp := r.expansion(a.Declaration)
	if exp == nil {
		return &AssertionError{Type: AssertSupport, Expected: "an expansion", Actual: "none"}
	}
	got := []string{}
	for _, s := range exp.Support {
		got = append(got, s.Kind.String())
	}
	want := a.Kinds
	if want == nil {
		want = []string{}
	}
	if !slices.Equal(got, want) {
		return &AssertionError{
			Type:     AssertSupport,
			Expected: fmt.Sprintf("%v", want),
			Actual:   fmt.Sprintf("%v", got),
		}
	}
	return nil
}

func assertConformance(r *Result, a Assertion) error {
	exp := r.expansion(a.Declaration)
	if exp == nil {
		return &AssertionError{Type: AssertConformance, Expected: "an expansion", Actual: "none"}
	}
	if got := exp.Conformance != nil; got != *a.Present {
		return &AssertionError{
			Type:     AssertConformance,
			Expected: fmt.Sprintf("present=%t", *a.Present),
			Actual:   fmt.Sprintf("present=%t", got),
		}
	}
	return nil
}

func assertDiagnostic(r *Result, a Assertion) error {
	for _, d := range r.Diagnostics {
		if d.Code != a.Code {
			continue
		}
		if a.Message != "" && d.Message != a.Message {
			continue
		}
		if a.Line != 0 && d.Pos.Line != a.Line {
			continue
		}
		if a.Column != 0 && d.Pos.Column != a.Column {
			continue
		}
		return nil
	}
	return &AssertionError{
		Type:     AssertDiagnostic,
		Expected: describeDiagnostic(a),
		Actual:   describeDiagnostics(r.Diagnostics),
	}
}

func assertNoDiagnostics(r *Result, _ Assertion) error {
	if len(r.Diagnostics) == 0 {
		return nil
	}
	return &AssertionError{Type: AssertNoDiagnostics, Expected: "no diagnostics", Actual: describeDiagnostics(r.Diagnostics)}
}

func assertOutputContains(r *Result, a Assertion) error {
	if !strings.Contains(r.Output, a.Text) {
		return &AssertionError{Type: AssertOutputContains, Expected: fmt.Sprintf("output containing %q", a.Text), Actual: "not found"}
	}
	return nil
}

func assertOutputExcludes(r *Result, a Assertion) error {
	if strings.Contains(r.Output, a.Text) {
		return &AssertionError{Type: AssertOutputExcludes, Expected: fmt.Sprintf("output without %q", a.Text), Actual: "found"}
	}
	return nil
}

func findMember(members []ir.MemberExpansion, name string) (ir.MemberExpansion, bool) {
	for _, me := range members {
		if me.Member.Name == name {
			return me, true
		}
	}
	return ir.MemberExpansion{}, false
}

func describeDiagnostic(a Assertion) string {
	var parts []string
	parts = append(parts, "code "+a.Code)
	if a.Message != "" {
		parts = append(parts, fmt.Sprintf("message %q", a.Message))
	}
	if a.Line != 0 || a.Column != 0 {
		parts = append(parts, fmt.Sprintf("at %d:%d", a.Line, a.Column))
	}
	return strings.Join(parts, ", ")
}

func describeDiagnostics(diags []ir.Diagnostic) string {
	if len(diags) == 0 {
		return "none"
	}
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Error()
	}
	return strings.Join(out, "; ")
}
