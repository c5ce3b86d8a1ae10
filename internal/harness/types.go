package harness

import "github.com/roach88/valobs/internal/ir"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion holds.
	Pass bool `json:"pass"`

	Expansions  []*ir.Expansion      `json:"expansions"`
	Standalone  []ir.MemberExpansion `json:"standalone,omitempty"`
	Diagnostics []ir.Diagnostic      `json:"diagnostics"`

	// Output is the generated file for source scenarios.
	Output string `json:"-"`

	// Errors contains assertion failure messages.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:        true,
		Expansions:  []*ir.Expansion{},
		Diagnostics: []ir.Diagnostic{},
		Errors:      []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// expansion returns the expansion of the named declaration, or the first
// one when name is empty.
func (r *Result) expansion(name string) *ir.Expansion {
	for _, exp := range r.Expansions {
		if name == "" || exp.Declaration == name {
			return exp
		}
	}
	return nil
}

// members returns the member expansions in scope for an assertion.
func (r *Result) members(declaration string) []ir.MemberExpansion {
	if declaration != "" {
		if exp := r.expansion(declaration); exp != nil {
			return exp.Members
		}
		return nil
	}
	var out []ir.MemberExpansion
	for _, exp := range r.Expansions {
		out = append(out, exp.Members...)
	}
	return append(out, r.Standalone...)
}
