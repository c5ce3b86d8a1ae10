// Package harness runs conformance scenarios against the expansion engine.
//
// A scenario is a YAML file describing one input and the outcome expected
// from it. The input is exactly one of:
//
//   - declaration: an IR declaration passed to the record augmenter
//   - standalone: a member, with an optional enclosing declaration, passed
//     to the standalone member transformer
//   - source: a Go template processed end to end by the Go host
//
// # Scenario Format
//
//	name: model_record
//	description: "Observed, constant and ignored members of a record"
//	declaration:
//	  kind: struct
//	  name: Model
//	  members:
//	    - name: count
//	      type: { expr: int, capabilities: { equatable: true } }
//	      storage: stored
//	      initializer: "0"
//	assertions:
//	  - type: rewritten
//	    members: [count]
//	  - type: conformance
//	    present: true
//
// # Assertion Types
//
//   - rewritten: exactly these members receive accessors, in order
//   - untouched: each listed member passes through without an accessor
//   - classification: a member's classification
//   - comparison: the comparison variant of a member's accessor
//   - support: the synthesized support kinds, in order
//   - conformance: whether the conformance is attached
//   - diagnostic: a diagnostic with the given code, and optionally message,
//     line and column
//   - no_diagnostics: the run produced no diagnostics
//   - output_contains, output_excludes: text in the generated file (source
//     scenarios only)
//
// Assertions that look at one expansion take an optional declaration name;
// without it they use the first expansion.
//
// # Golden Files
//
// RunWithGolden snapshots the canonical JSON of the expansions and
// diagnostics into testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
