// Package compiler is the valobs transformation engine.
//
// It turns one ir.Declaration carrying a record-level directive into an
// ir.Expansion: which members are rewritten into instrumented accessors,
// which record-level support members are synthesized, the conformance to
// the observable-value capability, and any diagnostics.
//
// The engine is a pure function. It keeps no state between calls, never
// blocks, and never produces partial output: a declaration that fails
// validation yields diagnostics and nothing else.
//
// Pipeline for Augment:
//
//	Validate → Classify (per member) → SynthesizeAccessor (observed members)
//	         → record support members → conformance
//
// TransformMember runs the accessor synthesis alone for a member whose
// enclosing declaration supplies the helpers itself.
package compiler
