package compiler

import "github.com/roach88/valobs/internal/ir"

// Classify decides how a member is treated. Rules in precedence order:
//  1. an Ignoring directive excludes the member;
//  2. an Observing directive requests an accessor explicitly;
//  3. constants and computed members have no mutable storage to instrument;
//  4. everything else is observed by default.
//
// Classify never fails; misplaced record directives are the Validator's job.
func Classify(m ir.Member) ir.Classification {
	switch {
	case m.Directive == ir.DirectiveIgnoring:
		return ir.Ignored
	case m.Directive == ir.DirectiveObserving:
		return ir.ExplicitlyObserving
	case m.Storage != ir.StoredWithInitializer:
		return ir.Ignored
	default:
		return ir.DefaultObserving
	}
}
