package compiler

import "github.com/roach88/valobs/internal/ir"

// TransformMember applies the accessor rewrite to a single member whose
// enclosing declaration provides access, withMutation and the registrar
// itself.
//
// A member with no enclosing declaration, or one enclosed by a declaration
// that cannot hold per-instance state, is returned unchanged with its
// directive erased. No diagnostics are produced in either case. Ignoring
// directives and computed members pass through untouched as well.
func TransformMember(enclosing *ir.Declaration, m ir.Member, opts Options) ir.MemberExpansion {
	if enclosing == nil || !enclosing.Kind.IsRecord() {
		m.Directive = ir.DirectiveNone
		return ir.MemberExpansion{Member: m, Classification: ir.Ignored}
	}
	if m.Directive == ir.DirectiveIgnoring || m.Storage == ir.Computed {
		return ir.MemberExpansion{Member: m, Classification: ir.Ignored}
	}
	acc := SynthesizeAccessor(m, SelectComparison(m.Type.Capabilities))
	return ir.MemberExpansion{Member: m, Classification: ir.ExplicitlyObserving, Accessor: &acc}
}
