package compiler

import "github.com/roach88/valobs/internal/ir"

// memberHandler turns one classified member into its expansion.
type memberHandler func(m ir.Member, cache *comparisonCache) ir.MemberExpansion

var memberHandlers = map[ir.Classification]memberHandler{
	ir.Ignored: func(m ir.Member, _ *comparisonCache) ir.MemberExpansion {
		return ir.MemberExpansion{Member: m, Classification: ir.Ignored}
	},
	ir.ExplicitlyObserving: func(m ir.Member, cache *comparisonCache) ir.MemberExpansion {
		acc := SynthesizeAccessor(m, cache.lookup(m.Type))
		return ir.MemberExpansion{Member: m, Classification: ir.ExplicitlyObserving, Accessor: &acc}
	},
	ir.DefaultObserving: func(m ir.Member, cache *comparisonCache) ir.MemberExpansion {
		m.Directive = ir.DirectiveObserving
		acc := SynthesizeAccessor(m, cache.lookup(m.Type))
		return ir.MemberExpansion{
			Member:            m,
			Classification:    ir.DefaultObserving,
			ImplicitDirective: true,
			Accessor:          &acc,
		}
	},
}

// Augment runs the record-level transformation on decl.
//
// Validation runs first. When it fails the expansion carries only the
// diagnostic: no member is rewritten, no support member is synthesized and no
// conformance is attached.
func Augment(decl ir.Declaration, opts Options) *ir.Expansion {
	exp := &ir.Expansion{
		Declaration: decl.Name,
		Kind:        decl.Kind,
		Members:     []ir.MemberExpansion{},
		Support:     []ir.SupportMember{},
		Diagnostics: []ir.Diagnostic{},
	}

	if diags := Validate(decl, opts); len(diags) > 0 {
		exp.Diagnostics = append(exp.Diagnostics, diags...)
		for _, m := range decl.Members {
			exp.Members = append(exp.Members, ir.MemberExpansion{Member: m, Classification: ir.Ignored})
		}
		return exp
	}

	cache := newComparisonCache()
	for _, m := range decl.Members {
		exp.Members = append(exp.Members, memberHandlers[Classify(m)](m, cache))
	}
	exp.Support = supportMembers(opts.Names)
	exp.Conformance = &ir.Conformance{Declaration: decl.Name, Capability: opts.Capability}
	return exp
}

// supportMembers lists the record-level members synthesized exactly once per
// declaration, in emission order.
func supportMembers(names Names) []ir.SupportMember {
	out := []ir.SupportMember{
		{Kind: ir.SupportIdentity, Name: names.Identity, Visibility: ir.VisibilityPublicReadPrivateWrite},
		{Kind: ir.SupportRegistrar, Name: names.Registrar, Visibility: ir.VisibilityPrivate, Ignored: true},
		{Kind: ir.SupportCopy, Name: names.Copy, Visibility: ir.VisibilityPublic},
		{Kind: ir.SupportAccess, Name: names.Access, Visibility: ir.VisibilityInternal},
		{Kind: ir.SupportWithMutation, Name: names.WithMutation, Visibility: ir.VisibilityInternal},
	}
	// Emitted least specific first so the generic fallback reads before the
	// constrained overloads.
	for i := len(ir.ComparisonVariants) - 1; i >= 0; i-- {
		v := ir.ComparisonVariants[i]
		out = append(out, ir.SupportMember{
			Kind:       ir.SupportShouldNotify,
			Name:       names.ShouldNotifyFor(v),
			Visibility: ir.VisibilityPrivate,
			Variant:    &v,
		})
	}
	return out
}
