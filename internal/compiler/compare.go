package compiler

import "github.com/roach88/valobs/internal/ir"

type comparisonRule struct {
	variant ir.ComparisonVariant
	applies func(ir.TypeCapabilities) bool
}

// comparisonPrecedence prefers the strongest equivalence available and falls
// back to always notifying. Value equality beats reference identity when a
// type has both.
var comparisonPrecedence = []comparisonRule{
	{ir.CompareEquatableIdentity, func(c ir.TypeCapabilities) bool { return c.Equatable && c.Reference }},
	{ir.CompareIdentity, func(c ir.TypeCapabilities) bool { return c.Reference }},
	{ir.CompareEquatable, func(c ir.TypeCapabilities) bool { return c.Equatable }},
	{ir.CompareAlways, func(ir.TypeCapabilities) bool { return true }},
}

// SelectComparison returns the change-comparison variant for a type.
// Exactly one variant applies.
func SelectComparison(caps ir.TypeCapabilities) ir.ComparisonVariant {
	for _, rule := range comparisonPrecedence {
		if rule.applies(caps) {
			return rule.variant
		}
	}
	return ir.CompareAlways
}

// comparisonCache memoizes variant selection per type expression within one
// declaration.
type comparisonCache struct {
	byType map[string]ir.ComparisonVariant
}

func newComparisonCache() *comparisonCache {
	return &comparisonCache{byType: make(map[string]ir.ComparisonVariant)}
}

func (c *comparisonCache) lookup(t ir.TypeRef) ir.ComparisonVariant {
	if c == nil || t.Expr == "" {
		return SelectComparison(t.Capabilities)
	}
	if v, ok := c.byType[t.Expr]; ok {
		return v
	}
	v := SelectComparison(t.Capabilities)
	c.byType[t.Expr] = v
	return v
}
