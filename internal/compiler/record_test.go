package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/valobs/internal/ir"
)

func TestAugmentModel(t *testing.T) {
	decl := modelDeclaration()
	exp := Augment(decl, DefaultOptions())

	require.False(t, exp.Failed())
	assert.Empty(t, exp.Diagnostics)
	assert.Equal(t, "Model", exp.Declaration)
	require.Len(t, exp.Members, len(decl.Members))

	var rewritten []string
	for _, acc := range exp.Accessors() {
		rewritten = append(rewritten, acc.Member)
	}
	assert.Equal(t, []string{"Count", "Already"}, rewritten)

	count := exp.Members[0]
	assert.Equal(t, ir.DefaultObserving, count.Classification)
	assert.True(t, count.ImplicitDirective)
	assert.Equal(t, ir.DirectiveObserving, count.Member.Directive)

	already := exp.Members[3]
	assert.Equal(t, ir.ExplicitlyObserving, already.Classification)
	assert.False(t, already.ImplicitDirective)

	// Untouched members come back exactly as they went in.
	for _, i := range []int{1, 2, 4} {
		assert.Equal(t, ir.Ignored, exp.Members[i].Classification)
		assert.Nil(t, exp.Members[i].Accessor)
		assert.Equal(t, decl.Members[i], exp.Members[i].Member)
	}

	require.NotNil(t, exp.Conformance)
	assert.Equal(t, ir.Conformance{Declaration: "Model", Capability: "observation.ObservableValue"}, *exp.Conformance)
}

func TestAugmentSupportMembers(t *testing.T) {
	exp := Augment(modelDeclaration(), DefaultOptions())

	for _, kind := range []ir.SupportKind{
		ir.SupportIdentity,
		ir.SupportRegistrar,
		ir.SupportCopy,
		ir.SupportAccess,
		ir.SupportWithMutation,
	} {
		assert.Len(t, exp.SupportOf(kind), 1, "support kind %s", kind)
	}

	id := exp.SupportOf(ir.SupportIdentity)[0]
	assert.Equal(t, "obsID", id.Name)
	assert.Equal(t, ir.VisibilityPublicReadPrivateWrite, id.Visibility)

	reg := exp.SupportOf(ir.SupportRegistrar)[0]
	assert.True(t, reg.Ignored)
	assert.Equal(t, ir.VisibilityPrivate, reg.Visibility)

	notify := exp.SupportOf(ir.SupportShouldNotify)
	require.Len(t, notify, 4)
	seen := map[ir.ComparisonVariant]string{}
	for _, s := range notify {
		require.NotNil(t, s.Variant)
		seen[*s.Variant] = s.Name
	}
	assert.Equal(t, map[ir.ComparisonVariant]string{
		ir.CompareAlways:            "shouldNotifyObservers",
		ir.CompareEquatable:         "shouldNotifyObserversEquatable",
		ir.CompareIdentity:          "shouldNotifyObserversIdentity",
		ir.CompareEquatableIdentity: "shouldNotifyObserversEquatableIdentity",
	}, seen)
}

func TestAugmentAccessorCountMatchesClassification(t *testing.T) {
	decl := modelDeclaration()
	exp := Augment(decl, DefaultOptions())

	observed := 0
	for _, m := range decl.Members {
		if Classify(m).Observed() {
			observed++
		}
	}
	assert.Len(t, exp.Accessors(), observed)
}

func TestAugmentNoObservedMembers(t *testing.T) {
	decl := ir.Declaration{
		Kind: ir.KindStruct,
		Name: "Empty",
		Members: []ir.Member{
			{Name: "ID", Type: stringType, Storage: ir.StoredConstant},
		},
	}
	exp := Augment(decl, DefaultOptions())

	assert.False(t, exp.Failed())
	assert.Empty(t, exp.Accessors())
	assert.Len(t, exp.Support, 9)
	assert.NotNil(t, exp.Conformance)
}

func TestAugmentEnumerationFails(t *testing.T) {
	exp := Augment(flavorDeclaration(), DefaultOptions())

	require.True(t, exp.Failed())
	require.Len(t, exp.Diagnostics, 1)
	assert.Equal(t, "'//valobs:observable' cannot be applied to enumeration type 'Flavor'", exp.Diagnostics[0].Message)
	assert.Empty(t, exp.Support)
	assert.Empty(t, exp.Accessors())
	assert.Nil(t, exp.Conformance)
}

func TestAugmentCachesComparisonPerType(t *testing.T) {
	// Two members spelled with the same type expression resolve identically
	// even if the second carries stale capabilities.
	decl := ir.Declaration{
		Kind: ir.KindStruct,
		Name: "Pair",
		Members: []ir.Member{
			{Name: "A", Type: ir.TypeRef{Expr: "T", Capabilities: ir.TypeCapabilities{Equatable: true}}},
			{Name: "B", Type: ir.TypeRef{Expr: "T"}},
		},
	}
	exp := Augment(decl, DefaultOptions())

	accs := exp.Accessors()
	require.Len(t, accs, 2)
	assert.Equal(t, ir.CompareEquatable, accs[0].Comparison)
	assert.Equal(t, accs[0].Comparison, accs[1].Comparison)
}

func TestAugmentDeterministic(t *testing.T) {
	first, err := ir.ExpansionHash(Augment(modelDeclaration(), DefaultOptions()))
	require.NoError(t, err)
	second, err := ir.ExpansionHash(Augment(modelDeclaration(), DefaultOptions()))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
