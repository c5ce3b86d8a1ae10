package compiler

import "github.com/roach88/valobs/internal/ir"

var (
	intType    = ir.TypeRef{Expr: "int", Capabilities: ir.TypeCapabilities{Equatable: true}}
	stringType = ir.TypeRef{Expr: "string", Capabilities: ir.TypeCapabilities{Equatable: true}}
)

// modelDeclaration mirrors the canonical example record: one default member,
// one constant, one ignored, one explicitly observed and one computed.
func modelDeclaration() ir.Declaration {
	return ir.Declaration{
		Kind: ir.KindStruct,
		Name: "Model",
		Pos:  ir.Position{File: "model.go", Line: 5, Column: 1},
		Members: []ir.Member{
			{Name: "Count", Type: intType, Storage: ir.StoredWithInitializer, Initializer: "0"},
			{Name: "Constant", Type: intType, Storage: ir.StoredConstant, Initializer: "1"},
			{Name: "Ignored", Type: intType, Storage: ir.StoredWithInitializer, Directive: ir.DirectiveIgnoring, Initializer: "2"},
			{Name: "Already", Type: stringType, Storage: ir.StoredWithInitializer, Directive: ir.DirectiveObserving, Initializer: `""`},
			{Name: "Computed", Type: intType, Storage: ir.Computed},
		},
	}
}

func flavorDeclaration() ir.Declaration {
	return ir.Declaration{
		Kind: ir.KindEnumeration,
		Name: "Flavor",
		Pos:  ir.Position{Line: 1, Column: 1},
		Members: []ir.Member{
			{Name: "Vanilla", Type: ir.TypeRef{Expr: "Flavor"}, Storage: ir.StoredConstant},
		},
	}
}
