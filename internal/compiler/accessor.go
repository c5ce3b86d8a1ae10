package compiler

import "github.com/roach88/valobs/internal/ir"

// StorageName is the private slot backing an observed member.
func StorageName(member string) string {
	return "_" + member
}

// writeSteps is the write-path decision tree, evaluated in order.
var writeSteps = []ir.WriteStep{
	ir.WriteIdentityShortCircuit,
	ir.WriteComparisonShortCircuit,
	ir.WriteMutationBracket,
}

// SynthesizeAccessor rewrites one observed member into a computed accessor
// backed by a private slot.
func SynthesizeAccessor(m ir.Member, variant ir.ComparisonVariant) ir.Accessor {
	storage := StorageName(m.Name)
	return ir.Accessor{
		Member:     m.Name,
		Storage:    storage,
		Type:       m.Type,
		Comparison: variant,
		Init: ir.InitPath{
			Storage:    storage,
			Value:      m.Initializer,
			Restricted: true,
		},
		Read: ir.ReadPath{
			AccessKey: m.Name,
			Storage:   storage,
		},
		Write: ir.WritePath{
			MutationKey: m.Name,
			Storage:     storage,
			Comparison:  variant,
			Steps:       append([]ir.WriteStep(nil), writeSteps...),
		},
		Modify: ir.ModifyPath{
			AccessKey:             m.Name,
			Storage:               storage,
			ObservablePassthrough: true,
			Bracket:               true,
		},
	}
}
