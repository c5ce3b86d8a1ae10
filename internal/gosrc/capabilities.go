package gosrc

import (
	"go/ast"
	"go/types"

	"github.com/roach88/valobs/internal/ir"
)

// capabilityResolver answers capability queries for member types.
type capabilityResolver struct {
	info *types.Info
	pkg  *types.Package
	// observable names types in this package that carry the record
	// directive. Their ObservationID method only exists in generated code.
	observable map[string]bool
}

func (r *capabilityResolver) resolve(expr ast.Expr) ir.TypeCapabilities {
	if r != nil && r.info != nil {
		if t := r.info.TypeOf(expr); t != nil && t != types.Typ[types.Invalid] {
			return r.fromType(t)
		}
	}
	return r.syntactic(expr)
}

func (r *capabilityResolver) fromType(t types.Type) ir.TypeCapabilities {
	_, isPointer := t.Underlying().(*types.Pointer)
	_, isInterface := t.Underlying().(*types.Interface)

	caps := ir.TypeCapabilities{
		Observable:  r.isObservable(t),
		Reference:   isPointer,
		EqualMethod: hasEqualMethod(t),
	}
	// Interface values compare with == but panic on incomparable dynamic
	// types, so they never count as equatable.
	caps.Equatable = caps.EqualMethod || (!isPointer && !isInterface && types.Comparable(t))
	return caps
}

func (r *capabilityResolver) isObservable(t types.Type) bool {
	if named, ok := types.Unalias(t).(*types.Named); ok && r != nil {
		obj := named.Obj()
		if obj.Pkg() != nil && obj.Pkg() == r.pkg && r.observable[obj.Name()] {
			return true
		}
	}
	obj, _, _ := types.LookupFieldOrMethod(t, false, nil, "ObservationID")
	fn, ok := obj.(*types.Func)
	if !ok {
		return false
	}
	sig := fn.Type().(*types.Signature)
	return sig.Params().Len() == 0 && sig.Results().Len() == 1
}

// hasEqualMethod reports whether t's method set has Equal(t) bool.
func hasEqualMethod(t types.Type) bool {
	obj, _, _ := types.LookupFieldOrMethod(t, false, nil, "Equal")
	fn, ok := obj.(*types.Func)
	if !ok {
		return false
	}
	sig := fn.Type().(*types.Signature)
	if sig.Params().Len() != 1 || sig.Results().Len() != 1 {
		return false
	}
	res, ok := sig.Results().At(0).Type().Underlying().(*types.Basic)
	return ok && res.Kind() == types.Bool && types.Identical(sig.Params().At(0).Type(), t)
}

var comparableBasics = map[string]bool{
	"bool": true, "string": true, "byte": true, "rune": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
}

// syntactic is the fallback when no type information is available. Unknown
// named types get no capabilities, which selects the always-notify variant.
func (r *capabilityResolver) syntactic(expr ast.Expr) ir.TypeCapabilities {
	switch e := expr.(type) {
	case *ast.Ident:
		if r != nil && r.observable[e.Name] {
			return ir.TypeCapabilities{Observable: true}
		}
		return ir.TypeCapabilities{Equatable: comparableBasics[e.Name]}
	case *ast.ParenExpr:
		return r.syntactic(e.X)
	case *ast.StarExpr:
		return ir.TypeCapabilities{Reference: true}
	case *ast.ChanType:
		return ir.TypeCapabilities{Equatable: true}
	case *ast.ArrayType:
		if e.Len == nil {
			return ir.TypeCapabilities{}
		}
		return ir.TypeCapabilities{Equatable: r.syntactic(e.Elt).Equatable}
	default:
		return ir.TypeCapabilities{}
	}
}
