package compiler

import (
	"fmt"

	"github.com/roach88/valobs/internal/ir"
)

// Diagnostic codes (E200-E299).
const (
	// ErrUnsupportedDeclarationKind: the record directive is attached to a
	// declaration that cannot host per-instance identity and mutation.
	ErrUnsupportedDeclarationKind = "E201"
)

// Validate checks that the record-level transformation may run on decl.
// It returns at most one diagnostic, positioned at the directive.
func Validate(decl ir.Declaration, opts Options) []ir.Diagnostic {
	if decl.Kind.IsRecord() {
		return nil
	}
	return []ir.Diagnostic{{
		Code:     ErrUnsupportedDeclarationKind,
		Severity: ir.SeverityError,
		Message:  fmt.Sprintf("'%s' cannot be applied to %s type '%s'", opts.DirectiveName, decl.Kind, decl.Name),
		Pos:      decl.Pos,
	}}
}
