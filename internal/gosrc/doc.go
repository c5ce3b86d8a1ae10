// Package gosrc is the Go host for the valobs engine.
//
// Templates are ordinary Go files constrained by a build tag (valobsgen by
// default). Declarations in them carry line-comment directives:
//
//	//valobs:observable      on a struct type: augment the whole record
//	//valobs:observe         on a field: rewrite it into accessors
//	//valobs:ignore          on a field: leave it alone
//	//valobs:readonly        on a field: a stored constant, never observed
//	//valobs:default <expr>  on a field: its initial value in New<T>
//
// For each template the package extracts ir.Declarations (with member type
// capabilities from go/types when available), runs the engine, and splices
// the rendered accessors and support members into a copy of the template.
// The copy is written next to the template with the build constraint
// negated, so exactly one of the two files is compiled in any build.
//
// Code in a template is written against the generated API: a field Count
// is read as m.Count() and assigned with m.SetCount(v).
package gosrc
