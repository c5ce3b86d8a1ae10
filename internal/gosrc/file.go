package gosrc

import (
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"

	"github.com/roach88/valobs/internal/ir"
)

// File is one parsed template.
type File struct {
	Path string
	Src  []byte
	Fset *token.FileSet
	AST  *ast.File

	// Info and Pkg are nil when the file was not type-checked; capabilities
	// then come from the syntactic fallback.
	Info *types.Info
	Pkg  *types.Package

	// Observable lists record-directive types across the whole package.
	Observable map[string]bool
}

// ParseFile parses src as a template without type information.
func ParseFile(path string, src []byte) (*File, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &File{Path: path, Src: src, Fset: fset, AST: f}, nil
}

// TypeCheck fills Info and Pkg by checking the file on its own. Errors are
// tolerated: templates reference accessors that only exist once generated,
// and sibling files of the package are not loaded.
func (f *File) TypeCheck() {
	info := &types.Info{
		Types: make(map[ast.Expr]types.TypeAndValue),
		Defs:  make(map[*ast.Ident]types.Object),
		Uses:  make(map[*ast.Ident]types.Object),
	}
	conf := types.Config{
		Importer: importer.ForCompiler(f.Fset, "source", nil),
		Error:    func(error) {},
	}
	pkg, _ := conf.Check(f.AST.Name.Name, f.Fset, []*ast.File{f.AST}, info)
	f.Info = info
	f.Pkg = pkg
}

func (f *File) offset(pos token.Pos) int {
	return f.Fset.File(pos).Offset(pos)
}

func (f *File) text(n ast.Node) string {
	return string(f.Src[f.offset(n.Pos()):f.offset(n.End())])
}

func (f *File) position(pos token.Pos) ir.Position {
	if !pos.IsValid() {
		return ir.Position{}
	}
	p := f.Fset.Position(pos)
	return ir.Position{File: f.Path, Line: p.Line, Column: p.Column, Offset: p.Offset}
}

// observableTypes returns the names of types in f carrying the record
// directive.
func observableTypes(f *ast.File, prefix string) map[string]bool {
	out := map[string]bool{}
	for _, d := range f.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, s := range gd.Specs {
			spec := s.(*ast.TypeSpec)
			if _, ok := findDirective(parseDirectives(prefix, specDocs(gd, spec.Doc)...), DirObservable); ok {
				out[spec.Name.Name] = true
			}
		}
	}
	return out
}

// specDocs returns the comment groups documenting a spec. An ungrouped
// declaration keeps its doc on the GenDecl.
func specDocs(gd *ast.GenDecl, doc *ast.CommentGroup) []*ast.CommentGroup {
	if gd.Lparen.IsValid() {
		return []*ast.CommentGroup{doc}
	}
	return []*ast.CommentGroup{gd.Doc, doc}
}
