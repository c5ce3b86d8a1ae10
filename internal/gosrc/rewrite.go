package gosrc

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/format"
	"go/parser"
	"go/token"
	"sort"
	"strings"

	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/imports"
)

// GeneratedHeader marks output files.
const GeneratedHeader = "// Code generated by valobs. DO NOT EDIT."

// edit replaces src[start:end] with text.
type edit struct {
	start, end int
	text       string
}

// applyEdits applies non-overlapping edits back to front so earlier offsets
// stay valid.
func applyEdits(src []byte, edits []edit) ([]byte, error) {
	sorted := append([]edit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].start == sorted[j].start {
			return sorted[i].end > sorted[j].end
		}
		return sorted[i].start > sorted[j].start
	})

	out := append([]byte(nil), src...)
	limit := len(out)
	for _, e := range sorted {
		if e.start < 0 || e.end < e.start || e.end > limit {
			return nil, fmt.Errorf("edit [%d,%d) out of range or overlapping", e.start, e.end)
		}
		suffix := append([]byte(nil), out[e.end:]...)
		out = append(append(out[:e.start], e.text...), suffix...)
		limit = e.start
	}
	return out, nil
}

// removeLine returns an edit deleting a comment. When the comment is alone
// on its line the whole line goes, so doc comments stay attached.
func removeLine(src []byte, start, end int) edit {
	lineStart := bytes.LastIndexByte(src[:start], '\n') + 1
	lineEnd := end
	if i := bytes.IndexByte(src[end:], '\n'); i >= 0 {
		lineEnd = end + i + 1
	} else {
		lineEnd = len(src)
	}
	before := strings.TrimSpace(string(src[lineStart:start]))
	after := strings.TrimSpace(string(src[end:lineEnd]))
	if before == "" && after == "" {
		return edit{start: lineStart, end: lineEnd}
	}
	return edit{start: start, end: end}
}

// constraintEdits negates the template build tag and prepends the generated
// header.
func constraintEdits(f *File, tag string) ([]edit, error) {
	edits := []edit{{start: 0, end: 0, text: GeneratedHeader + "\n\n"}}
	for _, g := range f.AST.Comments {
		if g.Pos() >= f.AST.Package {
			break
		}
		for _, c := range g.List {
			if constraint.IsPlusBuild(c.Text) {
				edits = append(edits, removeLine(f.Src, f.offset(c.Slash), f.offset(c.End())))
				continue
			}
			if !constraint.IsGoBuild(c.Text) {
				continue
			}
			expr, err := constraint.Parse(c.Text)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.Path, err)
			}
			edits = append(edits, edit{
				start: f.offset(c.Slash),
				end:   f.offset(c.End()),
				text:  "//go:build " + negateTag(expr, tag).String(),
			})
		}
	}
	return edits, nil
}

// negateTag replaces every occurrence of tag with !tag.
func negateTag(expr constraint.Expr, tag string) constraint.Expr {
	switch e := expr.(type) {
	case *constraint.TagExpr:
		if e.Tag == tag {
			return &constraint.NotExpr{X: e}
		}
		return e
	case *constraint.NotExpr:
		if t, ok := e.X.(*constraint.TagExpr); ok && t.Tag == tag {
			return t
		}
		return &constraint.NotExpr{X: negateTag(e.X, tag)}
	case *constraint.AndExpr:
		return &constraint.AndExpr{X: negateTag(e.X, tag), Y: negateTag(e.Y, tag)}
	case *constraint.OrExpr:
		return &constraint.OrExpr{X: negateTag(e.X, tag), Y: negateTag(e.Y, tag)}
	}
	return expr
}

// recordEdits renames observed fields into their slots, appends support
// fields to the struct and inserts the rendered methods after the type
// declaration.
func recordEdits(f *File, t *target, storage map[string]string, fields, methods string, dropDirective bool) []edit {
	var edits []edit
	for member, slot := range storage {
		id := t.idents[member]
		if id == nil {
			continue
		}
		edits = append(edits, edit{start: f.offset(id.Pos()), end: f.offset(id.End()), text: slot})
	}
	if fields != "" && t.structType != nil {
		closing := f.offset(t.structType.Fields.Closing)
		edits = append(edits, edit{start: closing, end: closing, text: fields})
	}
	if methods != "" {
		end := f.offset(t.genDecl.End())
		edits = append(edits, edit{start: end, end: end, text: "\n" + methods})
	}
	if dropDirective && t.directive != nil {
		edits = append(edits, removeLine(f.Src, f.offset(t.directive.Slash), f.offset(t.directive.End())))
	}
	for _, c := range t.fieldDirectives {
		edits = append(edits, removeLine(f.Src, f.offset(c.Slash), f.offset(c.End())))
	}
	return edits
}

// finish adds the imports generated code needs and formats the result.
func finish(path string, src []byte, needUUID, needObservation bool) ([]byte, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("generated code for %s does not parse: %w", path, err)
	}
	if needUUID {
		astutil.AddImport(fset, file, uuidImport)
	}
	if needObservation {
		astutil.AddImport(fset, file, observationImport)
	}
	ast.SortImports(fset, file)

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, fmt.Errorf("format %s: %w", path, err)
	}
	out, err := imports.Process(path, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("imports %s: %w", path, err)
	}
	return out, nil
}
