package gosrc

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"github.com/roach88/valobs/internal/ir"
)

// Host diagnostic codes (W300-W399). The engine's own codes live in the
// compiler package.
const (
	WarnUnknownDirective = "W301"
	WarnEmbeddedObserve  = "W302"
)

// target is one type declaration selected for transformation.
type target struct {
	decl ir.Declaration
	// standalone targets are structs without the record directive whose
	// fields carry observe directives. They supply access and withMutation
	// themselves.
	standalone bool

	genDecl    *ast.GenDecl
	spec       *ast.TypeSpec
	structType *ast.StructType
	idents     map[string]*ast.Ident
	directive  *ast.Comment
	// fieldDirectives are consumed when the type is rewritten.
	fieldDirectives []*ast.Comment

	typeParams string
	typeArgs   string
}

type extraction struct {
	targets []*target
	// strays are observe directives on package-level variables.
	strays      []*ast.Comment
	diagnostics []ir.Diagnostic
}

type extractor struct {
	f        *File
	prefix   string
	resolver *capabilityResolver
	methods  map[string][]*ast.FuncDecl
	consts   map[string][]*ast.Ident
	out      extraction
}

func extract(f *File, prefix string) extraction {
	observable := f.Observable
	if observable == nil {
		observable = observableTypes(f.AST, prefix)
	}
	x := &extractor{
		f:        f,
		prefix:   prefix,
		resolver: &capabilityResolver{info: f.Info, pkg: f.Pkg, observable: observable},
		methods:  map[string][]*ast.FuncDecl{},
		consts:   map[string][]*ast.Ident{},
	}
	x.index()

	for _, d := range f.AST.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok {
			continue
		}
		switch gd.Tok {
		case token.TYPE:
			for _, s := range gd.Specs {
				x.typeSpec(gd, s.(*ast.TypeSpec))
			}
		case token.VAR:
			for _, s := range gd.Specs {
				dirs := x.directives(specDocs(gd, s.(*ast.ValueSpec).Doc)...)
				if d, ok := findDirective(dirs, DirObserve); ok {
					x.out.strays = append(x.out.strays, d.Comment)
				}
			}
		}
	}
	return x.out
}

// index collects methods by receiver type and typed constants by type.
func (x *extractor) index() {
	for _, d := range x.f.AST.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			if name := receiverTypeName(d); name != "" {
				x.methods[name] = append(x.methods[name], d)
			}
		case *ast.GenDecl:
			if d.Tok != token.CONST {
				continue
			}
			var current string
			for _, s := range d.Specs {
				vs := s.(*ast.ValueSpec)
				switch {
				case vs.Type != nil:
					current = ""
					if id, ok := vs.Type.(*ast.Ident); ok {
						current = id.Name
					}
				case len(vs.Values) > 0:
					current = ""
				}
				if current != "" {
					x.consts[current] = append(x.consts[current], vs.Names...)
				}
			}
		}
	}
}

func receiverTypeName(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return ""
	}
	expr := fd.Recv.List[0].Type
	for {
		switch e := expr.(type) {
		case *ast.StarExpr:
			expr = e.X
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		case *ast.ParenExpr:
			expr = e.X
		case *ast.Ident:
			return e.Name
		default:
			return ""
		}
	}
}

// directives parses the prefix directives in groups and warns about
// unknown names.
func (x *extractor) directives(groups ...*ast.CommentGroup) []directive {
	dirs := parseDirectives(x.prefix, groups...)
	for _, d := range dirs {
		if !knownDirectives[d.Name] {
			x.warn(WarnUnknownDirective, d.Pos(), fmt.Sprintf("unknown directive '//%s:%s'", x.prefix, d.Name))
		}
	}
	return dirs
}

func (x *extractor) warn(code string, pos token.Pos, msg string) {
	x.out.diagnostics = append(x.out.diagnostics, ir.Diagnostic{
		Code:     code,
		Severity: ir.SeverityWarning,
		Message:  msg,
		Pos:      x.f.position(pos),
	})
}

func (x *extractor) typeSpec(gd *ast.GenDecl, spec *ast.TypeSpec) {
	dirs := x.directives(specDocs(gd, spec.Doc)...)
	record, isRecord := findDirective(dirs, DirObservable)

	t := &target{
		genDecl: gd,
		spec:    spec,
		idents:  map[string]*ast.Ident{},
		decl: ir.Declaration{
			Kind: x.kindOf(spec),
			Name: spec.Name.Name,
			Pos:  x.f.position(spec.Pos()),
		},
	}
	if isRecord {
		t.directive = record.Comment
		t.decl.Pos = x.f.position(record.Pos())
	}
	if spec.TypeParams != nil {
		t.typeParams = x.f.text(spec.TypeParams)
		var names []string
		for _, field := range spec.TypeParams.List {
			for _, n := range field.Names {
				names = append(names, n.Name)
			}
		}
		t.typeArgs = "[" + strings.Join(names, ", ") + "]"
	}

	observed := false
	if st, ok := spec.Type.(*ast.StructType); ok && !spec.Assign.IsValid() {
		t.structType = st
		observed = x.structMembers(t, st)
	} else {
		for _, id := range x.consts[spec.Name.Name] {
			t.decl.Members = append(t.decl.Members, ir.Member{
				Name:    id.Name,
				Type:    ir.TypeRef{Expr: spec.Name.Name},
				Storage: ir.StoredConstant,
				Pos:     x.f.position(id.Pos()),
			})
		}
	}
	for _, fd := range x.methods[spec.Name.Name] {
		m := ir.Member{Name: fd.Name.Name, Storage: ir.Computed, Pos: x.f.position(fd.Name.Pos())}
		if res := fd.Type.Results; res != nil && len(res.List) == 1 && len(res.List[0].Names) == 0 {
			m.Type.Expr = x.f.text(res.List[0].Type)
		}
		t.decl.Members = append(t.decl.Members, m)
	}

	switch {
	case isRecord:
		x.out.targets = append(x.out.targets, t)
	case observed:
		t.standalone = true
		x.out.targets = append(x.out.targets, t)
	}
}

func (x *extractor) kindOf(spec *ast.TypeSpec) ir.DeclKind {
	if spec.Assign.IsValid() {
		return ir.KindOther
	}
	switch spec.Type.(type) {
	case *ast.StructType:
		return ir.KindStruct
	case *ast.InterfaceType:
		return ir.KindInterface
	}
	if len(x.consts[spec.Name.Name]) > 0 {
		return ir.KindEnumeration
	}
	return ir.KindOther
}

// structMembers appends one member per named field and reports whether any
// field carries an observe directive.
func (x *extractor) structMembers(t *target, st *ast.StructType) bool {
	observed := false
	for _, field := range st.Fields.List {
		dirs := x.directives(field.Doc, field.Comment)
		for _, d := range dirs {
			t.fieldDirectives = append(t.fieldDirectives, d.Comment)
		}
		m := ir.Member{
			Type:    ir.TypeRef{Expr: x.f.text(field.Type), Capabilities: x.resolver.resolve(field.Type)},
			Storage: ir.StoredWithInitializer,
		}
		if _, ok := findDirective(dirs, DirReadonly); ok {
			m.Storage = ir.StoredConstant
		}
		if d, ok := findDirective(dirs, DirDefault); ok {
			m.Initializer = d.Arg
		}
		obs, hasObserve := findDirective(dirs, DirObserve)
		if _, ok := findDirective(dirs, DirIgnore); ok {
			m.Directive = ir.DirectiveIgnoring
		} else if hasObserve {
			m.Directive = ir.DirectiveObserving
		}

		if len(field.Names) == 0 {
			// Embedded fields cannot be renamed into a private slot.
			m.Name = embeddedName(field.Type)
			m.Storage = ir.StoredConstant
			if m.Directive == ir.DirectiveObserving {
				x.warn(WarnEmbeddedObserve, obs.Pos(), fmt.Sprintf("embedded field '%s' cannot be observed", m.Name))
				m.Directive = ir.DirectiveNone
			}
			m.Pos = x.f.position(field.Type.Pos())
			t.decl.Members = append(t.decl.Members, m)
			continue
		}

		if m.Directive == ir.DirectiveObserving {
			observed = true
		}
		for _, n := range field.Names {
			if n.Name == "_" {
				continue
			}
			nm := m
			nm.Name = n.Name
			nm.Pos = x.f.position(n.Pos())
			t.idents[n.Name] = n
			t.decl.Members = append(t.decl.Members, nm)
		}
	}
	return observed
}

func embeddedName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.StarExpr:
		return embeddedName(e.X)
	case *ast.SelectorExpr:
		return e.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(e.X)
	case *ast.IndexListExpr:
		return embeddedName(e.X)
	case *ast.Ident:
		return e.Name
	}
	return ""
}
