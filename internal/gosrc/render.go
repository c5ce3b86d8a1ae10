package gosrc

import (
	"bytes"
	"fmt"
	"go/ast"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/roach88/valobs/internal/compiler"
	"github.com/roach88/valobs/internal/ir"
)

// Import paths referenced by generated code.
const (
	uuidImport        = "github.com/google/uuid"
	observationImport = "github.com/roach88/valobs/observation"
)

var runtimeCompare = map[ir.ComparisonVariant]string{
	ir.CompareAlways:            "observation.ShouldNotify",
	ir.CompareEquatable:         "observation.ShouldNotifyEquatable",
	ir.CompareIdentity:          "observation.ShouldNotifyIdentity",
	ir.CompareEquatableIdentity: "observation.ShouldNotifyEquatableIdentity",
}

// helperSignatures are the type parameter list and operand type of each
// per-declaration comparison helper.
var helperSignatures = map[ir.ComparisonVariant][2]string{
	ir.CompareAlways:            {"V any", "V"},
	ir.CompareEquatable:         {"V comparable", "V"},
	ir.CompareIdentity:          {"V any", "*V"},
	ir.CompareEquatableIdentity: {"V interface {\n\tcomparable\n\tEqual(V) bool\n}", "V"},
}

type recordView struct {
	Name       string
	TypeParams string
	Recv       string
	R          string
	Names      compiler.Names
	Inits      []initView
	Helpers    []helperView
	Accessors  []accessorView
}

type initView struct {
	Field string
	Value string
}

type helperView struct {
	Name       string
	TypeParams string
	Operand    string
	Call       string
}

type accessorView struct {
	Member   string
	Storage  string
	Type     string
	Getter   string
	Setter   string
	Modifier string
	Compare  string
}

var tmpl = template.Must(template.New("valobs").Parse(`
{{- define "record"}}
// New{{.Name}} returns a {{.Name}} with its initial values and a fresh identity.
func New{{.Name}}{{.TypeParams}}() {{.Recv}} {
	return {{.Recv}}{
{{- range .Inits}}
		{{.Field}}: {{.Value}},
{{- end}}
		{{.Names.Identity}}: observation.NewID(),
		{{.Names.Registrar}}: observation.NewRegistrar(),
	}
}

// ObservationID returns the identity of this value.
func ({{.R}} {{.Recv}}) ObservationID() uuid.UUID {
	return {{.R}}.{{.Names.Identity}}
}

// {{.Names.Copy}} returns a duplicate with a fresh identity and registrar.
// Observers of the receiver never see mutations of the copy.
func ({{.R}} {{.Recv}}) {{.Names.Copy}}() {{.Recv}} {
	cp := {{.R}}
	cp.{{.Names.Identity}} = observation.NewID()
	cp.{{.Names.Registrar}} = observation.NewRegistrar()
	return cp
}

// Observe registers fn for access and mutation events on this value.
func ({{.R}} *{{.Recv}}) Observe(fn func(observation.Event)) (cancel func()) {
	if {{.R}}.{{.Names.Registrar}} == nil {
		{{.R}}.{{.Names.Registrar}} = observation.NewRegistrar()
	}
	if {{.R}}.{{.Names.Identity}} == uuid.Nil {
		{{.R}}.{{.Names.Identity}} = observation.NewID()
	}
	return {{.R}}.{{.Names.Registrar}}.Observe(fn)
}

func ({{.R}} *{{.Recv}}) {{.Names.Access}}(key string) {
	{{.R}}.{{.Names.Registrar}}.Access({{.R}}.{{.Names.Identity}}, key)
}

func ({{.R}} *{{.Recv}}) {{.Names.WithMutation}}(key string, mutation func()) {
	{{.R}}.{{.Names.Registrar}}.WithMutation({{.R}}.{{.Names.Identity}}, key, mutation)
}
{{- range .Helpers}}

func {{.Name}}[{{.TypeParams}}](lhs, rhs {{.Operand}}) bool {
	return {{.Call}}(lhs, rhs)
}
{{- end}}
{{- template "accessors" .}}
{{- end}}

{{- define "accessors"}}
{{- $r := .R}}{{$recv := .Recv}}{{$names := .Names}}
{{- range .Accessors}}

func ({{$r}} *{{$recv}}) {{.Getter}}() {{.Type}} {
	{{$r}}.{{$names.Access}}("{{.Member}}")
	return {{$r}}.{{.Storage}}
}

func ({{$r}} *{{$recv}}) {{.Setter}}(value {{.Type}}) {
	if observation.SameIdentity({{$r}}.{{.Storage}}, value) {
		{{$r}}.{{.Storage}} = value
		return
	}
	if !{{.Compare}}({{$r}}.{{.Storage}}, value) {
		{{$r}}.{{.Storage}} = value
		return
	}
	{{$r}}.{{$names.WithMutation}}("{{.Member}}", func() {
		{{$r}}.{{.Storage}} = value
	})
}

func ({{$r}} *{{$recv}}) {{.Modifier}}(fn func(*{{.Type}})) {
	{{$r}}.{{$names.Access}}("{{.Member}}")
	if observation.IsObservable({{$r}}.{{.Storage}}) {
		fn(&{{$r}}.{{.Storage}})
		return
	}
	{{$r}}.{{$names.WithMutation}}("{{.Member}}", func() {
		fn(&{{$r}}.{{.Storage}})
	})
}
{{- end}}
{{- end}}
`))

// renderRecord renders the support members and accessors of an augmented
// record.
func renderRecord(f *File, t *target, exp *ir.Expansion, names compiler.Names) (string, error) {
	v := newView(f, t, names)
	v.Helpers = helperViews(t.decl.Name, exp)
	helperFor := map[ir.ComparisonVariant]string{}
	for _, h := range exp.SupportOf(ir.SupportShouldNotify) {
		helperFor[*h.Variant] = helperName(t.decl.Name, h.Name)
	}

	for _, me := range exp.Members {
		switch {
		case me.Accessor != nil:
			v.Accessors = append(v.Accessors, newAccessorView(*me.Accessor, helperFor))
			if me.Accessor.Init.Value != "" {
				v.Inits = append(v.Inits, initView{Field: me.Accessor.Storage, Value: me.Accessor.Init.Value})
			}
		case me.Member.Initializer != "" && me.Member.Storage != ir.Computed && t.idents[me.Member.Name] != nil:
			v.Inits = append(v.Inits, initView{Field: me.Member.Name, Value: me.Member.Initializer})
		}
	}
	return execute("record", v)
}

// renderStandalone renders accessors only; the enclosing type provides the
// access and mutation helpers.
func renderStandalone(f *File, t *target, members []ir.MemberExpansion, names compiler.Names) (string, error) {
	v := newView(f, t, names)
	for _, me := range members {
		if me.Accessor != nil {
			v.Accessors = append(v.Accessors, newAccessorView(*me.Accessor, nil))
		}
	}
	return execute("accessors", v)
}

func execute(name string, v recordView) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, v); err != nil {
		return "", fmt.Errorf("render %s: %w", v.Name, err)
	}
	return buf.String(), nil
}

func newView(f *File, t *target, names compiler.Names) recordView {
	return recordView{
		Name:       t.decl.Name,
		TypeParams: t.typeParams,
		Recv:       t.decl.Name + t.typeArgs,
		R:          receiverName(f, t.decl.Name),
		Names:      names,
	}
}

func helperViews(declName string, exp *ir.Expansion) []helperView {
	var out []helperView
	for _, s := range exp.SupportOf(ir.SupportShouldNotify) {
		sig := helperSignatures[*s.Variant]
		out = append(out, helperView{
			Name:       helperName(declName, s.Name),
			TypeParams: sig[0],
			Operand:    sig[1],
			Call:       runtimeCompare[*s.Variant],
		})
	}
	return out
}

// helperName scopes a comparison helper to its declaration, since Go
// helpers are package-level functions.
func helperName(declName, helper string) string {
	return lowerFirst(declName) + upperFirst(helper)
}

func newAccessorView(acc ir.Accessor, helperFor map[ir.ComparisonVariant]string) accessorView {
	return accessorView{
		Member:   acc.Member,
		Storage:  acc.Storage,
		Type:     acc.Type.Expr,
		Getter:   acc.Member,
		Setter:   methodName("Set", acc.Member),
		Modifier: methodName("Modify", acc.Member),
		Compare:  compareCall(acc, helperFor),
	}
}

// compareCall picks the function deciding whether a write notifies. Types
// with an Equal method compare with it in preference to ==.
func compareCall(acc ir.Accessor, helperFor map[ir.ComparisonVariant]string) string {
	if acc.Comparison == ir.CompareEquatable && acc.Type.Capabilities.EqualMethod {
		return "observation.ShouldNotifyEqual"
	}
	if name, ok := helperFor[acc.Comparison]; ok {
		return name
	}
	return runtimeCompare[acc.Comparison]
}

// methodName keeps the member's visibility: Count gets SetCount, count gets
// setCount.
func methodName(verb, member string) string {
	if ast.IsExported(member) {
		return verb + member
	}
	return strings.ToLower(verb) + upperFirst(member)
}

var reservedReceivers = map[string]bool{
	"value": true, "fn": true, "key": true, "mutation": true, "cp": true,
	"lhs": true, "rhs": true, "observation": true, "uuid": true, "_": true,
}

// receiverName reuses the receiver name of an existing method on the type,
// falling back to the type's lowercased initial.
func receiverName(f *File, typeName string) string {
	for _, d := range f.AST.Decls {
		fd, ok := d.(*ast.FuncDecl)
		if !ok || receiverTypeName(fd) != typeName {
			continue
		}
		if names := fd.Recv.List[0].Names; len(names) > 0 && !reservedReceivers[names[0].Name] {
			return names[0].Name
		}
	}
	r, _ := utf8.DecodeRuneInString(typeName)
	name := string(unicode.ToLower(r))
	if reservedReceivers[name] {
		return "rcv"
	}
	return name
}

func upperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[n:]
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[n:]
}
