package ir

import (
	"fmt"
)

// DeclKind is the kind of declaration a record-level directive is attached to.
type DeclKind int

const (
	// KindStruct is a record-like declaration with per-instance stored state.
	KindStruct DeclKind = iota
	// KindEnumeration is a sum-type declaration (a named type with typed constants).
	KindEnumeration
	// KindInterface is an interface declaration.
	KindInterface
	// KindOther is any other named type.
	KindOther
)

var declKindNames = map[DeclKind]string{
	KindStruct:      "struct",
	KindEnumeration: "enumeration",
	KindInterface:   "interface",
	KindOther:       "type",
}

func (k DeclKind) String() string {
	if s, ok := declKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("DeclKind(%d)", int(k))
}

// IsRecord reports whether the kind supports independent per-instance stored
// state and value-copy semantics.
func (k DeclKind) IsRecord() bool {
	return k == KindStruct
}

// MarshalText implements encoding.TextMarshaler.
func (k DeclKind) MarshalText() ([]byte, error) {
	s, ok := declKindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown declaration kind %d", int(k))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *DeclKind) UnmarshalText(text []byte) error {
	for kind, name := range declKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown declaration kind %q", string(text))
}

// StorageForm describes how a member holds its value.
type StorageForm int

const (
	// StoredWithInitializer is mutable stored state with an initial value.
	// In Go every field qualifies: the zero value is its implicit initializer.
	StoredWithInitializer StorageForm = iota
	// StoredConstant is stored state that is never reassigned.
	StoredConstant
	// Computed has no storage of its own.
	Computed
)

var storageFormNames = map[StorageForm]string{
	StoredWithInitializer: "stored",
	StoredConstant:        "constant",
	Computed:              "computed",
}

func (s StorageForm) String() string {
	if name, ok := storageFormNames[s]; ok {
		return name
	}
	return fmt.Sprintf("StorageForm(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s StorageForm) MarshalText() ([]byte, error) {
	name, ok := storageFormNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown storage form %d", int(s))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *StorageForm) UnmarshalText(text []byte) error {
	for form, name := range storageFormNames {
		if name == string(text) {
			*s = form
			return nil
		}
	}
	return fmt.Errorf("unknown storage form %q", string(text))
}

// Directive is the per-member annotation selecting a transformation rule.
type Directive int

const (
	DirectiveNone Directive = iota
	DirectiveIgnoring
	DirectiveObserving
)

var directiveNames = map[Directive]string{
	DirectiveNone:      "none",
	DirectiveIgnoring:  "ignoring",
	DirectiveObserving: "observing",
}

func (d Directive) String() string {
	if name, ok := directiveNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Directive(%d)", int(d))
}

// MarshalText implements encoding.TextMarshaler.
func (d Directive) MarshalText() ([]byte, error) {
	name, ok := directiveNames[d]
	if !ok {
		return nil, fmt.Errorf("unknown directive %d", int(d))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// An empty string decodes as DirectiveNone.
func (d *Directive) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = DirectiveNone
		return nil
	}
	for directive, name := range directiveNames {
		if name == string(text) {
			*d = directive
			return nil
		}
	}
	return fmt.Errorf("unknown directive %q", string(text))
}

// TypeCapabilities are the facets of a member type the engine queries.
// They are resolved by the host; the engine never inspects the type itself.
type TypeCapabilities struct {
	// Observable is set when the type conforms to the observable-value capability.
	Observable bool `json:"observable" yaml:"observable"`
	// Equatable is set when values of the type can be compared for equality.
	Equatable bool `json:"equatable" yaml:"equatable"`
	// Reference is set when the type has reference identity.
	Reference bool `json:"reference" yaml:"reference"`
	// EqualMethod tells a host renderer that equality is spelled as an
	// Equal method rather than an operator. It does not affect selection.
	EqualMethod bool `json:"equal_method,omitempty" yaml:"equal_method,omitempty"`
}

// TypeRef is a member's declared type as written in source, plus its capabilities.
type TypeRef struct {
	Expr         string           `json:"expr" yaml:"expr"`
	Capabilities TypeCapabilities `json:"capabilities" yaml:"capabilities"`
}

// Position is a source location. Line and Column are 1-based.
type Position struct {
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
	Offset int    `json:"offset,omitempty" yaml:"offset,omitempty"`
}

// IsValid reports whether the position carries a line.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	switch {
	case !p.IsValid():
		return "-"
	case p.File == "":
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	default:
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
}

// Member is one property of a Declaration.
type Member struct {
	Name      string      `json:"name" yaml:"name"`
	Type      TypeRef     `json:"type" yaml:"type"`
	Storage   StorageForm `json:"storage" yaml:"storage"`
	Directive Directive   `json:"directive" yaml:"directive,omitempty"`
	// Initializer is the initial value expression. Empty means the type's
	// zero value.
	Initializer string   `json:"initializer,omitempty" yaml:"initializer,omitempty"`
	Pos         Position `json:"pos" yaml:"pos,omitempty"`
}

// Declaration is the aggregate a record-level directive is attached to.
type Declaration struct {
	Kind DeclKind `json:"kind" yaml:"kind"`
	Name string   `json:"name" yaml:"name"`
	// Pos is the attachment point of the record-level directive.
	Pos     Position `json:"pos" yaml:"pos,omitempty"`
	Members []Member `json:"members" yaml:"members"`
}

// Member returns the member with the given name.
func (d *Declaration) Member(name string) (Member, bool) {
	for _, m := range d.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}
