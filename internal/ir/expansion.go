package ir

import "fmt"

// Classification is the treatment the classifier assigns to a member.
type Classification int

const (
	Ignored Classification = iota
	ExplicitlyObserving
	DefaultObserving
)

var classificationNames = map[Classification]string{
	Ignored:             "ignored",
	ExplicitlyObserving: "explicitly_observing",
	DefaultObserving:    "default_observing",
}

func (c Classification) String() string {
	if name, ok := classificationNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Classification(%d)", int(c))
}

// Observed reports whether the member receives an accessor rewrite.
func (c Classification) Observed() bool {
	return c == ExplicitlyObserving || c == DefaultObserving
}

// MarshalText implements encoding.TextMarshaler.
func (c Classification) MarshalText() ([]byte, error) {
	name, ok := classificationNames[c]
	if !ok {
		return nil, fmt.Errorf("unknown classification %d", int(c))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Classification) UnmarshalText(text []byte) error {
	for value, name := range classificationNames {
		if name == string(text) {
			*c = value
			return nil
		}
	}
	return fmt.Errorf("unknown classification %q", string(text))
}

// ComparisonVariant selects how the write path decides whether a new value
// is a notifiable change. Declared in precedence order, most specific first.
type ComparisonVariant int

const (
	// CompareEquatableIdentity: equality and reference identity; value inequality wins.
	CompareEquatableIdentity ComparisonVariant = iota
	// CompareIdentity: reference inequality.
	CompareIdentity
	// CompareEquatable: value inequality.
	CompareEquatable
	// CompareAlways: no equivalence is computable, always notify.
	CompareAlways
)

var comparisonNames = map[ComparisonVariant]string{
	CompareEquatableIdentity: "equatable_identity",
	CompareIdentity:          "identity",
	CompareEquatable:         "equatable",
	CompareAlways:            "always",
}

// ComparisonVariants lists every variant in precedence order.
var ComparisonVariants = []ComparisonVariant{
	CompareEquatableIdentity,
	CompareIdentity,
	CompareEquatable,
	CompareAlways,
}

func (v ComparisonVariant) String() string {
	if name, ok := comparisonNames[v]; ok {
		return name
	}
	return fmt.Sprintf("ComparisonVariant(%d)", int(v))
}

// MarshalText implements encoding.TextMarshaler.
func (v ComparisonVariant) MarshalText() ([]byte, error) {
	name, ok := comparisonNames[v]
	if !ok {
		return nil, fmt.Errorf("unknown comparison variant %d", int(v))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *ComparisonVariant) UnmarshalText(text []byte) error {
	for value, name := range comparisonNames {
		if name == string(text) {
			*v = value
			return nil
		}
	}
	return fmt.Errorf("unknown comparison variant %q", string(text))
}

// InitPath assigns the private slot once, at construction.
type InitPath struct {
	Storage string `json:"storage"`
	// Value is the initializer expression; empty means the zero value.
	Value string `json:"value,omitempty"`
	// Restricted is always true: the initializer touches only the slot.
	Restricted bool `json:"restricted"`
}

// ReadPath records an access event and returns the slot.
type ReadPath struct {
	AccessKey string `json:"access_key"`
	Storage   string `json:"storage"`
}

// WriteStep is one stage of the write path decision tree.
type WriteStep int

const (
	// WriteIdentityShortCircuit assigns silently when old and new are
	// observable values carrying the same identity.
	WriteIdentityShortCircuit WriteStep = iota
	// WriteComparisonShortCircuit assigns silently when the comparison
	// variant reports no change.
	WriteComparisonShortCircuit
	// WriteMutationBracket assigns inside withMutation.
	WriteMutationBracket
)

var writeStepNames = map[WriteStep]string{
	WriteIdentityShortCircuit:   "identity_short_circuit",
	WriteComparisonShortCircuit: "comparison_short_circuit",
	WriteMutationBracket:        "mutation_bracket",
}

func (s WriteStep) String() string {
	if name, ok := writeStepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("WriteStep(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s WriteStep) MarshalText() ([]byte, error) {
	name, ok := writeStepNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown write step %d", int(s))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *WriteStep) UnmarshalText(text []byte) error {
	for value, name := range writeStepNames {
		if name == string(text) {
			*s = value
			return nil
		}
	}
	return fmt.Errorf("unknown write step %q", string(text))
}

// WritePath is the ordered decision tree for assignments.
type WritePath struct {
	MutationKey string            `json:"mutation_key"`
	Storage     string            `json:"storage"`
	Comparison  ComparisonVariant `json:"comparison"`
	Steps       []WriteStep       `json:"steps"`
}

// ModifyPath yields the slot for in-place mutation.
type ModifyPath struct {
	AccessKey string `json:"access_key"`
	Storage   string `json:"storage"`
	// ObservablePassthrough yields without a bracket when the stored value
	// reports its own mutations.
	ObservablePassthrough bool `json:"observable_passthrough"`
	// Bracket wraps the yield in willSet/didSet for every other value. It is
	// unconditional: no post-mutation value exists before yielding.
	Bracket bool `json:"bracket"`
}

// Accessor is the computed-accessor rewrite of one observed member.
type Accessor struct {
	Member     string            `json:"member"`
	Storage    string            `json:"storage"`
	Type       TypeRef           `json:"type"`
	Comparison ComparisonVariant `json:"comparison"`
	Init       InitPath          `json:"init"`
	Read       ReadPath          `json:"read"`
	Write      WritePath         `json:"write"`
	Modify     ModifyPath        `json:"modify"`
}

// MemberExpansion is the outcome for one input member.
type MemberExpansion struct {
	Member         Member         `json:"member"`
	Classification Classification `json:"classification"`
	// ImplicitDirective is set when the augmenter attached an Observing
	// directive the source did not carry.
	ImplicitDirective bool `json:"implicit_directive,omitempty"`
	// Accessor is nil for members that pass through untouched.
	Accessor *Accessor `json:"accessor,omitempty"`
}

// SupportKind identifies a synthesized record-level member.
type SupportKind int

const (
	SupportIdentity SupportKind = iota
	SupportRegistrar
	SupportCopy
	SupportAccess
	SupportWithMutation
	SupportShouldNotify
)

var supportKindNames = map[SupportKind]string{
	SupportIdentity:     "identity",
	SupportRegistrar:    "registrar",
	SupportCopy:         "copy",
	SupportAccess:       "access",
	SupportWithMutation: "with_mutation",
	SupportShouldNotify: "should_notify",
}

func (k SupportKind) String() string {
	if name, ok := supportKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("SupportKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k SupportKind) MarshalText() ([]byte, error) {
	name, ok := supportKindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown support kind %d", int(k))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SupportKind) UnmarshalText(text []byte) error {
	for kind, name := range supportKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown support kind %q", string(text))
}

// Visibility of a synthesized member.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityInternal Visibility = "internal"
	VisibilityPrivate  Visibility = "private"
	// VisibilityPublicReadPrivateWrite is readable by anyone, assignable only
	// by the declaration itself.
	VisibilityPublicReadPrivateWrite Visibility = "public_read_private_write"
)

// SupportMember is one synthesized record-level member.
type SupportMember struct {
	Kind       SupportKind `json:"kind"`
	Name       string      `json:"name"`
	Visibility Visibility  `json:"visibility"`
	// Ignored marks support storage that must never be observed itself.
	Ignored bool `json:"ignored,omitempty"`
	// Variant is set for SupportShouldNotify members.
	Variant *ComparisonVariant `json:"variant,omitempty"`
}

// Conformance attaches a declaration to the observable-value capability.
type Conformance struct {
	Declaration string `json:"declaration"`
	Capability  string `json:"capability"`
}

// Expansion is the full result of transforming one declaration.
type Expansion struct {
	Declaration string            `json:"declaration"`
	Kind        DeclKind          `json:"kind"`
	Members     []MemberExpansion `json:"members"`
	Support     []SupportMember   `json:"support"`
	Conformance *Conformance      `json:"conformance,omitempty"`
	Diagnostics []Diagnostic      `json:"diagnostics"`
}

// Failed reports whether the expansion carries an error diagnostic.
func (e *Expansion) Failed() bool {
	return HasErrors(e.Diagnostics)
}

// Accessors returns the accessor rewrites in member order.
func (e *Expansion) Accessors() []Accessor {
	var out []Accessor
	for _, m := range e.Members {
		if m.Accessor != nil {
			out = append(out, *m.Accessor)
		}
	}
	return out
}

// SupportOf returns the support members of the given kind.
func (e *Expansion) SupportOf(kind SupportKind) []SupportMember {
	var out []SupportMember
	for _, s := range e.Support {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}
