package compiler

import "github.com/roach88/valobs/internal/ir"

// Names are the identifiers given to synthesized support members. Hosts that
// render code read them back from the expansion, so they must be valid
// identifiers in the host language.
type Names struct {
	Identity     string
	Registrar    string
	Copy         string
	Access       string
	WithMutation string
	ShouldNotify string
}

// DefaultNames returns the names the Go host renders.
func DefaultNames() Names {
	return Names{
		Identity:     "obsID",
		Registrar:    "obsRegistrar",
		Copy:         "Copy",
		Access:       "access",
		WithMutation: "withMutation",
		ShouldNotify: "shouldNotifyObservers",
	}
}

var shouldNotifySuffix = map[ir.ComparisonVariant]string{
	ir.CompareEquatableIdentity: "EquatableIdentity",
	ir.CompareIdentity:          "Identity",
	ir.CompareEquatable:         "Equatable",
	ir.CompareAlways:            "",
}

// ShouldNotifyFor returns the helper name of one comparison variant.
func (n Names) ShouldNotifyFor(v ir.ComparisonVariant) string {
	return n.ShouldNotify + shouldNotifySuffix[v]
}

// Options configure one engine invocation.
type Options struct {
	// DirectiveName is the record-level directive as users spell it. It is
	// quoted verbatim in diagnostics.
	DirectiveName string
	// Capability is the observable-value capability named by the conformance.
	Capability string
	Names      Names
}

// DefaultOptions returns options matching the Go host's defaults.
func DefaultOptions() Options {
	return Options{
		DirectiveName: "//valobs:observable",
		Capability:    "observation.ObservableValue",
		Names:         DefaultNames(),
	}
}
