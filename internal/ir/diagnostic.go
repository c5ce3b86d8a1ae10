package ir

import "fmt"

// Severity of a diagnostic. Only SeverityError is produced today.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

var severityNames = map[Severity]string{
	SeverityError:   "error",
	SeverityWarning: "warning",
	SeverityNote:    "note",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	name, ok := severityNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown severity %d", int(s))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	for sev, name := range severityNames {
		if name == string(text) {
			*s = sev
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", string(text))
}

// Diagnostic is a positioned message produced by one transformation.
type Diagnostic struct {
	Code     string   `json:"code" yaml:"code"`
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
	Pos      Position `json:"pos" yaml:"pos"`
}

// Error implements the error interface so a diagnostic can travel as an error.
func (d Diagnostic) Error() string {
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s: %s: %s [%s]", d.Pos, d.Severity, d.Message, d.Code)
	}
	return fmt.Sprintf("%s: %s [%s]", d.Severity, d.Message, d.Code)
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
