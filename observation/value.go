package observation

import "github.com/google/uuid"

// ObservableValue is implemented by every record valobs augments.
type ObservableValue interface {
	ObservationID() uuid.UUID
}

// NewID returns a fresh identity.
func NewID() uuid.UUID {
	return uuid.New()
}

// IsObservable reports whether v carries an observation identity.
func IsObservable(v any) bool {
	_, ok := v.(ObservableValue)
	return ok
}

// SameIdentity reports whether lhs and rhs are both observable values with
// the same identity. The nil UUID belongs to zero-value records that were
// never constructed and never matches.
func SameIdentity(lhs, rhs any) bool {
	o, ok := lhs.(ObservableValue)
	if !ok {
		return false
	}
	n, ok := rhs.(ObservableValue)
	if !ok {
		return false
	}
	id := o.ObservationID()
	return id != uuid.Nil && id == n.ObservationID()
}
