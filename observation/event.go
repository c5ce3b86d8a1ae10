package observation

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// EventKind distinguishes registrar signals.
type EventKind int

const (
	EventAccess EventKind = iota
	EventWillSet
	EventDidSet
)

var eventKindNames = map[EventKind]string{
	EventAccess:  "access",
	EventWillSet: "will_set",
	EventDidSet:  "did_set",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k EventKind) MarshalText() ([]byte, error) {
	name, ok := eventKindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown event kind %d", int(k))
	}
	return []byte(name), nil
}

// Event is one registrar signal.
type Event struct {
	Kind EventKind `json:"kind"`
	// Subject is the identity of the record the member belongs to.
	Subject uuid.UUID `json:"subject"`
	// Key names the member.
	Key string `json:"key"`
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Kind, e.Key)
}

// Recorder collects events. Its Record method is an observer.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Record appends e.
func (r *Recorder) Record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Mutations returns the keys of recorded DidSet events in order.
func (r *Recorder) Mutations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var keys []string
	for _, e := range r.events {
		if e.Kind == EventDidSet {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Reset discards recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
