package observation

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Registrar delivers access and mutation signals to observers of one record
// instance. All methods are safe on a nil *Registrar, which has no observers.
type Registrar struct {
	mu        sync.Mutex
	nextID    uint64
	observers map[uint64]func(Event)
}

// NewRegistrar returns an empty registrar.
func NewRegistrar() *Registrar {
	return &Registrar{}
}

// Observe registers fn and returns a function that removes it.
func (r *Registrar) Observe(fn func(Event)) (cancel func()) {
	if r == nil || fn == nil {
		return func() {}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.observers == nil {
		r.observers = make(map[uint64]func(Event))
	}
	id := r.nextID
	r.nextID++
	r.observers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.observers, id)
		})
	}
}

// Len returns the number of registered observers.
func (r *Registrar) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.observers)
}

// Access signals a read of key on subject.
func (r *Registrar) Access(subject uuid.UUID, key string) {
	r.emit(Event{Kind: EventAccess, Subject: subject, Key: key})
}

// WillSet signals that key on subject is about to change.
func (r *Registrar) WillSet(subject uuid.UUID, key string) {
	r.emit(Event{Kind: EventWillSet, Subject: subject, Key: key})
}

// DidSet signals that key on subject changed.
func (r *Registrar) DidSet(subject uuid.UUID, key string) {
	r.emit(Event{Kind: EventDidSet, Subject: subject, Key: key})
}

// WithMutation runs mutation between WillSet and DidSet. DidSet fires on
// every exit from mutation, including a panic.
func (r *Registrar) WithMutation(subject uuid.UUID, key string, mutation func()) {
	r.WillSet(subject, key)
	defer r.DidSet(subject, key)
	mutation()
}

// emit dispatches outside the lock so observers may read or mutate the
// record they observe.
func (r *Registrar) emit(e Event) {
	if r == nil {
		return
	}
	r.mu.Lock()
	if len(r.observers) == 0 {
		r.mu.Unlock()
		return
	}
	ids := make([]uint64, 0, len(r.observers))
	for id := range r.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, r.observers[id])
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
