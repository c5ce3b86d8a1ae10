package observation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/valobs/internal/testutil"
)

func TestRegistrarNilSafe(t *testing.T) {
	var r *Registrar
	assert.NotPanics(t, func() {
		r.Access(uuid.Nil, "x")
		r.WillSet(uuid.Nil, "x")
		r.DidSet(uuid.Nil, "x")
		r.Observe(func(Event) {})()
	})
	assert.Equal(t, 0, r.Len())

	ran := false
	r.WithMutation(uuid.Nil, "x", func() { ran = true })
	assert.True(t, ran)
}

func TestRegistrarDispatch(t *testing.T) {
	r := NewRegistrar()
	var rec Recorder
	cancel := r.Observe(rec.Record)
	id := testutil.SequentialID(1)

	r.Access(id, "a")
	r.WithMutation(id, "b", func() {})

	assert.Equal(t, []Event{
		{Kind: EventAccess, Subject: id, Key: "a"},
		{Kind: EventWillSet, Subject: id, Key: "b"},
		{Kind: EventDidSet, Subject: id, Key: "b"},
	}, rec.Events())
	assert.Equal(t, []string{"b"}, rec.Mutations())

	cancel()
	cancel()
	rec.Reset()
	r.Access(id, "a")
	assert.Empty(t, rec.Events())
	assert.Equal(t, 0, r.Len())
}

func TestRegistrarObserversInRegistrationOrder(t *testing.T) {
	r := NewRegistrar()
	var order []int
	for i := range 5 {
		r.Observe(func(Event) { order = append(order, i) })
	}
	r.Access(uuid.Nil, "k")
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestRegistrarWithMutationDidSetOnPanic(t *testing.T) {
	r := NewRegistrar()
	var rec Recorder
	r.Observe(rec.Record)

	require.Panics(t, func() {
		r.WithMutation(uuid.Nil, "k", func() { panic("boom") })
	})
	assert.Equal(t, []string{"k"}, rec.Mutations())
}

func TestRegistrarReentrantObserver(t *testing.T) {
	r := NewRegistrar()
	var rec Recorder
	// An observer that reads and registers from inside dispatch must not
	// deadlock.
	r.Observe(func(e Event) {
		if e.Kind == EventDidSet {
			r.Access(e.Subject, e.Key)
			r.Observe(rec.Record)
		}
	})

	r.WithMutation(uuid.Nil, "k", func() {})
	assert.Equal(t, 2, r.Len())
}

func TestEventKindText(t *testing.T) {
	text, err := EventDidSet.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "did_set", string(text))
	assert.Equal(t, "will_set k", Event{Kind: EventWillSet, Key: "k"}.String())
}

func TestRegistrarSubjectsDistinguishRecords(t *testing.T) {
	r := NewRegistrar()
	var rec Recorder
	r.Observe(rec.Record)
	ids := testutil.NewIDSequence()

	first, second := ids.Next(), ids.Next()
	r.WithMutation(first, "a", func() {})
	r.WithMutation(second, "a", func() {})

	events := rec.Events()
	require.Len(t, events, 4)
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", events[0].Subject.String())
	assert.Equal(t, "00000000-0000-0000-0000-000000000002", events[3].Subject.String())
	assert.Equal(t, []string{"a", "a"}, rec.Mutations())
}
