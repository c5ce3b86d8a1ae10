package testutil

import (
	"encoding/binary"
	"sync"

	"github.com/google/uuid"
)

// SequentialID returns the identity whose low eight bytes hold n.
// SequentialID(1) is 00000000-0000-0000-0000-000000000001.
func SequentialID(n int64) uuid.UUID {
	var id uuid.UUID
	binary.BigEndian.PutUint64(id[8:], uint64(n))
	return id
}

// IDSequence hands out SequentialID values starting at 1.
//
// Unlike observation.NewID, an IDSequence can be reset, so the same test
// produces identical event subjects on every run.
//
// Thread-safety: All methods are safe for concurrent use.
type IDSequence struct {
	mu  sync.Mutex
	seq int64
}

// NewIDSequence creates a sequence whose first Next returns SequentialID(1).
func NewIDSequence() *IDSequence {
	return &IDSequence{}
}

// Next advances the sequence and returns its identity.
func (s *IDSequence) Next() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return SequentialID(s.seq)
}

// Current returns how many identities have been handed out.
func (s *IDSequence) Current() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Reset rewinds the sequence. The next call to Next returns SequentialID(1).
func (s *IDSequence) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = 0
}
