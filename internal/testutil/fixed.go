package testutil

import "github.com/google/uuid"

// FixedIDGenerator returns the same identity every time. Two values built
// from it share an identity, which is how tests reach the identity
// short-circuit of a write path.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id uuid.UUID
}

// NewFixedIDGenerator parses s as the fixed identity. An empty s selects
// SequentialID(1).
func NewFixedIDGenerator(s string) (*FixedIDGenerator, error) {
	if s == "" {
		return &FixedIDGenerator{id: SequentialID(1)}, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &FixedIDGenerator{id: id}, nil
}

// Generate returns the fixed identity.
func (g *FixedIDGenerator) Generate() uuid.UUID {
	return g.id
}
