package testutil

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequentialID(t *testing.T) {
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", SequentialID(1).String())
	assert.Equal(t, "00000000-0000-0000-0000-0000000000ff", SequentialID(255).String())
	assert.Equal(t, uuid.Nil, SequentialID(0))
}

func TestIDSequence_NextAndReset(t *testing.T) {
	seq := NewIDSequence()
	assert.Equal(t, int64(0), seq.Current())

	assert.Equal(t, SequentialID(1), seq.Next())
	assert.Equal(t, SequentialID(2), seq.Next())
	assert.Equal(t, int64(2), seq.Current())

	seq.Reset()
	assert.Equal(t, int64(0), seq.Current())
	assert.Equal(t, SequentialID(1), seq.Next())
}

func TestIDSequence_ThreadSafe(t *testing.T) {
	seq := NewIDSequence()
	const numGoroutines = 50
	const callsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	results := make([][]uuid.UUID, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		results[i] = make([]uuid.UUID, callsPerGoroutine)
		go func(idx int) {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				results[idx][j] = seq.Next()
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[uuid.UUID]bool)
	for _, ids := range results {
		for _, id := range ids {
			require.False(t, seen[id], "duplicate identity %s", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, numGoroutines*callsPerGoroutine)
	assert.Equal(t, int64(numGoroutines*callsPerGoroutine), seq.Current())
}

func TestFixedIDGenerator(t *testing.T) {
	gen, err := NewFixedIDGenerator("")
	require.NoError(t, err)
	assert.Equal(t, SequentialID(1), gen.Generate())
	assert.Equal(t, gen.Generate(), gen.Generate())

	gen, err = NewFixedIDGenerator("01234567-89ab-cdef-0123-456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, "01234567-89ab-cdef-0123-456789abcdef", gen.Generate().String())

	_, err = NewFixedIDGenerator("not-a-uuid")
	assert.Error(t, err)
}
