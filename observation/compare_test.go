package observation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type version struct{ major, minor int }

func (v *version) Equal(o *version) bool {
	return v.major == o.major && v.minor == o.minor
}

func TestShouldNotifyAlways(t *testing.T) {
	f := func() {}
	assert.True(t, ShouldNotify(f, f))
	assert.True(t, ShouldNotify([]int{1}, []int{1}))
}

func TestShouldNotifyEquatable(t *testing.T) {
	assert.False(t, ShouldNotifyEquatable(3, 3))
	assert.True(t, ShouldNotifyEquatable(3, 4))
	assert.False(t, ShouldNotifyEquatable("a", "a"))
}

func TestShouldNotifyEqual(t *testing.T) {
	now := time.Now()
	// Same instant, different location: == says changed, Equal says not.
	assert.False(t, ShouldNotifyEqual(now, now.UTC()))
	assert.True(t, ShouldNotifyEqual(now, now.Add(time.Second)))
}

func TestShouldNotifyIdentity(t *testing.T) {
	a, b := &version{1, 0}, &version{1, 0}
	assert.False(t, ShouldNotifyIdentity(a, a))
	assert.True(t, ShouldNotifyIdentity(a, b))
}

func TestShouldNotifyEquatableIdentity(t *testing.T) {
	a, b := &version{1, 0}, &version{1, 0}
	c := &version{2, 0}

	// Value equality wins over reference inequality.
	assert.False(t, ShouldNotifyEquatableIdentity(a, b))
	assert.True(t, ShouldNotifyEquatableIdentity(a, c))
	assert.False(t, ShouldNotifyEquatableIdentity[*version](nil, nil))
	assert.True(t, ShouldNotifyEquatableIdentity(nil, a))
	assert.True(t, ShouldNotifyEquatableIdentity(a, nil))
}

func TestShouldNotifyReflexive(t *testing.T) {
	v := &version{1, 2}
	assert.False(t, ShouldNotifyEquatableIdentity(v, v))
	assert.False(t, ShouldNotifyIdentity(v, v))
	assert.False(t, ShouldNotifyEquatable(v, v))
}
