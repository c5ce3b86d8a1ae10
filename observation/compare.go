package observation

// The ShouldNotify functions back the generated per-declaration helpers. Each
// reports whether assigning rhs over lhs is a change observers must hear
// about.

// ShouldNotify is the fallback for types with no computable equivalence.
func ShouldNotify[T any](lhs, rhs T) bool {
	return true
}

// ShouldNotifyEquatable compares by value.
func ShouldNotifyEquatable[T comparable](lhs, rhs T) bool {
	return lhs != rhs
}

// ShouldNotifyEqual compares with the type's Equal method.
func ShouldNotifyEqual[T interface{ Equal(T) bool }](lhs, rhs T) bool {
	return !lhs.Equal(rhs)
}

// ShouldNotifyIdentity compares pointers by address.
func ShouldNotifyIdentity[T any](lhs, rhs *T) bool {
	return lhs != rhs
}

// ShouldNotifyEquatableIdentity compares references with their Equal method.
// Two nil references are equal; nil and non-nil are not.
func ShouldNotifyEquatableIdentity[P interface {
	comparable
	Equal(P) bool
}](lhs, rhs P) bool {
	var zero P
	if lhs == zero || rhs == zero {
		return lhs != rhs
	}
	return !lhs.Equal(rhs)
}
