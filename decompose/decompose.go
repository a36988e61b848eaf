// Package decompose turns arbitrary items into the canonical byte slices the
// Bloom and Cuckoo filters hash. Dispatch is static: callers pick a
// Decomposer at construction time rather than resolving capability through
// a runtime-reflected interface check.
package decompose

import "setindex/sink"

// Decomposer converts a value of type T into bytes, deterministically:
// equal inputs must yield byte-identical output.
type Decomposer[T any] func(v T, s *sink.ByteSink)

// Decomposable is a capability interface for types that can render
// themselves. ForDecomposable turns it into a Decomposer, and the Bloom and
// Cuckoo filters' default decomposers call Decompose for values that
// implement it; a Decomposer supplied to a filter with WithDecomposer is
// used for every value, whether or not it implements Decomposable.
type Decomposable interface {
	Decompose(s *sink.ByteSink)
}

// Bytes decomposes a value already in byte-slice form. This is the identity
// case used directly by Add(bytes)/Contains(bytes) call sites.
func Bytes(v []byte, s *sink.ByteSink) {
	s.PutBytes(v)
}

// String is the default textual decomposer: UTF-8 encode the value's
// string representation.
func String[T ~string](v T, s *sink.ByteSink) {
	s.PutString(string(v))
}

// For resolves the decomposer to use for a value of type T, honoring the
// precedence order: self-decomposable > supplied > default.
//
// Since Go generics cannot conditionally dispatch on whether T implements
// Decomposable at compile time without a type switch, callers that want
// self-decomposition supply ForDecomposable as their decomposer explicitly;
// For itself picks between a supplied decomposer and the fallback.
func For[T any](supplied Decomposer[T], fallback Decomposer[T]) Decomposer[T] {
	if supplied != nil {
		return supplied
	}
	return fallback
}

// ForDecomposable adapts any Decomposable-implementing type into a
// Decomposer, giving self-decomposable items priority over a default or
// supplied decomposer when a caller opts in.
func ForDecomposable[T Decomposable]() Decomposer[T] {
	return func(v T, s *sink.ByteSink) {
		v.Decompose(s)
	}
}
