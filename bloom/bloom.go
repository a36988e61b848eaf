// Package bloom implements a double-hashed Bloom filter over a fixed-size
// bit array, sized optimally for an expected cardinality and target
// false-positive rate.
package bloom

import (
	"fmt"
	"math"
	"reflect"

	"setindex/bitset"
	"setindex/decompose"
	"setindex/digest"
	"setindex/internal/metrics"
	"setindex/internal/seterr"
	"setindex/sink"
)

// Filter is a Bloom filter over byte-sliceable items of type T.
//
// No false negatives: once Add(x) returns, Contains(x) is guaranteed true.
// Contains(y) may be true for y that was never added (a false positive) at
// a rate that approaches the configured false-positive probability as the
// filter fills to its expected cardinality.
type Filter[T any] struct {
	bits *bitset.BitArray
	m    uint64
	k    uint64
	n    uint64 // expected insertions, for FPR estimation only

	hash    digest.Hash64
	decomp  decompose.Decomposer[T]
	metrics metrics.Recorder
}

// Option configures a Filter at construction.
type Option[T any] func(*Filter[T])

// WithHash overrides the default 64-bit hash (digest.XXHash64).
func WithHash[T any](h digest.Hash64) Option[T] {
	return func(f *Filter[T]) { f.hash = h }
}

// WithDecomposer overrides the default textual decomposer for T.
func WithDecomposer[T any](d decompose.Decomposer[T]) Option[T] {
	return func(f *Filter[T]) { f.decomp = d }
}

// WithMetrics attaches a metrics.Recorder; operations report bit-fill ratio
// after every Add.
func WithMetrics[T any](r metrics.Recorder) Option[T] {
	return func(f *Filter[T]) { f.metrics = r }
}

// New constructs a Bloom filter sized for expectedInsertions items at
// falsePositiveRate, using the standard optimal sizing formulas:
//
//	m = floor(-n * ln(p) / (ln 2)^2)
//	k = max(1, round((m/n) * ln 2))
func New[T any](expectedInsertions uint64, falsePositiveRate float64, opts ...Option[T]) (*Filter[T], error) {
	if expectedInsertions == 0 {
		return nil, seterr.Invalid("bloom.New", "expectedInsertions must be >= 1")
	}
	if !(falsePositiveRate > 0 && falsePositiveRate < 1) {
		return nil, seterr.Invalid("bloom.New", "falsePositiveRate must be in (0,1)")
	}

	n := float64(expectedInsertions)
	m := uint64(math.Floor(-n * math.Log(falsePositiveRate) / (math.Ln2 * math.Ln2)))
	if m == 0 {
		m = 1
	}
	k := uint64(math.Round((float64(m) / n) * math.Ln2))
	if k < 1 {
		k = 1
	}

	f := &Filter[T]{
		bits:    bitset.New(m),
		m:       m,
		k:       k,
		n:       expectedInsertions,
		hash:    digest.XXHash64{},
		metrics: metrics.Noop{},
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.decomp == nil {
		f.decomp = defaultDecomposer[T]()
	}
	return f, nil
}

// defaultDecomposer textifies T under a fixed (UTF-8) encoding via fmt,
// unless T is itself a string-kinded type (the common case, handled without
// reflection).
func defaultDecomposer[T any]() decompose.Decomposer[T] {
	return func(v T, s *sink.ByteSink) {
		switch val := any(v).(type) {
		case []byte:
			s.PutBytes(val)
		case string:
			s.PutString(val)
		case decompose.Decomposable:
			val.Decompose(s)
		default:
			s.PutString(fmt.Sprintf("%v", v))
		}
	}
}

// M returns the bit array size.
func (f *Filter[T]) M() uint64 { return f.m }

// K returns the number of hash functions (index derivations per item).
func (f *Filter[T]) K() uint64 { return f.k }

// indices derives the k candidate bit positions for bytes using the "less
// hashing" double-hashing technique: g_i = h1 + i*h2 mod m, for i in
// 1..=k, where h1/h2 are the low/high 32 bits of one 64-bit digest.
func (f *Filter[T]) indices(b []byte) []uint64 {
	h := f.hash.Sum64(b)
	h1 := uint32(h)
	h2 := uint32(h >> 32)

	out := make([]uint64, f.k)
	for i := uint64(1); i <= f.k; i++ {
		g := h1 + uint32(i)*h2 // unsigned 32-bit arithmetic; never goes negative
		out[i-1] = uint64(g) % f.m
	}
	return out
}

// AddBytes sets all k derived indices for b, and reports whether any bit
// transitioned 0->1.
func (f *Filter[T]) AddBytes(b []byte) (bool, error) {
	if b == nil {
		return false, seterr.Invalid("bloom.Add", "byte slice must not be nil")
	}
	changed := false
	for _, idx := range f.indices(b) {
		if f.bits.SetBit(idx) {
			changed = true
		}
	}
	f.metrics.SetGauge("bloom.fill_ratio", float32(f.bits.PopCount())/float32(f.m))
	return changed, nil
}

// ContainsBytes reports whether all k derived indices for b are set.
func (f *Filter[T]) ContainsBytes(b []byte) (bool, error) {
	if b == nil {
		return false, seterr.Invalid("bloom.Contains", "byte slice must not be nil")
	}
	for _, idx := range f.indices(b) {
		if !f.bits.GetBit(idx) {
			return false, nil
		}
	}
	return true, nil
}

// Add decomposes value through the configured decomposer and sets its k
// indices. A nil/absent value is a no-op that returns false.
func (f *Filter[T]) Add(value T) bool {
	if isNilValue(value) {
		return false
	}
	s := sink.New(32)
	f.decomp(value, s)
	changed, _ := f.AddBytes(s.IntoBytes())
	f.metrics.IncrCounter("bloom.add", 1)
	return changed
}

// Contains reports whether value might be present.
func (f *Filter[T]) Contains(value T) bool {
	if isNilValue(value) {
		return false
	}
	s := sink.New(32)
	f.decomp(value, s)
	ok, _ := f.ContainsBytes(s.IntoBytes())
	return ok
}

// EstimatedFalsePositiveRate estimates the current false-positive rate
// given addedCount items inserted so far, following the standard
// (1 - e^(-k*n/m))^k formula.
func (f *Filter[T]) EstimatedFalsePositiveRate(addedCount uint64) float64 {
	if f.m == 0 {
		return 1
	}
	exp := -float64(f.k) * float64(addedCount) / float64(f.m)
	return math.Pow(1-math.Exp(exp), float64(f.k))
}

// isNilValue reports whether v is a nil/absent value that Add must treat
// as a no-op: a nil pointer, slice, map, or interface. Value types
// (numbers, plain strings, structs) are never nil.
func isNilValue[T any](v T) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return true // nil interface value
	}
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
