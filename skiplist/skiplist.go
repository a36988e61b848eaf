// Package skiplist implements a lazy, optimistic, fine-grained-locking
// concurrent ordered set (the Herlihy et al. "lazy list" skip list).
// Nodes publish atomically only after every forward link is installed;
// removal is a two-phase mark-then-unlink protocol.
//
// The concurrency idiom — sync.Mutex per mutable unit, atomic flags for
// cross-goroutine visibility, optimistic retry until validation succeeds — follows the
// Herlihy et al. lazy-list algorithm directly, expressed with per-item
// locking plus atomic counters.
package skiplist

import (
	"context"
	"crypto/rand"
	"math"
	"runtime"
	"sync/atomic"

	"setindex/internal/metrics"
)

// Less reports whether a sorts before b. The skip list never assumes a
// zero value is meaningful; head/tail sentinels are distinguished by flags,
// not by sentinel key values.
type Less[K any] func(a, b K) bool

// SkipList is a concurrent ordered set of keys of type K, each carrying an
// optional value of type V.
type SkipList[K any, V any] struct {
	less     Less[K]
	maxLevel int
	head     *node[K, V]
	tail     *node[K, V]

	size    atomic.Int64
	retries atomic.Int64
	metrics metrics.Recorder
}

// Option configures a SkipList at construction.
type Option[K any, V any] func(*SkipList[K, V])

func WithMetrics[K any, V any](r metrics.Recorder) Option[K, V] {
	return func(s *SkipList[K, V]) { s.metrics = r }
}

// New constructs a SkipList sized for maxElements, with
// max_level = floor(log_{1/p}(max_elements)), p = 0.5.
func New[K any, V any](maxElements uint64, less Less[K], opts ...Option[K, V]) *SkipList[K, V] {
	maxLevel := 1
	if maxElements > 1 {
		maxLevel = int(math.Floor(math.Log2(float64(maxElements))))
	}
	if maxLevel < 1 {
		maxLevel = 1
	}

	sl := &SkipList[K, V]{
		less:     less,
		maxLevel: maxLevel,
		head:     newSentinel[K, V](maxLevel, true),
		tail:     newSentinel[K, V](maxLevel, false),
		metrics:  metrics.Noop{},
	}
	for i := 0; i <= maxLevel; i++ {
		sl.head.next[i] = sl.tail
	}
	for _, opt := range opts {
		opt(sl)
	}
	return sl
}

// cmp orders n against key, treating head as -infinity and tail as
// +infinity regardless of the zero value of K.
func (s *SkipList[K, V]) cmp(n *node[K, V], key K) int {
	if n.isHead {
		return -1
	}
	if n.isTail {
		return 1
	}
	if s.less(n.key, key) {
		return -1
	}
	if s.less(key, n.key) {
		return 1
	}
	return 0
}

// randomLevel draws from a geometric distribution with p=0.5, capped at
// maxLevel. Expected level is 1.
func (s *SkipList[K, V]) randomLevel() int {
	level := 0
	for level < s.maxLevel && coinHeads() {
		level++
	}
	return level
}

func coinHeads() bool {
	var b [1]byte
	rand.Read(b[:])
	return b[0]&1 == 1
}

// find walks top-down from head, filling preds/succs (each allocated with
// exactly maxLevel+1 slots before this runs) and returns the highest level
// at which succs[level] has key equal to key, or -1 if no such level
// exists. find is read-only and lock-free.
func (s *SkipList[K, V]) find(key K, preds, succs []*node[K, V]) int {
	foundLevel := -1
	prev := s.head
	for level := s.maxLevel; level >= 0; level-- {
		curr := prev.next[level]
		for s.cmp(curr, key) < 0 {
			prev = curr
			curr = prev.next[level]
		}
		if foundLevel == -1 && s.cmp(curr, key) == 0 {
			foundLevel = level
		}
		preds[level] = prev
		succs[level] = curr
	}
	return foundLevel
}

// Add inserts key/value, returning false if key is already present.
func (s *SkipList[K, V]) Add(key K, value V) bool {
	topLevel := s.randomLevel()
	preds := make([]*node[K, V], s.maxLevel+1)
	succs := make([]*node[K, V], s.maxLevel+1)

	for {
		lFound := s.find(key, preds, succs)
		if lFound != -1 {
			found := succs[lFound]
			if !found.marked.Load() {
				for !found.fullyLinked.Load() {
					// spin until the concurrent add that is publishing
					// this node finishes
					runtime.Gosched()
				}
				return false
			}
			continue // found was marked for removal; retry the search
		}

		valid := true
		locked := make([]*node[K, V], 0, topLevel+1)
		seen := make(map[*node[K, V]]bool, topLevel+1)

		for level := 0; valid && level <= topLevel; level++ {
			pred := preds[level]
			if !seen[pred] {
				pred.lock()
				locked = append(locked, pred)
				seen[pred] = true
			}
			valid = !pred.marked.Load() && pred.next[level] == succs[level]
		}

		if !valid {
			unlockAll(locked)
			s.retries.Add(1)
			s.metrics.IncrCounter("skiplist.add_retry", 1)
			continue
		}

		newN := newNode[K, V](key, value, topLevel)
		for level := 0; level <= topLevel; level++ {
			newN.next[level] = succs[level]
		}
		// Splice from level 0 upward, so the node is reachable at the
		// bottom level before any higher-level pointer links to it.
		for level := 0; level <= topLevel; level++ {
			preds[level].next[level] = newN
		}
		newN.fullyLinked.Store(true) // publication point

		unlockAll(locked)
		s.size.Add(1)
		s.metrics.IncrCounter("skiplist.add", 1)
		return true
	}
}

// Remove deletes key, returning false if key is absent. Uses the two-phase
// mark-then-unlink protocol.
func (s *SkipList[K, V]) Remove(key K) bool {
	var victim *node[K, V]
	isMarked := false
	topLevel := -1

	preds := make([]*node[K, V], s.maxLevel+1)
	succs := make([]*node[K, V], s.maxLevel+1)

	for {
		lFound := s.find(key, preds, succs)

		if !isMarked {
			if lFound == -1 {
				return false
			}
			candidate := succs[lFound]
			if !(candidate.fullyLinked.Load() && candidate.topLevel == lFound && !candidate.marked.Load()) {
				return false
			}
			victim = candidate
			topLevel = victim.topLevel
			victim.lock()
			if victim.marked.Load() {
				victim.unlock()
				return false
			}
			victim.marked.Store(true)
			isMarked = true
		}

		// The victim is logically gone from here on; retry predecessor
		// acquisition/unlink until it succeeds. A marked-but-linked victim
		// must never be left behind.
		valid := true
		locked := make([]*node[K, V], 0, topLevel+1)
		seen := make(map[*node[K, V]]bool, topLevel+1)

		for level := 0; valid && level <= topLevel; level++ {
			pred := preds[level]
			if !seen[pred] {
				pred.lock()
				locked = append(locked, pred)
				seen[pred] = true
			}
			valid = !pred.marked.Load() && pred.next[level] == victim
		}

		if !valid {
			unlockAll(locked)
			s.retries.Add(1)
			s.metrics.IncrCounter("skiplist.remove_retry", 1)
			continue
		}

		// Unlink top-down, so higher levels lose the node before level 0
		// does.
		for level := topLevel; level >= 0; level-- {
			preds[level].next[level] = victim.next[level]
		}
		victim.unlock()
		unlockAll(locked)
		s.size.Add(-1)
		s.metrics.IncrCounter("skiplist.remove", 1)
		return true
	}
}

// Search reports whether key is logically present: fully linked and not
// marked.
func (s *SkipList[K, V]) Search(key K) bool {
	preds := make([]*node[K, V], s.maxLevel+1)
	succs := make([]*node[K, V], s.maxLevel+1)
	lFound := s.find(key, preds, succs)
	if lFound == -1 {
		return false
	}
	n := succs[lFound]
	return n.fullyLinked.Load() && !n.marked.Load()
}

// Get reports the value stored for key and whether key is present.
func (s *SkipList[K, V]) Get(key K) (V, bool) {
	preds := make([]*node[K, V], s.maxLevel+1)
	succs := make([]*node[K, V], s.maxLevel+1)
	lFound := s.find(key, preds, succs)
	if lFound == -1 {
		var zero V
		return zero, false
	}
	n := succs[lFound]
	if !n.fullyLinked.Load() || n.marked.Load() {
		var zero V
		return zero, false
	}
	return n.value, true
}

// Range returns the keys in [lo, hi], walking level 0 without taking any
// locks. Concurrent mutation may cause a
// concurrently-mutating key to be included or omitted; any key present and
// unmutated for the whole scan window is guaranteed included. Nodes marked
// but not yet unlinked are filtered out.
func (s *SkipList[K, V]) Range(lo, hi K) []K {
	if s.less(hi, lo) {
		return nil
	}

	prev := s.head
	for level := s.maxLevel; level >= 0; level-- {
		curr := prev.next[level]
		for s.cmp(curr, lo) < 0 {
			prev = curr
			curr = prev.next[level]
		}
	}

	var out []K
	curr := prev.next[0]
	for !curr.isTail && s.cmp(curr, hi) <= 0 {
		if s.cmp(curr, lo) >= 0 && curr.fullyLinked.Load() && !curr.marked.Load() {
			out = append(out, curr.key)
		}
		curr = curr.next[0]
	}
	return out
}

// Len returns an approximate, lock-free element count.
func (s *SkipList[K, V]) Len() int64 {
	return s.size.Load()
}

// Keys returns every logically-present key in ascending order, by walking
// level 0 start to finish. Useful for quiescent-state assertions.
func (s *SkipList[K, V]) Keys() []K {
	var out []K
	curr := s.head.next[0]
	for !curr.isTail {
		if curr.fullyLinked.Load() && !curr.marked.Load() {
			out = append(out, curr.key)
		}
		curr = curr.next[0]
	}
	return out
}

// IsSorted reports whether Keys() is strictly increasing, a direct check of
// the ordering invariant.
func (s *SkipList[K, V]) IsSorted() bool {
	keys := s.Keys()
	for i := 1; i < len(keys); i++ {
		if !s.less(keys[i-1], keys[i]) {
			return false
		}
	}
	return true
}

func unlockAll[K any, V any](nodes []*node[K, V]) {
	for _, n := range nodes {
		n.unlock()
	}
}

// RetriesHint exposes the contended-retry counter for observability.
func (s *SkipList[K, V]) RetriesHint(_ context.Context) int64 {
	return s.retries.Load()
}
