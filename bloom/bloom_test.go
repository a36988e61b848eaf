package bloom_test

import (
	"fmt"
	"math/rand"
	"testing"

	"setindex/bloom"
)

func TestNewRejectsInvalidArguments(t *testing.T) {
	if _, err := bloom.New[string](0, 0.01); err == nil {
		t.Fatalf("expected error for expectedInsertions = 0")
	}
	if _, err := bloom.New[string](100, 0); err == nil {
		t.Fatalf("expected error for falsePositiveRate = 0")
	}
	if _, err := bloom.New[string](100, 1); err == nil {
		t.Fatalf("expected error for falsePositiveRate = 1")
	}
}

func TestDeterminism(t *testing.T) {
	f, err := bloom.New[string](1000, 0.01)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.Add("apple")
	f.Add("banana")
	if !f.Contains("apple") || !f.Contains("banana") {
		t.Fatalf("filter must contain items just added")
	}
}

func TestNoFalseNegatives(t *testing.T) {
	f, err := bloom.New[string](10000, 0.01)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := rand.New(rand.NewSource(1))
	inserted := make([]string, 0, 1000)
	for i := 0; i < 1000; i++ {
		s := fmt.Sprintf("item-%d-%d", i, r.Int63())
		f.Add(s)
		inserted = append(inserted, s)
	}
	for _, s := range inserted {
		if !f.Contains(s) {
			t.Fatalf("false negative for %q: no-false-negatives invariant violated", s)
		}
	}
}

func TestFalsePositiveRateBound(t *testing.T) {
	const n = 1000
	const p = 0.01
	f, err := bloom.New[string](n, p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < n; i++ {
		f.Add(fmt.Sprintf("member-%d", i))
	}

	r := rand.New(rand.NewSource(2))
	trials := 10 * n
	falsePositives := 0
	for i := 0; i < trials; i++ {
		s := fmt.Sprintf("nonmember-%d-%d", i, r.Int63())
		if f.Contains(s) {
			falsePositives++
		}
	}
	rate := float64(falsePositives) / float64(trials)
	if rate > 2*p {
		t.Fatalf("observed FPR %.4f exceeds loose bound 2p = %.4f", rate, 2*p)
	}
}

func TestBloomSizing1MOver001(t *testing.T) {
	f, err := bloom.New[string](1_000_000, 0.01)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if f.M() == 0 || f.K() == 0 {
		t.Fatalf("sizing produced m=%d k=%d, both must be >= 1", f.M(), f.K())
	}
	// m = floor(-n ln(p) / (ln2)^2) for n=1e6, p=0.01 is ~9.58M bits.
	if f.M() < 9_000_000 || f.M() > 10_000_000 {
		t.Fatalf("m = %d, expected roughly 9.6M bits for n=1e6, p=0.01", f.M())
	}
}

func TestAddNoOpOnNilSlice(t *testing.T) {
	f, err := bloom.New[[]byte](100, 0.01)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if f.Add(nil) {
		t.Fatalf("Add(nil) should be a no-op returning false")
	}
	if f.Contains(nil) {
		t.Fatalf("Contains(nil) should be false")
	}
}

func TestEstimatedFalsePositiveRateMonotonic(t *testing.T) {
	f, err := bloom.New[string](1000, 0.01)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	early := f.EstimatedFalsePositiveRate(10)
	late := f.EstimatedFalsePositiveRate(900)
	if late <= early {
		t.Fatalf("estimated FPR should increase as more items are added: early=%.6f late=%.6f", early, late)
	}
}
