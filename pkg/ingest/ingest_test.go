package ingest_test

import (
	"context"
	"strings"
	"testing"

	"setindex/pkg/ingest"
)

type stringSet struct {
	seen map[string]bool
}

func newStringSet() *stringSet { return &stringSet{seen: make(map[string]bool)} }

func (s *stringSet) Add(v string) bool {
	if s.seen[v] {
		return false
	}
	s.seen[v] = true
	return true
}

func TestFromReaderWholeLine(t *testing.T) {
	target := newStringSet()
	input := "alpha\nbeta\ngamma\n"

	res, err := ingest.FromReader(context.Background(), strings.NewReader(input), target.Add, ingest.Options{Column: -1})
	if err != nil {
		t.Fatalf("FromReader: %v", err)
	}
	if res.LinesRead != 3 || res.Inserted != 3 {
		t.Fatalf("got LinesRead=%d Inserted=%d, want 3/3", res.LinesRead, res.Inserted)
	}
	if !target.seen["alpha"] || !target.seen["beta"] || !target.seen["gamma"] {
		t.Fatalf("expected all three lines ingested, got %v", target.seen)
	}
}

func TestFromReaderSkipsHeader(t *testing.T) {
	target := newStringSet()
	input := "id,name\n1,alice\n2,bob\n"

	res, err := ingest.FromReader(context.Background(), strings.NewReader(input), target.Add,
		ingest.Options{Column: 1, SkipHeader: true})
	if err != nil {
		t.Fatalf("FromReader: %v", err)
	}
	if res.LinesRead != 2 {
		t.Fatalf("LinesRead = %d, want 2 (header skipped)", res.LinesRead)
	}
	if !target.seen["alice"] || !target.seen["bob"] {
		t.Fatalf("expected column 1 values ingested, got %v", target.seen)
	}
}

func TestFromReaderDuplicateCounts(t *testing.T) {
	target := newStringSet()
	input := "a\na\nb\n"

	res, err := ingest.FromReader(context.Background(), strings.NewReader(input), target.Add, ingest.Options{Column: -1})
	if err != nil {
		t.Fatalf("FromReader: %v", err)
	}
	if res.Inserted != 2 || res.AlreadySeen != 1 {
		t.Fatalf("got Inserted=%d AlreadySeen=%d, want 2/1", res.Inserted, res.AlreadySeen)
	}
}

func TestFromReaderSkipsOutOfRangeColumn(t *testing.T) {
	target := newStringSet()
	input := "onlyone\n"

	res, err := ingest.FromReader(context.Background(), strings.NewReader(input), target.Add, ingest.Options{Column: 2})
	if err != nil {
		t.Fatalf("FromReader: %v", err)
	}
	if res.Inserted != 0 {
		t.Fatalf("out-of-range column should insert nothing, got Inserted=%d", res.Inserted)
	}
}
