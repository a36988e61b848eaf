package sink_test

import (
	"bytes"
	"testing"

	"setindex/sink"
)

func TestByteSinkAccumulates(t *testing.T) {
	s := sink.New(0)
	s.PutString("ab")
	s.PutByte('c')
	s.PutBytes([]byte("de"))

	got := s.IntoBytes()
	want := []byte("abcde")
	if !bytes.Equal(got, want) {
		t.Fatalf("IntoBytes() = %q, want %q", got, want)
	}
}

func TestByteSinkEmpty(t *testing.T) {
	s := sink.New(16)
	got := s.IntoBytes()
	if len(got) != 0 {
		t.Fatalf("expected empty sink, got %q", got)
	}
}
