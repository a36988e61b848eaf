package seterr_test

import (
	"errors"
	"testing"

	"setindex/internal/seterr"
)

func TestInvalidFormatsMessage(t *testing.T) {
	err := seterr.Invalid("bloom.New", "expectedInsertions must be >= 1")
	want := "bloom.New: invalid_argument: expectedInsertions must be >= 1"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
	if err.Kind != seterr.InvalidArgument {
		t.Fatalf("Invalid() should set Kind = InvalidArgument, got %v", err.Kind)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("underlying failure")
	err := &seterr.Error{Op: "cuckoo.New", Kind: seterr.InvalidArgument, Message: "bad config", Cause: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is should see through Unwrap to the cause")
	}
}
