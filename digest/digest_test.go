package digest_test

import (
	"testing"

	"setindex/digest"
)

func TestXXHash64Deterministic(t *testing.T) {
	h := digest.XXHash64{}
	a := h.Sum64([]byte("same input"))
	b := h.Sum64([]byte("same input"))
	if a != b {
		t.Fatalf("Sum64 not deterministic: %d != %d", a, b)
	}
}

func TestXXHash64SumMultipleIndependent(t *testing.T) {
	h := digest.XXHash64{}
	got := h.SumMultiple([]byte("item"))
	if len(got) != 2 {
		t.Fatalf("SumMultiple returned %d values, want 2", len(got))
	}
	if got[0] == got[1] {
		t.Fatalf("SumMultiple's two digests collided: %d == %d", got[0], got[1])
	}
}

func TestXXHash64SumLength(t *testing.T) {
	h := digest.XXHash64{}
	if n := len(h.Sum([]byte("x"))); n != 8 {
		t.Fatalf("Sum() returned %d bytes, want 8", n)
	}
}

func TestCRC32_64MatchesReference(t *testing.T) {
	h := digest.CRC32_64{}
	if h.Sum64([]byte("")) != 0 {
		t.Fatalf("CRC-32 of empty input should be 0")
	}
	if len(h.Sum([]byte("x"))) != 4 {
		t.Fatalf("CRC32_64.Sum should be 4 bytes")
	}
}

func TestSHA256Length(t *testing.T) {
	h := digest.SHA256{}
	if n := len(h.Sum([]byte("x"))); n != 32 {
		t.Fatalf("SHA256.Sum returned %d bytes, want 32", n)
	}
}

func TestByAlgorithmName(t *testing.T) {
	cases := map[string]interface{}{
		"xxhash":  digest.XXHash64{},
		"crc32":   digest.CRC32_64{},
		"sha256":  digest.SHA256{},
		"unknown": digest.XXHash64{}, // default
	}
	for name, want := range cases {
		got := digest.ByAlgorithmName(name)
		if got.Sum64([]byte("probe")) != want.(interface{ Sum64([]byte) uint64 }).Sum64([]byte("probe")) {
			t.Errorf("ByAlgorithmName(%q) did not resolve to the expected hasher", name)
		}
	}
}

func TestIntFromBytes(t *testing.T) {
	got := digest.IntFromBytes([]byte{0x00, 0x00, 0x01, 0x00})
	if got != 256 {
		t.Fatalf("IntFromBytes = %d, want 256", got)
	}
}

func TestIntFromBytesShortInput(t *testing.T) {
	// fewer than 4 bytes: zero-padded, must not panic
	got := digest.IntFromBytes([]byte{0x01})
	if got == 0 {
		t.Fatalf("IntFromBytes should read the supplied byte into the high-order position")
	}
}
