// Package digest implements the hash contract the Bloom and Cuckoo filters
// depend on: either a single 64-bit digest or a multi-valued hash, with the
// core only ever consuming the first 64-bit word. The choice of algorithm
// is deliberately out of the core's scope — this package supplies three
// interchangeable implementations of one contract: CRC-32, SHA-256, and a
// 64-bit mixer.
package digest

import (
	"crypto/sha256"
	"encoding/binary"
	"hash/crc32"

	"github.com/cespare/xxhash/v2"
)

// Hash64 is the single-valued hash contract: a 64-bit digest of b.
type Hash64 interface {
	Sum64(b []byte) uint64
}

// MultiHash64 is the multi-valued hash contract. Callers only ever read
// the first element of the returned slice.
type MultiHash64 interface {
	SumMultiple(b []byte) []uint64
}

// ByteHasher produces a byte-output digest, the form Cuckoo filter
// fingerprints are truncated from.
type ByteHasher interface {
	Sum(b []byte) []byte
}

// XXHash64 is the default 64-bit mixer: github.com/cespare/xxhash/v2.
type XXHash64 struct{}

func (XXHash64) Sum64(b []byte) uint64 { return xxhash.Sum64(b) }

// SumMultiple derives two independent-looking 64-bit words from one xxhash
// digest by re-hashing with a length-extended seed byte, so MultiHash64
// callers that want more than one digest don't need a second algorithm.
func (XXHash64) SumMultiple(b []byte) []uint64 {
	h1 := xxhash.Sum64(b)
	seeded := make([]byte, len(b)+1)
	copy(seeded, b)
	seeded[len(b)] = 0x5a
	h2 := xxhash.Sum64(seeded)
	return []uint64{h1, h2}
}

// Sum renders the 64-bit digest as 8 big-endian bytes, the byte-output form
// the Cuckoo filter truncates into a fingerprint.
func (XXHash64) Sum(b []byte) []byte {
	var out [8]byte
	binary.BigEndian.PutUint64(out[:], xxhash.Sum64(b))
	return out[:]
}

// CRC32_64 zero-extends a CRC-32 (IEEE) checksum to 64 bits. A lightweight
// reference hasher well suited to conformance tests.
type CRC32_64 struct{}

func (CRC32_64) Sum64(b []byte) uint64 {
	return uint64(crc32.ChecksumIEEE(b))
}

func (CRC32_64) Sum(b []byte) []byte {
	var out [4]byte
	binary.BigEndian.PutUint32(out[:], crc32.ChecksumIEEE(b))
	return out[:]
}

// SHA256 is the cryptographic-digest option. Only the first 8 bytes feed
// Hash64.Sum64; the full 32-byte digest is available via Sum for
// fingerprint truncation.
type SHA256 struct{}

func (SHA256) Sum64(b []byte) uint64 {
	sum := sha256.Sum256(b)
	return binary.BigEndian.Uint64(sum[:8])
}

func (SHA256) Sum(b []byte) []byte {
	sum := sha256.Sum256(b)
	return sum[:]
}

// ByAlgorithmName resolves one of the three named hash options (crc32,
// sha256, or the default 64-bit mixer) by configuration string, for wiring
// config.BloomConfig.HashFunction / config.CuckooConfig.HashFunction into
// concrete hashers without the filters needing to know about names.
func ByAlgorithmName(name string) interface {
	Hash64
	ByteHasher
} {
	switch name {
	case "crc32":
		return CRC32_64{}
	case "sha256":
		return SHA256{}
	default:
		return XXHash64{}
	}
}

// IntFromBytes reduces a byte digest to a machine integer by reading the
// first 4 bytes big-endian.
func IntFromBytes(b []byte) uint32 {
	var padded [4]byte
	n := copy(padded[:], b)
	_ = n
	return binary.BigEndian.Uint32(padded[:])
}
