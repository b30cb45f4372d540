package fastcdc

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// ChunkHashSize is the fixed width, in bytes, of a ChunkHash.
const ChunkHashSize = 32

// ChunkHash is a 32-byte strong digest identifying a chunk's content. It
// supports equality, total ordering (lexicographic on bytes), and
// lossless hex encode/decode.
type ChunkHash [ChunkHashSize]byte

// NewChunkHash wraps a 32-byte array as a ChunkHash.
func NewChunkHash(b [ChunkHashSize]byte) ChunkHash {
	return ChunkHash(b)
}

// ChunkHashFromSlice builds a ChunkHash from a slice, returning false if
// the slice is not exactly ChunkHashSize bytes.
func ChunkHashFromSlice(b []byte) (ChunkHash, bool) {
	var h ChunkHash
	if len(b) != ChunkHashSize {
		return h, false
	}
	copy(h[:], b)
	return h, true
}

// Bytes returns the hash as a byte slice view; callers must not mutate it.
func (h ChunkHash) Bytes() []byte {
	return h[:]
}

// Equal reports whether h and other hold the same bytes.
func (h ChunkHash) Equal(other ChunkHash) bool {
	return h == other
}

// Compare returns -1, 0, or 1 depending on the lexicographic byte order of
// h relative to other, matching bytes.Compare.
func (h ChunkHash) Compare(other ChunkHash) int {
	return bytes.Compare(h[:], other[:])
}

// Less reports whether h sorts before other in lexicographic byte order.
func (h ChunkHash) Less(other ChunkHash) bool {
	return h.Compare(other) < 0
}

// Hex encodes the hash as 64 lowercase hex characters.
func (h ChunkHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String implements fmt.Stringer, returning the same value as Hex.
func (h ChunkHash) String() string {
	return h.Hex()
}

// ParseChunkHash decodes a 64-character lowercase hex string into a
// ChunkHash. Round-trips losslessly with Hex.
func ParseChunkHash(s string) (ChunkHash, error) {
	var h ChunkHash
	if len(s) != ChunkHashSize*2 {
		return h, fmt.Errorf("fastcdc: hash hex string must be %d characters, got %d", ChunkHashSize*2, len(s))
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("fastcdc: invalid hash hex string: %w", err)
	}
	copy(h[:], decoded)
	return h, nil
}
