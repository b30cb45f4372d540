package fastcdc

import "lukechampine.com/blake3"

// strongHash computes a chunk's strong digest: BLAKE3, keyed with the
// configured key when keyed CDC mode is active, unkeyed otherwise. It is
// computed synchronously over the already-materialized chunk bytes, so
// there is no second pass over the data.
func strongHash(data []byte, key *[32]byte) ChunkHash {
	var sum [32]byte
	if key != nil {
		h := keyedBlake3Hasher(*key)
		h.Write(data) //nolint:errcheck // hash.Hash.Write never errors
		copy(sum[:], h.Sum(nil))
	} else {
		sum = blake3.Sum256(data)
	}
	return ChunkHash(sum)
}
