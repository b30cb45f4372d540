package fastcdc

import (
	"encoding/binary"

	"lukechampine.com/blake3"
)

// keyedGearDomain is the domain-separation context fed to BLAKE3's key
// derivation before the gear table bytes are drawn from its extendable
// output. Changing this string changes every keyed gear table; it must
// stay fixed across releases for keyed peers to agree on chunk boundaries.
const keyedGearDomain = "fastcdc.gear.v1"

// deriveKeyedGearTable produces the 256-entry base gear table used when a
// 32-byte key is configured. The effective table is the first 256*8 bytes
// of a keyed extendable-output hash seeded with the key and a fixed
// domain-separation label, interpreted as little-endian uint64s.
//
// This is deterministic: the same key always derives the same table, which
// is required for keyed peers to agree on chunk boundaries.
func deriveKeyedGearTable(key [32]byte) (table, shifted [256]uint64) {
	subKey := make([]byte, 32)
	blake3.DeriveKey(subKey, keyedGearDomain, key[:])

	hasher := blake3.New(32, subKey)
	xof := hasher.XOF()

	var buf [256 * 8]byte
	if _, err := xof.Read(buf[:]); err != nil {
		// blake3's OutputReader only errors after producing 2^64-1
		// bytes; 2048 bytes can never trigger that.
		panic("fastcdc: keyed gear table derivation failed: " + err.Error())
	}

	for i := 0; i < 256; i++ {
		v := binary.LittleEndian.Uint64(buf[i*8 : i*8+8])
		table[i] = v
		shifted[i] = v << 1
	}
	return table, shifted
}

// keyedBlake3Hasher returns a BLAKE3 hasher keyed with the given 32-byte
// key, used for keyed content hashing. The keyed gear table is derived
// separately above, from a DeriveKey sub-key.
func keyedBlake3Hasher(key [32]byte) *blake3.Hasher {
	return blake3.New(32, key[:])
}
