package fastcdc

// kernel is the FastCDC rolling-hash boundary-detection state machine. It
// has exactly one stepping method, update, and one reset; its internal
// hash and byte counter never leak to callers.
//
// A kernel has no notion of streams, offsets, or pending bytes — that is
// the Chunker's job. The kernel only answers, for each byte fed to it,
// whether a boundary falls immediately after that byte.
type kernel struct {
	hash               uint64
	bytesSinceBoundary int

	min, avg, max int

	maskS, maskL uint64
	gearShifted  [256]uint64
}

// newKernel builds a kernel for the given validated size bounds and
// normalization level, using either the static gear table or, when key is
// non-nil, a table derived from it.
func newKernel(min, avg, max int, level int, key *[32]byte) kernel {
	bits := log2(avg)

	k := kernel{
		min: min,
		avg: avg,
		max: max,
	}

	if key != nil {
		_, shifted := deriveKeyedGearTable(*key)
		k.gearShifted = shifted
	} else {
		k.gearShifted = gearTableShifted
	}

	k.maskS = maskAt(bits + level)
	k.maskL = maskAt(bits - level)
	return k
}

// update processes a single byte and reports whether a chunk boundary was
// found immediately after it.
func (k *kernel) update(b byte) bool {
	k.bytesSinceBoundary++
	k.hash += k.gearShifted[b]

	if k.bytesSinceBoundary < k.min {
		return false
	}
	if k.bytesSinceBoundary >= k.max {
		k.hash = 0
		k.bytesSinceBoundary = 0
		return true
	}

	mask := k.maskS
	if k.bytesSinceBoundary >= k.avg {
		mask = k.maskL
	}

	if k.hash&mask == 0 {
		k.hash = 0
		k.bytesSinceBoundary = 0
		return true
	}
	return false
}

// reset zeroes the hash and byte counter; masks and the gear table are
// untouched.
func (k *kernel) reset() {
	k.hash = 0
	k.bytesSinceBoundary = 0
}

// log2 returns the base-2 logarithm of a positive power of two.
func log2(n int) int {
	bits := 0
	for n > 1 {
		n >>= 1
		bits++
	}
	return bits
}
