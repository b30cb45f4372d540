package fastcdc

import "fmt"

// Chunk is an immutable content-defined chunk. Data is a byte range from
// the input stream — zero-copy sliced from the batch that produced it
// when possible, or a copy when it spans a pending-bytes boundary. Offset
// and Hash are optional.
type Chunk struct {
	Data   []byte
	Offset *uint64
	Hash   *ChunkHash
}

// Len returns the length of the chunk's data.
func (c Chunk) Len() int {
	return len(c.Data)
}

// IsEmpty reports whether the chunk carries no data. Chunks emitted by a
// Chunker are never empty.
func (c Chunk) IsEmpty() bool {
	return len(c.Data) == 0
}

// Start returns the chunk's start offset, or 0 if Offset is unset.
func (c Chunk) Start() uint64 {
	if c.Offset == nil {
		return 0
	}
	return *c.Offset
}

// End returns the chunk's exclusive end offset (Start + Len).
func (c Chunk) End() uint64 {
	return c.Start() + uint64(c.Len())
}

// String renders the chunk as "Chunk(N bytes @ OFFSET, hash=HEX)", omitting
// optional fields that are unset.
func (c Chunk) String() string {
	s := fmt.Sprintf("Chunk(%d bytes", c.Len())
	if c.Offset != nil {
		s += fmt.Sprintf(" @ %d", *c.Offset)
	}
	if c.Hash != nil {
		s += fmt.Sprintf(", hash=%s", c.Hash.Hex())
	}
	return s + ")"
}

// offsetPtr is a small constructor helper so callers inside this package
// don't repeat `v := x; return &v`.
func offsetPtr(v uint64) *uint64 {
	return &v
}
