package fastcdc

import (
	"bytes"
	"testing"
)

func randomBytes(n int, seed uint32) []byte {
	// Simple xorshift PRNG so tests don't depend on math/rand's stream
	// stability across Go versions.
	out := make([]byte, n)
	state := seed
	if state == 0 {
		state = 1
	}
	for i := range out {
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		out[i] = byte(state)
	}
	return out
}

func chunkAll(t *testing.T, config ChunkConfig, data []byte, batchSize int) []Chunk {
	t.Helper()
	c := NewChunker(config)
	var all []Chunk
	for i := 0; i < len(data); i += batchSize {
		end := i + batchSize
		if end > len(data) {
			end = len(data)
		}
		chunks, _ := c.Push(data[i:end])
		all = append(all, chunks...)
	}
	if final := c.Finish(); final != nil {
		all = append(all, *final)
	}
	return all
}

// Concatenating every chunk's data must reproduce the original input exactly.
func TestChunkerTotality(t *testing.T) {
	config, err := NewChunkConfig(64, 256, 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := randomBytes(10000, 1)
	chunks := chunkAll(t, config, data, 777)

	var reassembled []byte
	for _, c := range chunks {
		reassembled = append(reassembled, c.Data...)
	}
	if !bytes.Equal(reassembled, data) {
		t.Fatal("reassembled chunks do not match original input")
	}
}

// Every non-terminal chunk must fall within [min,max]; the terminal chunk
// is within (0,max] and may be shorter than min.
func TestChunkerChunkSizeBounds(t *testing.T) {
	config, err := NewChunkConfig(64, 256, 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := randomBytes(50000, 2)
	chunks := chunkAll(t, config, data, 4096)

	for i, c := range chunks {
		isTerminal := i == len(chunks)-1
		if c.Len() <= 0 {
			t.Fatalf("chunk %d has non-positive length", i)
		}
		if c.Len() > config.MaxSize() {
			t.Fatalf("chunk %d exceeds max_size: %d > %d", i, c.Len(), config.MaxSize())
		}
		if !isTerminal && c.Len() < config.MinSize() {
			t.Fatalf("non-terminal chunk %d below min_size: %d < %d", i, c.Len(), config.MinSize())
		}
	}
}

// Chunk offsets must be monotonically increasing and contiguous.
func TestChunkerOffsetMonotonicity(t *testing.T) {
	config := DefaultChunkConfig()
	data := randomBytes(200000, 3)
	chunks := chunkAll(t, config, data, 8192)

	var expected uint64
	for i, c := range chunks {
		if c.Start() != expected {
			t.Fatalf("chunk %d start=%d, want %d", i, c.Start(), expected)
		}
		expected = c.End()
	}
	if expected != uint64(len(data)) {
		t.Fatalf("final offset %d != input length %d", expected, len(data))
	}
}

// Chunk boundaries must not depend on how input is split into batches.
func TestChunkerBatchIndependence(t *testing.T) {
	config, err := NewChunkConfig(64, 256, 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := randomBytes(20000, 4)

	batchSizes := []int{1, 10, 37, config.MaxSize()}
	var reference []Chunk
	for i, bs := range batchSizes {
		chunks := chunkAll(t, config, data, bs)
		if i == 0 {
			reference = chunks
			continue
		}
		if len(chunks) != len(reference) {
			t.Fatalf("batch size %d: got %d chunks, want %d", bs, len(chunks), len(reference))
		}
		for j := range chunks {
			if !bytes.Equal(chunks[j].Data, reference[j].Data) {
				t.Fatalf("batch size %d: chunk %d data differs from reference", bs, j)
			}
			if chunks[j].Start() != reference[j].Start() {
				t.Fatalf("batch size %d: chunk %d offset differs from reference", bs, j)
			}
		}
	}
}

// Disabling hashing must not change where boundaries fall.
func TestChunkerHashToggleIndependence(t *testing.T) {
	data := randomBytes(20000, 5)

	withHash, err := NewChunkConfig(64, 256, 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	withoutHash := withHash.WithHashConfig(HashConfig{Enabled: false})

	a := chunkAll(t, withHash, data, 513)
	b := chunkAll(t, withoutHash, data, 513)

	if len(a) != len(b) {
		t.Fatalf("chunk count differs with hashing toggled: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !bytes.Equal(a[i].Data, b[i].Data) {
			t.Fatalf("chunk %d data differs with hashing toggled", i)
		}
	}
}

// When hashing is enabled, every chunk's Hash must match an independent
// recomputation over its Data.
func TestChunkerHashAgreement(t *testing.T) {
	config, err := NewChunkConfig(64, 256, 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := randomBytes(20000, 6)
	chunks := chunkAll(t, config, data, 4096)

	for i, c := range chunks {
		if c.Hash == nil {
			t.Fatalf("chunk %d missing hash though hashing is enabled", i)
		}
		want := strongHash(c.Data, config.Key())
		if !c.Hash.Equal(want) {
			t.Fatalf("chunk %d hash does not match independent recomputation", i)
		}
	}
}

// Reset must restore a Chunker to the state of a freshly constructed one.
func TestChunkerResetRestoresFreshState(t *testing.T) {
	config, err := NewChunkConfig(64, 256, 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := randomBytes(5000, 7)

	c := NewChunker(config)
	c.Push(data)
	c.Reset()

	if c.Offset() != 0 {
		t.Fatalf("expected offset 0 after reset, got %d", c.Offset())
	}
	if c.PendingLen() != 0 {
		t.Fatalf("expected no pending bytes after reset, got %d", c.PendingLen())
	}

	fresh := NewChunker(config)
	chunksAfterReset, _ := c.Push(data)
	chunksFresh, _ := fresh.Push(data)

	if len(chunksAfterReset) != len(chunksFresh) {
		t.Fatalf("reset chunker diverges from fresh chunker: %d vs %d chunks", len(chunksAfterReset), len(chunksFresh))
	}
	for i := range chunksFresh {
		if !bytes.Equal(chunksAfterReset[i].Data, chunksFresh[i].Data) {
			t.Fatalf("chunk %d differs between reset and fresh chunker", i)
		}
	}
}

// Keyed CDC mode must be deterministic per key and diverge from unkeyed mode.
func TestChunkerKeyedDeterminismAndDivergence(t *testing.T) {
	base, err := NewChunkConfig(64, 256, 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := randomBytes(20000, 8)

	var key [32]byte
	for i := range key {
		key[i] = byte(i * 3)
	}
	keyedConfig := base.WithKey(&key)

	a := chunkAll(t, keyedConfig, data, 4096)
	b := chunkAll(t, keyedConfig, data, 4096)
	if len(a) != len(b) {
		t.Fatalf("keyed chunking not deterministic: chunk counts %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !bytes.Equal(a[i].Data, b[i].Data) {
			t.Fatalf("keyed chunking not deterministic at chunk %d", i)
		}
	}

	unkeyedChunks := chunkAll(t, base, data, 4096)
	diverges := len(unkeyedChunks) != len(a)
	if !diverges {
		for i := range a {
			if !bytes.Equal(a[i].Data, unkeyedChunks[i].Data) {
				diverges = true
				break
			}
		}
	}
	if !diverges {
		t.Fatal("expected keyed and unkeyed chunking to diverge on non-trivial input")
	}
}

// A hash attached to an emitted chunk must round-trip through hex
// encode/decode (see also chunk_hash_test.go).
func TestChunkerEmittedHashRoundTrips(t *testing.T) {
	config, err := NewChunkConfig(64, 256, 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := randomBytes(5000, 9)
	chunks := chunkAll(t, config, data, 1024)
	if len(chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}
	hex := chunks[0].Hash.Hex()
	parsed, err := ParseChunkHash(hex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !chunks[0].Hash.Equal(parsed) {
		t.Fatal("hash round-trip mismatch")
	}
}

// Calling Finish twice must be safe; the second call returns nil.
func TestChunkerDoubleFinish(t *testing.T) {
	config := DefaultChunkConfig()
	c := NewChunker(config)
	c.Push(randomBytes(100, 10))

	first := c.Finish()
	if first == nil {
		t.Fatal("expected a final chunk for non-empty pending data")
	}
	second := c.Finish()
	if second != nil {
		t.Fatal("expected nil from a second Finish call")
	}
}

// Pushing an empty batch must be a no-op.
func TestChunkerEmptyPushIsNoOp(t *testing.T) {
	config := DefaultChunkConfig()
	c := NewChunker(config)

	before := c.Offset()
	beforePending := c.PendingLen()
	chunks, leftover := c.Push(nil)
	if chunks != nil {
		t.Fatalf("expected no chunks from empty push, got %d", len(chunks))
	}
	if len(leftover) != beforePending {
		t.Fatalf("expected pending length unchanged, got %d want %d", len(leftover), beforePending)
	}
	if c.Offset() != before {
		t.Fatalf("expected offset unchanged by empty push, got %d want %d", c.Offset(), before)
	}
}

// A short input (shorter than min_size) must yield a single terminal chunk.
func TestChunkerShortInput(t *testing.T) {
	config, err := NewChunkConfig(64, 256, 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := randomBytes(10, 11)
	chunks := chunkAll(t, config, data, len(data))
	if len(chunks) != 1 {
		t.Fatalf("expected exactly one chunk for short input, got %d", len(chunks))
	}
	if chunks[0].Len() != len(data) {
		t.Fatalf("expected chunk to cover entire short input, got %d bytes", chunks[0].Len())
	}
}

// An input of all-identical bytes must still respect min/max: a boundary
// is forced at max_size when the hash condition never naturally fires.
func TestChunkerAllIdenticalBytes(t *testing.T) {
	config, err := NewChunkConfig(64, 256, 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := bytes.Repeat([]byte{0x00}, 5000)
	chunks := chunkAll(t, config, data, 1024)

	for i, c := range chunks {
		isTerminal := i == len(chunks)-1
		if c.Len() > config.MaxSize() {
			t.Fatalf("chunk %d exceeds max_size: %d", i, c.Len())
		}
		if !isTerminal && c.Len() < config.MinSize() {
			t.Fatalf("non-terminal chunk %d below min_size: %d", i, c.Len())
		}
	}
}

// An input whose length is exactly max_size must yield a single chunk of
// exactly that length when no content-defined boundary can fall earlier:
// min_size equals max_size here, so the only boundary is the forced one
// at max_size and Finish has nothing left to emit.
func TestChunkerExactMaxLengthInput(t *testing.T) {
	config, err := NewChunkConfig(1024, 1024, 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := randomBytes(config.MaxSize(), 12)
	chunks := chunkAll(t, config, data, config.MaxSize())
	if len(chunks) != 1 {
		t.Fatalf("expected exactly one chunk, got %d", len(chunks))
	}
	if chunks[0].Len() != config.MaxSize() {
		t.Fatalf("expected chunk length %d, got %d", config.MaxSize(), chunks[0].Len())
	}
}

// A 1 MiB all-zero input must chunk without panicking and respect bounds
// throughout; this is the all-zero gear-hash degenerate case.
func TestScenarioOneMebibyteZeroFilled(t *testing.T) {
	config := DefaultChunkConfig()
	data := make([]byte, 1<<20)
	chunks := chunkAll(t, config, data, 65536)

	var total int
	for i, c := range chunks {
		isTerminal := i == len(chunks)-1
		if c.Len() > config.MaxSize() {
			t.Fatalf("chunk %d exceeds max_size", i)
		}
		if !isTerminal && c.Len() < config.MinSize() {
			t.Fatalf("non-terminal chunk %d below min_size", i)
		}
		total += c.Len()
	}
	if total != len(data) {
		t.Fatalf("total chunked bytes %d != input length %d", total, len(data))
	}
}

// Chunking must be deterministic across a range of batch sizes, including
// one exactly equal to max_size.
func TestScenarioDeterminismAcrossBatchSizes(t *testing.T) {
	config := DefaultChunkConfig()
	data := randomBytes(300000, 13)
	sizes := []int{1, 10, 37, config.MaxSize()}

	var reference []Chunk
	for i, bs := range sizes {
		chunks := chunkAll(t, config, data, bs)
		if i == 0 {
			reference = chunks
			continue
		}
		if len(chunks) != len(reference) {
			t.Fatalf("batch size %d produced %d chunks, want %d", bs, len(chunks), len(reference))
		}
		for j := range chunks {
			if !bytes.Equal(chunks[j].Data, reference[j].Data) {
				t.Fatalf("batch size %d: chunk %d diverges from reference", bs, j)
			}
		}
	}
}

// The hashing toggle must not affect chunk boundaries (see also
// TestChunkerHashToggleIndependence); this additionally checks Hash
// presence/absence.
func TestScenarioHashTogglePresence(t *testing.T) {
	config, err := NewChunkConfig(64, 256, 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := randomBytes(20000, 14)

	enabled := chunkAll(t, config, data, 4096)
	disabled := chunkAll(t, config.WithHashConfig(HashConfig{Enabled: false}), data, 4096)

	for i, c := range enabled {
		if c.Hash == nil {
			t.Fatalf("chunk %d expected a hash when hashing enabled", i)
		}
	}
	for i, c := range disabled {
		if c.Hash != nil {
			t.Fatalf("chunk %d expected no hash when hashing disabled", i)
		}
	}
}

// Terminal-chunk correctness for a short, specific input.
func TestScenarioTerminalChunkCorrectness(t *testing.T) {
	config, err := NewChunkConfig(64, 256, 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := []byte("partial")
	chunks := chunkAll(t, config, data, len(data))
	if len(chunks) != 1 {
		t.Fatalf("expected exactly one chunk for %q, got %d", data, len(chunks))
	}
	if !bytes.Equal(chunks[0].Data, data) {
		t.Fatalf("terminal chunk data = %q, want %q", chunks[0].Data, data)
	}
	if chunks[0].Start() != 0 || chunks[0].End() != uint64(len(data)) {
		t.Fatalf("terminal chunk offsets wrong: start=%d end=%d", chunks[0].Start(), chunks[0].End())
	}
}

// Offset monotonicity must hold under fragmented, irregular batch sizes.
func TestScenarioOffsetMonotonicityFragmentedBatches(t *testing.T) {
	config := DefaultChunkConfig()
	data := randomBytes(500000, 15)
	batchSizes := []int{1, 100, 1024, 8192, 16384, 32768}

	c := NewChunker(config)
	var all []Chunk
	pos := 0
	i := 0
	for pos < len(data) {
		bs := batchSizes[i%len(batchSizes)]
		i++
		end := pos + bs
		if end > len(data) {
			end = len(data)
		}
		chunks, _ := c.Push(data[pos:end])
		all = append(all, chunks...)
		pos = end
	}
	if final := c.Finish(); final != nil {
		all = append(all, *final)
	}

	var expected uint64
	for idx, chunk := range all {
		if chunk.Start() != expected {
			t.Fatalf("chunk %d start=%d, want %d", idx, chunk.Start(), expected)
		}
		if chunk.Start() >= chunk.End() {
			t.Fatalf("chunk %d has non-increasing range [%d,%d)", idx, chunk.Start(), chunk.End())
		}
		expected = chunk.End()
	}
	if expected != uint64(len(data)) {
		t.Fatalf("final offset %d != input length %d", expected, len(data))
	}
}

// Invalid configuration must be rejected (see also config_test.go).
func TestScenarioInvalidConfigRejected(t *testing.T) {
	cases := []struct {
		name             string
		min, avg, max    int
	}{
		{"zero min", 0, 256, 1024},
		{"min greater than avg", 512, 256, 1024},
		{"avg greater than max", 64, 2048, 1024},
		{"non power of two avg", 64, 300, 1024},
	}
	for _, tc := range cases {
		if _, err := NewChunkConfig(tc.min, tc.avg, tc.max); err == nil {
			t.Errorf("%s: expected error, got none", tc.name)
		}
	}
}
