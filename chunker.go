package fastcdc

// Chunker is the streaming FastCDC engine. It drives a kernel over
// incoming byte batches, carries residual bytes across Push calls, and
// emits Chunk values with correct stream offsets and, when configured, a
// strong hash.
//
// A Chunker is single-threaded and cooperative: all calls to Push, Finish,
// and Reset must be serialized by the caller. There are no internal
// locks, threads, or suspension points.
type Chunker struct {
	kernel  kernel
	pending []byte
	offset  uint64
	config  ChunkConfig
}

// NewChunker constructs a Chunker from a validated configuration.
func NewChunker(config ChunkConfig) *Chunker {
	return &Chunker{
		kernel: newKernel(config.MinSize(), config.AvgSize(), config.MaxSize(), config.NormalizationLevel(), config.Key()),
		config: config,
	}
}

// Push feeds a batch of bytes into the chunker. It returns the complete
// chunks found in this batch (possibly none) and a snapshot of the
// engine's internal pending carry.
//
// The returned leftover is informational only: callers do not feed it
// back into the next Push call. An empty batch is a no-op.
func (c *Chunker) Push(batch []byte) ([]Chunk, []byte) {
	if len(batch) == 0 {
		return nil, c.pendingSnapshot()
	}

	var chunks []Chunk
	chunkStart := 0

	for i, b := range batch {
		if !c.kernel.update(b) {
			continue
		}

		var data []byte
		if len(c.pending) > 0 {
			data = make([]byte, 0, len(c.pending)+(i+1-chunkStart))
			data = append(data, c.pending...)
			data = append(data, batch[chunkStart:i+1]...)
		} else {
			data = batch[chunkStart : i+1]
		}

		chunks = append(chunks, c.emit(data))
		chunkStart = i + 1
		c.pending = nil
	}

	if chunkStart < len(batch) {
		remainder := batch[chunkStart:]
		if len(c.pending) > 0 {
			c.pending = append(c.pending, remainder...)
		} else {
			// Copy: batch is caller-owned and may be reused or
			// mutated after Push returns.
			c.pending = append([]byte(nil), remainder...)
		}
	}

	return chunks, c.pendingSnapshot()
}

// Finish signals end-of-stream and returns the final chunk if pending
// bytes exist, or nil if the engine has no pending bytes.
func (c *Chunker) Finish() *Chunk {
	if len(c.pending) == 0 {
		return nil
	}
	data := c.pending
	c.pending = nil
	chunk := c.emit(data)
	return &chunk
}

// Reset clears pending bytes, offset, and kernel state, restoring the
// Chunker to the state of a freshly constructed one.
func (c *Chunker) Reset() {
	c.kernel.reset()
	c.pending = nil
	c.offset = 0
}

// Offset returns the running byte position of the next chunk to be
// emitted.
func (c *Chunker) Offset() uint64 {
	return c.offset
}

// PendingLen returns the number of bytes currently held as pending carry.
func (c *Chunker) PendingLen() int {
	return len(c.pending)
}

// Config returns the configuration this Chunker was constructed with.
func (c *Chunker) Config() ChunkConfig {
	return c.config
}

// emit materializes a Chunk at the engine's current offset, attaches a
// strong hash if configured, and advances the offset.
func (c *Chunker) emit(data []byte) Chunk {
	chunk := Chunk{
		Data:   data,
		Offset: offsetPtr(c.offset),
	}
	if c.config.HashConfig().Enabled {
		h := strongHash(data, c.config.Key())
		chunk.Hash = &h
	}
	c.offset += uint64(len(data))
	return chunk
}

func (c *Chunker) pendingSnapshot() []byte {
	if len(c.pending) == 0 {
		return nil
	}
	snapshot := make([]byte, len(c.pending))
	copy(snapshot, c.pending)
	return snapshot
}
