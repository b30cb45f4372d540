// Package bufpool provides a bounded, reusable byte-buffer pool for
// streaming adapters built on top of fastcdc. It exists to avoid
// allocating a fresh read buffer on every call into ioadapter's sync and
// async adapters.
//
// Buffers are handed out at a fixed default capacity and reused across
// Get/Put cycles; a buffer that grows well past that default on a single
// oversized read is dropped on Put rather than retained, so one large
// read doesn't inflate the steady-state memory footprint of every future
// Get. sync.Pool handles the actual pooling and eviction under GC
// pressure.
package bufpool

import "sync"

// DefaultBufferSize is the capacity a freshly allocated buffer is given.
const DefaultBufferSize = 64 * 1024

// maxRetainedCapacity is the largest buffer capacity this pool will accept
// back on Put. Buffers grown far beyond the default are discarded instead
// of retained, so one oversized read doesn't inflate the steady-state
// memory footprint of every future Get.
const maxRetainedCapacity = DefaultBufferSize * 2

var pool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, DefaultBufferSize)
		return &buf
	},
}

// Get returns a zero-length buffer with at least DefaultBufferSize
// capacity, reused from the pool when one is available.
func Get() *[]byte {
	buf := pool.Get().(*[]byte)
	*buf = (*buf)[:0]
	return buf
}

// Put returns a buffer to the pool for reuse. Buffers whose capacity has
// grown past maxRetainedCapacity are dropped rather than retained.
func Put(buf *[]byte) {
	if cap(*buf) > maxRetainedCapacity {
		return
	}
	pool.Put(buf)
}
