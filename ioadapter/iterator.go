// Package ioadapter adapts fastcdc.Chunker to the two stream shapes Go
// programs actually have: a blocking io.Reader (Iterator) and a
// context-cancellable producer goroutine (StreamChunks). The core fastcdc
// package only knows about byte batches pushed into it; this package is
// where "read a file" or "read a socket" turns into that.
//
// Iterator's pull-model shape — a Next method that returns io.EOF once the
// stream is exhausted — follows the same convention as a typical Go
// iterator/scanner: callers loop calling Next until it reports io.EOF.
package ioadapter

import (
	"io"

	"github.com/contentdefined/fastcdc"
	"github.com/contentdefined/fastcdc/bufpool"
)

// Iterator pulls chunks from an io.Reader on demand, one Next call at a
// time. It owns a pooled read buffer and a fastcdc.Chunker; both are
// released when the reader is exhausted.
//
// An Iterator is single-threaded, like the Chunker it wraps: concurrent
// calls to Next must be serialized by the caller.
type Iterator struct {
	reader  io.Reader
	chunker *fastcdc.Chunker
	buf     *[]byte

	queue    []fastcdc.Chunk
	finished bool
}

// NewIterator constructs an Iterator reading from r and chunking according
// to config.
func NewIterator(r io.Reader, config fastcdc.ChunkConfig) *Iterator {
	return &Iterator{
		reader:  r,
		chunker: fastcdc.NewChunker(config),
		buf:     bufpool.Get(),
	}
}

// Next returns the next chunk from the stream, or io.EOF once every chunk,
// including the final partial one, has been returned.
//
// The returned chunk's Data slice aliases the Iterator's internal pooled
// read buffer and is only valid until the next call to Next: once Next
// performs another physical Read, the bytes underlying a previously
// returned Data slice may be overwritten. Callers that need to retain a
// chunk's data past the next Next call must copy it first.
func (it *Iterator) Next() (fastcdc.Chunk, error) {
	for len(it.queue) == 0 {
		if it.finished {
			return fastcdc.Chunk{}, io.EOF
		}

		readBuf := (*it.buf)[:cap(*it.buf)]
		n, err := it.reader.Read(readBuf)
		if n > 0 {
			chunks, _ := it.chunker.Push(readBuf[:n])
			it.queue = append(it.queue, chunks...)
		}

		if err != nil {
			it.finished = true
			if err != io.EOF {
				it.Close()
				return fastcdc.Chunk{}, &fastcdc.ChunkError{Kind: fastcdc.ErrIO, Err: err}
			}
			if final := it.chunker.Finish(); final != nil {
				it.queue = append(it.queue, *final)
			}
			it.Close()
		}
	}

	chunk := it.queue[0]
	it.queue = it.queue[1:]
	return chunk, nil
}

// Close releases the Iterator's pooled read buffer. It is safe, though
// unnecessary, to call after Next has already returned io.EOF.
func (it *Iterator) Close() {
	if it.buf != nil {
		bufpool.Put(it.buf)
		it.buf = nil
	}
}
