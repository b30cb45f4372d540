package ioadapter

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/contentdefined/fastcdc"
	"github.com/contentdefined/fastcdc/bufpool"
)

// defaultChunkChannelSize bounds how many chunks can sit between the
// producer goroutine and a slow consumer before the producer blocks.
const defaultChunkChannelSize = 16

// StreamChunks reads r on a background goroutine, chunking it according to
// config, and delivers chunks on the returned channel. The channel is
// closed when the stream is exhausted or ctx is cancelled. Call the
// returned function to wait for the goroutine to finish and collect its
// error (nil on a clean io.EOF).
//
// logger records the goroutine's lifecycle: cancellation and read errors
// are the only events with externally observable consequences (the
// channel closing early), so those are what get logged; a clean run to
// EOF is silent.
func StreamChunks(ctx context.Context, r io.Reader, config fastcdc.ChunkConfig, logger zerolog.Logger) (<-chan fastcdc.Chunk, func() error) {
	out := make(chan fastcdc.Chunk, defaultChunkChannelSize)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(out)

		buf := bufpool.Get()
		defer bufpool.Put(buf)
		chunker := fastcdc.NewChunker(config)

		for {
			if err := ctx.Err(); err != nil {
				logger.Warn().Err(err).Msg("stream cancelled before read")
				return err
			}

			readBuf := (*buf)[:cap(*buf)]
			n, err := r.Read(readBuf)
			if n > 0 {
				chunks, _ := chunker.Push(readBuf[:n])
				for _, c := range chunks {
					select {
					case out <- c:
					case <-ctx.Done():
						logger.Warn().Err(ctx.Err()).Msg("stream cancelled while delivering chunk")
						return ctx.Err()
					}
				}
			}

			if err != nil {
				if err == io.EOF {
					if final := chunker.Finish(); final != nil {
						select {
						case out <- *final:
						case <-ctx.Done():
							logger.Warn().Err(ctx.Err()).Msg("stream cancelled while delivering final chunk")
							return ctx.Err()
						}
					}
					return nil
				}
				logger.Error().Err(err).Msg("stream read failed")
				return &fastcdc.ChunkError{Kind: fastcdc.ErrIO, Err: err}
			}
		}
	})

	return out, g.Wait
}
