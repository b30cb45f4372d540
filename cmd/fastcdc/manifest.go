package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/contentdefined/fastcdc"
)

// manifestWriter renders each emitted chunk as one line of output, either
// as the Chunk's own Stringer form or as a JSON object.
type manifestWriter struct {
	out    io.Writer
	format string
	enc    *json.Encoder
}

func newManifestWriter(out io.Writer, format string) *manifestWriter {
	w := &manifestWriter{out: out, format: format}
	if format == "json" {
		w.enc = json.NewEncoder(out)
	}
	return w
}

type manifestEntry struct {
	Offset uint64 `json:"offset"`
	Length int    `json:"length"`
	Hash   string `json:"hash,omitempty"`
}

func (w *manifestWriter) write(chunk fastcdc.Chunk) error {
	if w.format == "json" {
		entry := manifestEntry{Offset: chunk.Start(), Length: chunk.Len()}
		if chunk.Hash != nil {
			entry.Hash = chunk.Hash.Hex()
		}
		return w.enc.Encode(entry)
	}
	_, err := fmt.Fprintln(w.out, chunk.String())
	return err
}
