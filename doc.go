// Package fastcdc implements streaming FastCDC content-defined chunking:
// a rolling gear hash with normalized min/avg/max boundary detection, used
// to split a byte stream into variable-sized chunks whose boundaries are
// determined by local content rather than fixed offsets.
//
// Identical substrings produce identical chunks regardless of surrounding
// insertions or deletions, which is what makes this useful to
// deduplicating backup systems, delta-sync tools, and content-addressable
// stores. The package does not manage files, persistence, or transport,
// and does not discover duplicates itself — it only emits chunks and their
// content hashes; see fastcdc/ioadapter for stream adapters built on top.
package fastcdc
