// Package kmer counts fixed-width nucleotide substrings over streaming
// input and reports the most frequent ones.
//
// # Two-tier counting
//
// In-memory structures give O(1) amortized increments but cannot hold
// billion-key cardinalities; the disk store holds everything but is too
// slow to touch on every increment. The aggregator absorbs bursts of
// updates per key, then hands a compressed delta to the store, which
// merges additively. An online top-N cache piggybacks on every store
// update so the final ranking rarely needs a full scan.
//
//	records → alphabet codec → tokenizer → aggregator
//	        → spill (additive merge) → store → top-N cache
//
// # Key representations
//
// Consecutive windows share k-1 bases, so packed keys roll forward with
// one shift-and-or per register instead of hashing a fresh byte string.
// Three bits per base cover the five-symbol GTACN alphabet. The register
// geometry follows the window width; windows too wide to pack fall back
// to raw byte-sequence keys. See internal/mer.
//
// # Usage
//
//	c, err := kmer.New(kmer.DefaultConfig(7))
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	for _, seq := range reads {
//	    if err := c.AddSequence(seq); err != nil {
//	        return err
//	    }
//	}
//	mers, err := c.TopMers(25, 0)
//
// Counters saturate at the configured precision's maximum instead of
// wrapping; compare reported counts against MaxCount to detect it.
package kmer
