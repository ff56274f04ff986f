package kmer

import (
	"github.com/logik1286/kmerCounter/internal/mer"
)

// Mer is one reported k-mer.
type Mer struct {
	Sequence string
	Count    uint64
}

// Stats reports run metrics.
type Stats struct {
	StoreEntries uint64
	StoreBytes   int64
	CachedTop    int
}

// Counter counts fixed-width substrings of nucleotide sequences and
// reports the most frequent ones. It owns a temporary on-disk store for
// the duration of the run; Close releases it on every exit path.
//
// A Counter is single-threaded: one sequence at a time, then one final
// report.
type Counter struct {
	eng engine
}

// New builds a counter for cfg, choosing the key representation from the
// window width and instantiating the counter width from the precision.
func New(cfg Config) (*Counter, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	var eng engine
	wordBits, _, packed := mer.Width(cfg.K)
	if !packed {
		eng, err = newByteEngine(cfg)
	} else {
		switch wordBits {
		case 8:
			eng, err = newPackedEngine[uint8](cfg)
		case 16:
			eng, err = newPackedEngine[uint16](cfg)
		case 32:
			eng, err = newPackedEngine[uint32](cfg)
		default:
			eng, err = newPackedEngine[uint64](cfg)
		}
	}
	if err != nil {
		return nil, err
	}
	return &Counter{eng: eng}, nil
}

// newPackedEngine instantiates the engine for one register width across
// the four counter precisions.
func newPackedEngine[W mer.Word](cfg Config) (engine, error) {
	tok, err := mer.NewPacker[W](cfg.K)
	if err != nil {
		return nil, Errf(KindInvalidArg, "invalid kmer width : %d", cfg.K)
	}
	switch cfg.Precision {
	case Precision8:
		return newEngine[mer.Packed[W], uint8](cfg, tok)
	case Precision16:
		return newEngine[mer.Packed[W], uint16](cfg, tok)
	case Precision32:
		return newEngine[mer.Packed[W], uint32](cfg, tok)
	default:
		return newEngine[mer.Packed[W], uint64](cfg, tok)
	}
}

func newByteEngine(cfg Config) (engine, error) {
	tok, err := mer.NewByteSeq(cfg.K)
	if err != nil {
		return nil, Errf(KindInvalidArg, "invalid kmer width : %d", cfg.K)
	}
	switch cfg.Precision {
	case Precision8:
		return newEngine[string, uint8](cfg, tok)
	case Precision16:
		return newEngine[string, uint16](cfg, tok)
	case Precision32:
		return newEngine[string, uint32](cfg, tok)
	default:
		return newEngine[string, uint64](cfg, tok)
	}
}

// AddSequence validates and encodes one sequence, tokenizes it, and
// feeds the aggregator. A spill may run inline and block.
func (c *Counter) AddSequence(seq string) error {
	return c.eng.addSequence(seq)
}

// TopMers flushes the aggregator and returns up to n mers ordered by
// count descending, ties stable. Entries with count ≤ threshold are
// excluded.
func (c *Counter) TopMers(n int, threshold uint64) ([]Mer, error) {
	if n < 1 {
		return nil, Errf(KindInvalidArg, "invalid topKmersToReport : %d", n)
	}
	return c.eng.topMers(n, threshold)
}

// MaxCount returns the saturation value of the configured counter width.
// A reported count equal to it means the counter clamped.
func (c *Counter) MaxCount() uint64 {
	return c.eng.maxCount()
}

// Stats returns current run metrics.
func (c *Counter) Stats() Stats {
	return c.eng.stats()
}

// Close removes the temporary store. It is idempotent and must be called
// on every exit path.
func (c *Counter) Close() error {
	return c.eng.close()
}
