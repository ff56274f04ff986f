package kmer

import "os"

// Precision selects the counter width.
type Precision int

const (
	// Precision8 uses 8-bit counters (saturate at 255).
	Precision8 Precision = iota
	// Precision16 uses 16-bit counters.
	Precision16
	// Precision32 uses 32-bit counters.
	Precision32
	// Precision64 uses 64-bit counters.
	Precision64
)

// Strategy selects the in-memory aggregation strategy.
type Strategy int

const (
	// StrategySort buffers raw tokens and sorts them at spill time.
	// Fast, at the cost of buffer memory proportional to token volume.
	StrategySort Strategy = iota

	// StrategyOrderedMap accumulates counts in a map and spills keys in
	// first-insertion order, so tie ranking downstream is deterministic.
	StrategyOrderedMap

	// StrategyHashMap accumulates counts in a plain map and spills in
	// iteration order. Tie ranking is unspecified.
	StrategyHashMap
)

// Spill and cache defaults. The map thresholds bound distinct keys in
// RAM; the sort threshold bounds buffered tokens.
const (
	DefaultSpillEntries     = 10_000_000
	DefaultHashSpillEntries = 100_000_000
	DefaultSpillTokens      = 100_000
	DefaultTopCache         = 100
	DefaultStoreBuckets     = 1 << 22
	DefaultStoreCache       = 1 << 20
)

// Config configures one counting run.
type Config struct {
	// K is the window width in bases. Must be ≥ 1.
	K int

	// Precision selects the counter width.
	Precision Precision

	// Strategy selects the in-memory aggregator.
	Strategy Strategy

	// TopCache is the online top-N cache capacity.
	TopCache int

	// SpillEntries is the distinct-key spill threshold for the map
	// strategies.
	SpillEntries int

	// SpillTokens is the buffered-token spill threshold for the sort
	// strategy.
	SpillTokens int

	// StoreDir is where the temporary store file lives. Defaults to the
	// system temp directory.
	StoreDir string

	// StoreBuckets is the store's hash bucket count. Size toward the
	// expected distinct-key count; billion-key runs want far more than
	// the default.
	StoreBuckets uint64

	// StoreCache bounds the store's in-RAM offset cache, in entries.
	StoreCache int
}

// DefaultConfig returns the default configuration for width k.
func DefaultConfig(k int) Config {
	return Config{K: k}
}

// withDefaults fills zero fields and validates the result.
func (c Config) withDefaults() (Config, error) {
	if c.K < 1 {
		return c, Errf(KindInvalidArg, "invalid kmer width : %d", c.K)
	}
	switch c.Precision {
	case Precision8, Precision16, Precision32, Precision64:
	default:
		return c, Errf(KindInvalidArg, "invalid precision : %d", c.Precision)
	}
	switch c.Strategy {
	case StrategySort, StrategyOrderedMap, StrategyHashMap:
	default:
		return c, Errf(KindInvalidArg, "invalid counter type : %d", c.Strategy)
	}

	if c.TopCache <= 0 {
		c.TopCache = DefaultTopCache
	}
	if c.SpillEntries <= 0 {
		c.SpillEntries = DefaultSpillEntries
		if c.Strategy == StrategyHashMap {
			c.SpillEntries = DefaultHashSpillEntries
		}
	}
	if c.SpillTokens <= 0 {
		c.SpillTokens = DefaultSpillTokens
	}
	if c.StoreDir == "" {
		c.StoreDir = os.TempDir()
	}
	if c.StoreBuckets == 0 {
		c.StoreBuckets = DefaultStoreBuckets
	}
	if c.StoreCache <= 0 {
		c.StoreCache = DefaultStoreCache
	}
	return c, nil
}
