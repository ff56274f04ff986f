package kmer

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// runCount counts seqs under cfg and returns the top n mers.
func runCount(t *testing.T, cfg Config, seqs []string, n int) []Mer {
	t.Helper()

	cfg.StoreDir = t.TempDir()
	c, err := New(cfg)
	require.NoError(t, err)
	defer func() { require.NoError(t, c.Close()) }()

	for _, s := range seqs {
		require.NoError(t, c.AddSequence(s))
	}
	mers, err := c.TopMers(n, 0)
	require.NoError(t, err)
	return mers
}

// bruteCount is the reference model: plain window counting.
func bruteCount(seqs []string, k int) map[string]uint64 {
	counts := map[string]uint64{}
	for _, s := range seqs {
		s = strings.ToUpper(s)
		for i := 0; i+k <= len(s); i++ {
			counts[s[i:i+k]]++
		}
	}
	return counts
}

func TestTopMers_SingleRecord(t *testing.T) {
	// GATTACA at k=3 yields five distinct mers, one count each, ranked
	// in first-appearance order for the deterministic strategies.
	for _, strat := range []Strategy{StrategySort, StrategyOrderedMap} {
		cfg := DefaultConfig(3)
		cfg.Strategy = strat
		mers := runCount(t, cfg, []string{"GATTACA"}, 5)

		want := []Mer{
			{"GAT", 1}, {"ATT", 1}, {"TTA", 1}, {"TAC", 1}, {"ACA", 1},
		}
		require.Equal(t, want, mers, "strategy %d", strat)
	}
}

func TestTopMers_RepeatCounting(t *testing.T) {
	mers := runCount(t, DefaultConfig(2), []string{"AAAAA"}, 3)
	require.Equal(t, []Mer{{"AA", 4}}, mers)
}

func TestTopMers_SaturationAt8Bit(t *testing.T) {
	cfg := DefaultConfig(2)
	cfg.Precision = Precision8

	cfg.StoreDir = t.TempDir()
	c, err := New(cfg)
	require.NoError(t, err)
	defer c.Close()

	require.Equal(t, uint64(255), c.MaxCount())

	for i := 0; i < 300; i++ {
		require.NoError(t, c.AddSequence("AA"))
	}
	mers, err := c.TopMers(1, 0)
	require.NoError(t, err)
	require.Equal(t, []Mer{{"AA", 255}}, mers)
	require.Equal(t, c.MaxCount(), mers[0].Count)
}

func TestTopMers_MixedCase(t *testing.T) {
	for _, strat := range []Strategy{StrategySort, StrategyOrderedMap} {
		cfg := DefaultConfig(2)
		cfg.Strategy = strat
		mers := runCount(t, cfg, []string{"gAtC"}, 4)
		require.Equal(t, []Mer{{"GA", 1}, {"AT", 1}, {"TC", 1}}, mers)
	}
}

func TestAddSequence_InvalidBase(t *testing.T) {
	cfg := DefaultConfig(2)
	cfg.StoreDir = t.TempDir()
	c, err := New(cfg)
	require.NoError(t, err)
	defer c.Close()

	err = c.AddSequence("GATZ")
	require.Error(t, err)
	require.Equal(t, KindBadBase, KindOf(err))
	require.Contains(t, err.Error(), "90")
}

func TestTopMers_ThresholdFilter(t *testing.T) {
	mers := runCount(t, DefaultConfig(2), []string{"AAAAA", "GATC"}, 10)
	require.Len(t, mers, 4) // AA=4, GA=1, AT=1, TC=1

	cfg := DefaultConfig(2)
	cfg.StoreDir = t.TempDir()
	c, err := New(cfg)
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.AddSequence("AAAAA"))
	require.NoError(t, c.AddSequence("GATC"))

	filtered, err := c.TopMers(10, 1)
	require.NoError(t, err)
	require.Equal(t, []Mer{{"AA", 4}}, filtered, "count ≤ threshold must be excluded")
}

func TestTopMers_ShortSequencesYieldNothing(t *testing.T) {
	cfg := DefaultConfig(5)
	cfg.StoreDir = t.TempDir()
	c, err := New(cfg)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.AddSequence("GAT")) // |s| < k
	mers, err := c.TopMers(3, 0)
	require.NoError(t, err)
	require.Empty(t, mers)
}

// testSeqs builds deterministic pseudo-random reads.
func testSeqs(n, length int) []string {
	const bases = "GATCN"
	out := make([]string, n)
	x := uint32(7)
	var b strings.Builder
	for i := range out {
		b.Reset()
		for j := 0; j < length; j++ {
			x = x*1664525 + 1013904223
			b.WriteByte(bases[x>>24%5])
		}
		out[i] = b.String()
	}
	return out
}

func sortedByKey(mers []Mer) []Mer {
	out := append([]Mer(nil), mers...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Sequence < out[j].Sequence
	})
	return out
}

func TestCrossStrategyEquivalence(t *testing.T) {
	// All strategies must agree up to tie ordering, for every key
	// representation, including spill-heavy runs.
	seqs := testSeqs(40, 60)
	for _, k := range []int{1, 2, 3, 5, 6, 10, 11, 21, 22, 42, 43, 50} {
		want := bruteCount(seqs, k)

		var results [][]Mer
		for _, strat := range []Strategy{StrategySort, StrategyOrderedMap, StrategyHashMap} {
			cfg := DefaultConfig(k)
			cfg.Strategy = strat
			cfg.SpillTokens = 64  // force multiple spills
			cfg.SpillEntries = 32 // force multiple spills
			cfg.StoreBuckets = 128
			mers := runCount(t, cfg, seqs, len(want)+5)

			require.Len(t, mers, len(want), "k=%d strategy %d", k, strat)
			for _, m := range mers {
				require.Equal(t, want[m.Sequence], m.Count, "k=%d strategy %d mer %s", k, strat, m.Sequence)
			}
			results = append(results, sortedByKey(mers))
		}
		require.Equal(t, results[0], results[1], "k=%d", k)
		require.Equal(t, results[1], results[2], "k=%d", k)
	}
}

func TestTopMers_ScanPathWhenCacheTooSmall(t *testing.T) {
	// With a tiny online cache the ranking must come from a full store
	// scan and still be correct.
	seqs := testSeqs(20, 30)
	k := 4
	want := bruteCount(seqs, k)

	cfg := DefaultConfig(k)
	cfg.TopCache = 2
	mers := runCount(t, cfg, seqs, len(want))

	require.Len(t, mers, len(want))
	for _, m := range mers {
		require.Equal(t, want[m.Sequence], m.Count, "mer %s", m.Sequence)
	}
	for i := 1; i < len(mers); i++ {
		require.GreaterOrEqual(t, mers[i-1].Count, mers[i].Count)
	}
}

func TestTopMers_NSmallerThanDistinct(t *testing.T) {
	seqs := testSeqs(30, 40)
	k := 3
	want := bruteCount(seqs, k)

	mers := runCount(t, DefaultConfig(k), seqs, 5)
	require.Len(t, mers, 5)

	// The reported prefix must be a true top-5: no unreported mer may
	// strictly beat a reported one.
	floor := mers[len(mers)-1].Count
	reported := map[string]bool{}
	for _, m := range mers {
		reported[m.Sequence] = true
	}
	for seq, count := range want {
		if count > floor {
			require.True(t, reported[seq], "mer %s count %d beats reported floor %d", seq, count, floor)
		}
	}
}

func TestClose_RemovesStoreFile(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig(3)
	cfg.StoreDir = dir

	c, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, c.AddSequence("GATTACA"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "store file must live in the configured dir")

	require.NoError(t, c.Close())
	require.NoError(t, c.Close()) // idempotent

	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "close must remove the store file")
}

func TestConcurrentRunsGetDistinctStoreFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig(3)
	cfg.StoreDir = dir

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()
	b, err := New(cfg)
	require.NoError(t, err)
	defer b.Close()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestNew_InvalidConfig(t *testing.T) {
	for _, cfg := range []Config{
		{K: 0},
		{K: 3, Precision: Precision(9)},
		{K: 3, Strategy: Strategy(9)},
	} {
		_, err := New(cfg)
		require.Error(t, err)
		require.Equal(t, KindInvalidArg, KindOf(err))
	}
}

func TestTopMers_InvalidN(t *testing.T) {
	cfg := DefaultConfig(2)
	cfg.StoreDir = t.TempDir()
	c, err := New(cfg)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.TopMers(0, 0)
	require.Error(t, err)
	require.Equal(t, KindInvalidArg, KindOf(err))
}

func TestMaxCountPerPrecision(t *testing.T) {
	for _, tc := range []struct {
		p   Precision
		max uint64
	}{
		{Precision8, 255},
		{Precision16, 65535},
		{Precision32, 1<<32 - 1},
		{Precision64, ^uint64(0)},
	} {
		cfg := DefaultConfig(3)
		cfg.Precision = tc.p
		cfg.StoreDir = t.TempDir()
		c, err := New(cfg)
		require.NoError(t, err)
		require.Equal(t, tc.max, c.MaxCount(), "precision %d", tc.p)
		require.NoError(t, c.Close())
	}
}

func TestStats(t *testing.T) {
	cfg := DefaultConfig(2)
	cfg.StoreDir = t.TempDir()
	c, err := New(cfg)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.AddSequence("GATC"))
	_, err = c.TopMers(5, 0)
	require.NoError(t, err)

	st := c.Stats()
	require.Equal(t, uint64(3), st.StoreEntries) // GA, AT, TC
	require.Equal(t, 3, st.CachedTop)
	require.Greater(t, st.StoreBytes, int64(0))
}

func TestSpillBoundaries_AdditiveAcrossFlushes(t *testing.T) {
	// Counts split across many spills must merge to the same totals.
	seqs := make([]string, 0, 64)
	for i := 0; i < 64; i++ {
		seqs = append(seqs, fmt.Sprintf("AAAA%s", testSeqs(1, 6)[0]))
	}
	k := 2
	want := bruteCount(seqs, k)

	for _, strat := range []Strategy{StrategySort, StrategyOrderedMap, StrategyHashMap} {
		cfg := DefaultConfig(k)
		cfg.Strategy = strat
		cfg.SpillTokens = 8
		cfg.SpillEntries = 4
		mers := runCount(t, cfg, seqs, len(want))

		require.Len(t, mers, len(want), "strategy %d", strat)
		for _, m := range mers {
			require.Equal(t, want[m.Sequence], m.Count, "strategy %d mer %s", strat, m.Sequence)
		}
	}
}
