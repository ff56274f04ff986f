package kmer

import (
	"errors"
	"path/filepath"
	"slices"
	"unsafe"

	"github.com/google/uuid"

	"github.com/logik1286/kmerCounter/internal/alphabet"
	"github.com/logik1286/kmerCounter/internal/store"
	"github.com/logik1286/kmerCounter/internal/topn"
)

// tokenizer abstracts a key representation: window encode/decode plus
// the byte view the store keys on.
type tokenizer[K comparable] interface {
	Tokens(dst []K, encoded []byte) []K
	Decode(key K) []byte
	DecodeBytes(b []byte) []byte
	AppendKey(dst []byte, key K) []byte
	KeyLen() int
	Compare(a, b K) int
}

// engine is the strategy-and-representation independent controller
// surface Counter delegates to.
type engine interface {
	addSequence(seq string) error
	topMers(n int, threshold uint64) ([]Mer, error)
	maxCount() uint64
	stats() Stats
	close() error
}

// engineImpl drives tokenize → aggregate → spill → top-N for one
// concrete key type and counter width.
type engineImpl[K comparable, C counterType] struct {
	k   int
	tok tokenizer[K]
	agg aggregator[K]
	db  *store.Store
	top *topn.List

	enc    []byte
	toks   []K
	keyBuf []byte
	closed bool
}

func newEngine[K comparable, C counterType](cfg Config, tok tokenizer[K]) (engine, error) {
	var c C
	top := topn.New(cfg.TopCache)

	path := filepath.Join(cfg.StoreDir, "kmercount-"+uuid.NewString()+".db")
	db, err := store.Create(store.Config{
		Path:         path,
		Buckets:      cfg.StoreBuckets,
		KeyLen:       tok.KeyLen(),
		CounterWidth: int(unsafe.Sizeof(c)),
		CacheEntries: cfg.StoreCache,
		Observer:     top.Observe,
	})
	if err != nil {
		return nil, Wrap(KindStoreIO, err, "creating count store")
	}

	e := &engineImpl[K, C]{k: cfg.K, tok: tok, db: db, top: top}
	switch cfg.Strategy {
	case StrategySort:
		e.agg = newSortAggregator[K, C](cfg.SpillTokens, tok.Compare, e.emit)
	case StrategyOrderedMap:
		e.agg = newMapAggregator[K, C](cfg.SpillEntries, true, e.emit)
	case StrategyHashMap:
		e.agg = newMapAggregator[K, C](cfg.SpillEntries, false, e.emit)
	}
	return e, nil
}

// emit merges one spill delta into the store.
func (e *engineImpl[K, C]) emit(key K, count C) error {
	e.keyBuf = e.tok.AppendKey(e.keyBuf[:0], key)
	if err := e.db.Increment(e.keyBuf, uint64(count)); err != nil {
		return Wrap(KindStoreIO, err, "merging spill into count store")
	}
	return nil
}

func (e *engineImpl[K, C]) addSequence(seq string) error {
	if e.closed {
		return Wrap(KindStoreIO, store.ErrClosed, "adding sequence")
	}
	enc, err := alphabet.Encode(e.enc[:0], seq)
	e.enc = enc
	if err != nil {
		return Wrap(KindBadBase, err, "encoding sequence")
	}
	e.toks = e.tok.Tokens(e.toks[:0], enc)
	return e.agg.ingest(e.toks)
}

func (e *engineImpl[K, C]) topMers(n int, threshold uint64) ([]Mer, error) {
	if e.closed {
		return nil, Wrap(KindStoreIO, store.ErrClosed, "reporting top mers")
	}
	if err := e.agg.flush(); err != nil {
		return nil, err
	}

	entries, err := e.topKeys(n, threshold)
	if err != nil {
		return nil, err
	}

	mers := make([]Mer, 0, len(entries))
	for _, ent := range entries {
		text, err := alphabet.Decode(nil, e.tok.DecodeBytes([]byte(ent.Key)))
		if err != nil {
			return nil, Wrap(KindStoreIO, err, "decoding stored key")
		}
		mers = append(mers, Mer{Sequence: string(text), Count: ent.Count})
	}

	slices.SortStableFunc(mers, func(a, b Mer) int {
		switch {
		case a.Count > b.Count:
			return -1
		case a.Count < b.Count:
			return 1
		default:
			return 0
		}
	})
	if n < len(mers) {
		mers = mers[:n]
	}
	return mers, nil
}

// topKeys serves the ranking from the online cache when it can, and
// otherwise replays a full cursor scan into a fresh bounded list.
func (e *engineImpl[K, C]) topKeys(total int, minFilter uint64) ([]topn.Entry, error) {
	if total <= e.top.Len() {
		return filterEntries(e.top.Entries()[:total], minFilter), nil
	}

	fresh := topn.New(total)
	cur := e.db.Cursor()
	for {
		key, count, ok, err := cur.Next()
		if err != nil {
			return nil, Wrap(KindStoreIO, err, "scanning count store")
		}
		if !ok {
			break
		}
		fresh.Observe(key, count)
	}
	return filterEntries(fresh.Entries(), minFilter), nil
}

func filterEntries(entries []topn.Entry, minFilter uint64) []topn.Entry {
	out := make([]topn.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Count > minFilter {
			out = append(out, e)
		}
	}
	return out
}

func (e *engineImpl[K, C]) maxCount() uint64 {
	return uint64(^C(0))
}

func (e *engineImpl[K, C]) stats() Stats {
	st := e.db.Stats()
	return Stats{
		StoreEntries: st.Entries,
		StoreBytes:   st.FileSize,
		CachedTop:    e.top.Len(),
	}
}

func (e *engineImpl[K, C]) close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if err := e.db.Close(); err != nil && !errors.Is(err, store.ErrClosed) {
		return Wrap(KindStoreIO, err, "removing count store")
	}
	return nil
}
