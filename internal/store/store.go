// Package store implements the disk-backed key→counter index behind a
// counting run.
//
// The store is a single-file hash index: a fixed header, an on-disk
// bucket table of chain heads, and fixed-size entry records appended
// behind it. Key length and counter width are constant for the life of
// one store, so every record is the same size and a cursor scan is a
// straight walk over the entry region.
//
// A bounded in-RAM offset cache keeps hot keys from touching the bucket
// table at all; sized generously it plays the role a page cache does for
// billion-entry workloads.
package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

const (
	magic      = "KMC1"
	version    = 1
	headerSize = 32
	slotSize   = 8
)

var (
	// ErrKeyExists is returned by Add when the key is already present.
	ErrKeyExists = errors.New("store: key already exists")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store: closed")
)

// Config describes the store geometry for one run.
type Config struct {
	// Path is created exclusively; an existing file is an error.
	Path string

	// Buckets is the hash bucket count. More buckets mean shorter
	// chains; size toward the expected distinct-key count.
	Buckets uint64

	// KeyLen is the fixed serialized key size in bytes.
	KeyLen int

	// CounterWidth is the on-disk counter size in bytes: 1, 2, 4 or 8.
	CounterWidth int

	// CacheEntries bounds the in-RAM key→offset cache. Zero disables it.
	CacheEntries int

	// Observer, when set, is called after every Increment, whether it
	// inserted or merged, with the key and its new count. Add and Put do
	// not call it.
	Observer func(key []byte, count uint64)
}

// Store is a disk-backed hash index. It is not safe for concurrent use.
type Store struct {
	f          *os.File
	path       string
	buckets    uint64
	keyLen     int
	ctrWidth   int
	satMax     uint64
	entrySize  int
	entriesOff int64
	size       int64
	count      uint64

	cacheMax int
	offsets  map[string]int64

	observer func(key []byte, count uint64)

	slotBuf  [slotSize]byte
	entryBuf []byte
	closed   bool
}

// Stats reports store metrics.
type Stats struct {
	Entries       uint64
	Buckets       uint64
	FileSize      int64
	CachedOffsets int
}

// Create creates the store file at cfg.Path and preallocates the bucket
// region. The file is exclusively owned by the returned store and is
// removed by Close.
func Create(cfg Config) (*Store, error) {
	switch cfg.CounterWidth {
	case 1, 2, 4, 8:
	default:
		return nil, fmt.Errorf("store: invalid counter width %d", cfg.CounterWidth)
	}
	if cfg.KeyLen < 1 {
		return nil, fmt.Errorf("store: invalid key length %d", cfg.KeyLen)
	}
	if cfg.Buckets < 1 {
		return nil, fmt.Errorf("store: invalid bucket count %d", cfg.Buckets)
	}

	f, err := os.OpenFile(cfg.Path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("store: create %s: %w", cfg.Path, err)
	}

	s := &Store{
		f:          f,
		path:       cfg.Path,
		buckets:    cfg.Buckets,
		keyLen:     cfg.KeyLen,
		ctrWidth:   cfg.CounterWidth,
		satMax:     counterMax(cfg.CounterWidth),
		entrySize:  cfg.KeyLen + cfg.CounterWidth + slotSize,
		entriesOff: headerSize + int64(cfg.Buckets)*slotSize,
		cacheMax:   cfg.CacheEntries,
		observer:   cfg.Observer,
	}
	s.size = s.entriesOff
	s.entryBuf = make([]byte, s.entrySize)
	if s.cacheMax > 0 {
		s.offsets = make(map[string]int64)
	}

	var hdr [headerSize]byte
	copy(hdr[0:4], magic)
	binary.LittleEndian.PutUint16(hdr[4:6], version)
	binary.LittleEndian.PutUint64(hdr[8:16], cfg.Buckets)
	binary.LittleEndian.PutUint32(hdr[16:20], uint32(cfg.KeyLen))
	binary.LittleEndian.PutUint32(hdr[20:24], uint32(cfg.CounterWidth))
	if _, err := f.WriteAt(hdr[:], 0); err != nil {
		s.teardown()
		return nil, fmt.Errorf("store: write header: %w", err)
	}
	if err := preallocate(f, s.entriesOff); err != nil {
		s.teardown()
		return nil, fmt.Errorf("store: preallocate bucket region: %w", err)
	}

	return s, nil
}

// counterMax returns the saturation value of a counter width in bytes.
func counterMax(width int) uint64 {
	if width >= 8 {
		return ^uint64(0)
	}
	return 1<<(8*uint(width)) - 1
}

// MaxCount returns the saturation value of this store's counters.
func (s *Store) MaxCount() uint64 { return s.satMax }

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Stats returns current store metrics.
func (s *Store) Stats() Stats {
	return Stats{
		Entries:       s.count,
		Buckets:       s.buckets,
		FileSize:      s.size,
		CachedOffsets: len(s.offsets),
	}
}

// FNV-1a constants for the 64-bit bucket hash.
const (
	fnvBasis64 uint64 = 14695981039346656037
	fnvPrime64 uint64 = 1099511628211
)

func fnv64(b []byte) uint64 {
	h := fnvBasis64
	for _, c := range b {
		h ^= uint64(c)
		h *= fnvPrime64
	}
	return h
}

func (s *Store) slotOff(key []byte) int64 {
	return headerSize + int64(fnv64(key)%s.buckets)*slotSize
}

// readSlot reads a bucket chain head. Zero means an empty bucket.
func (s *Store) readSlot(off int64) (int64, error) {
	if _, err := s.f.ReadAt(s.slotBuf[:], off); err != nil {
		return 0, fmt.Errorf("store: read bucket: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(s.slotBuf[:])), nil
}

func (s *Store) writeSlot(off, head int64) error {
	binary.LittleEndian.PutUint64(s.slotBuf[:], uint64(head))
	if _, err := s.f.WriteAt(s.slotBuf[:], off); err != nil {
		return fmt.Errorf("store: write bucket: %w", err)
	}
	return nil
}

// lookup returns the entry offset for key, or 0 when absent.
func (s *Store) lookup(key []byte) (int64, error) {
	if off, ok := s.offsets[string(key)]; ok {
		return off, nil
	}
	off, err := s.readSlot(s.slotOff(key))
	if err != nil {
		return 0, err
	}
	for off != 0 {
		if _, err := s.f.ReadAt(s.entryBuf, off); err != nil {
			return 0, fmt.Errorf("store: read entry: %w", err)
		}
		if string(s.entryBuf[:s.keyLen]) == string(key) {
			s.cacheOffset(key, off)
			return off, nil
		}
		off = int64(binary.LittleEndian.Uint64(s.entryBuf[s.keyLen+s.ctrWidth:]))
	}
	return 0, nil
}

func (s *Store) cacheOffset(key []byte, off int64) {
	if s.offsets == nil {
		return
	}
	if len(s.offsets) >= s.cacheMax {
		clear(s.offsets)
	}
	s.offsets[string(key)] = off
}

// insert appends a new entry and points its bucket chain at it.
func (s *Store) insert(key []byte, v uint64) error {
	slot := s.slotOff(key)
	head, err := s.readSlot(slot)
	if err != nil {
		return err
	}

	buf := s.entryBuf[:0]
	buf = append(buf, key...)
	buf = appendCounter(buf, v, s.ctrWidth)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(head))
	if _, err := s.f.WriteAt(buf, s.size); err != nil {
		return fmt.Errorf("store: append entry: %w", err)
	}
	if err := s.writeSlot(slot, s.size); err != nil {
		return err
	}
	s.cacheOffset(key, s.size)
	s.size += int64(s.entrySize)
	s.count++
	return nil
}

func appendCounter(dst []byte, v uint64, width int) []byte {
	for i := 0; i < width; i++ {
		dst = append(dst, byte(v))
		v >>= 8
	}
	return dst
}

func readCounter(b []byte) uint64 {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// Has reports whether key is present.
func (s *Store) Has(key []byte) (bool, error) {
	if s.closed {
		return false, ErrClosed
	}
	off, err := s.lookup(key)
	return off != 0, err
}

// Get returns the counter for key; ok is false when absent.
func (s *Store) Get(key []byte) (v uint64, ok bool, err error) {
	if s.closed {
		return 0, false, ErrClosed
	}
	off, err := s.lookup(key)
	if err != nil || off == 0 {
		return 0, false, err
	}
	v, err = s.readCounterAt(off)
	return v, err == nil, err
}

func (s *Store) readCounterAt(entryOff int64) (uint64, error) {
	buf := s.entryBuf[:s.ctrWidth]
	if _, err := s.f.ReadAt(buf, entryOff+int64(s.keyLen)); err != nil {
		return 0, fmt.Errorf("store: read counter: %w", err)
	}
	return readCounter(buf), nil
}

func (s *Store) writeCounterAt(entryOff int64, v uint64) error {
	buf := appendCounter(s.entryBuf[:0], v, s.ctrWidth)
	if _, err := s.f.WriteAt(buf, entryOff+int64(s.keyLen)); err != nil {
		return fmt.Errorf("store: write counter: %w", err)
	}
	return nil
}

// Put writes the counter for key unconditionally, inserting if absent.
func (s *Store) Put(key []byte, v uint64) error {
	if s.closed {
		return ErrClosed
	}
	off, err := s.lookup(key)
	if err != nil {
		return err
	}
	if off == 0 {
		return s.insert(key, v)
	}
	return s.writeCounterAt(off, v)
}

// Add inserts key with the given counter; ErrKeyExists when present.
func (s *Store) Add(key []byte, v uint64) error {
	if s.closed {
		return ErrClosed
	}
	off, err := s.lookup(key)
	if err != nil {
		return err
	}
	if off != 0 {
		return ErrKeyExists
	}
	return s.insert(key, v)
}

// Increment merges a delta into key's counter with saturation, inserting
// on first sight, and notifies the observer with the new count.
func (s *Store) Increment(key []byte, delta uint64) error {
	if s.closed {
		return ErrClosed
	}
	off, err := s.lookup(key)
	if err != nil {
		return err
	}

	if off == 0 {
		if delta > s.satMax {
			delta = s.satMax
		}
		if err := s.insert(key, delta); err != nil {
			return err
		}
		s.notify(key, delta)
		return nil
	}

	cur, err := s.readCounterAt(off)
	if err != nil {
		return err
	}
	next := cur + delta
	if s.satMax-cur < delta {
		next = s.satMax
	}
	if err := s.writeCounterAt(off, next); err != nil {
		return err
	}
	s.notify(key, next)
	return nil
}

func (s *Store) notify(key []byte, count uint64) {
	if s.observer != nil {
		s.observer(key, count)
	}
}

// Close closes and removes the backing file. It is idempotent.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.teardown()
}

func (s *Store) teardown() error {
	closeErr := s.f.Close()
	removeErr := os.Remove(s.path)
	return errors.Join(closeErr, removeErr)
}
