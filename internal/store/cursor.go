package store

import (
	"fmt"
)

// Cursor scans every entry once, in storage order. The order is
// unspecified to callers.
type Cursor struct {
	s   *Store
	off int64
	buf []byte
}

// Cursor returns a cursor positioned before the first entry.
func (s *Store) Cursor() *Cursor {
	return &Cursor{s: s, off: s.entriesOff, buf: make([]byte, s.entrySize)}
}

// Next returns the next entry. The key slice is only valid until the
// following call. ok is false at the end of the scan.
func (c *Cursor) Next() (key []byte, count uint64, ok bool, err error) {
	if c.s.closed {
		return nil, 0, false, ErrClosed
	}
	if c.off >= c.s.size {
		return nil, 0, false, nil
	}
	if _, err := c.s.f.ReadAt(c.buf, c.off); err != nil {
		return nil, 0, false, fmt.Errorf("store: cursor read: %w", err)
	}
	c.off += int64(c.s.entrySize)

	key = c.buf[:c.s.keyLen]
	count = readCounter(c.buf[c.s.keyLen : c.s.keyLen+c.s.ctrWidth])
	return key, count, true, nil
}
