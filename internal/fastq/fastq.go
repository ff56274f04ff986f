// Package fastq reads four-line FASTQ records from a byte stream.
package fastq

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/logik1286/kmerCounter/internal/alphabet"
)

var (
	// ErrBadSeqID reports a record whose first line does not begin
	// with '@'.
	ErrBadSeqID = errors.New("fastq: malformed entry, sequence ID does not begin with @")

	// ErrBadMarker reports a record whose third line does not begin
	// with '+'.
	ErrBadMarker = errors.New("fastq: malformed entry, third line does not begin with +")

	// ErrTruncated reports a stream that ended in the middle of a
	// record.
	ErrTruncated = errors.New("fastq: truncated record at end of stream")
)

// BaseError reports a sequence character outside the GTACN alphabet.
type BaseError struct {
	Base byte // offending ASCII value
}

func (e *BaseError) Error() string {
	return fmt.Sprintf("fastq: invalid base pair with ASCII value : %d", e.Base)
}

// Record is one four-line FASTQ entry.
type Record struct {
	ID       string
	Sequence string
	Marker   string
	Quality  string
}

// Reader yields validated records from a FASTQ stream.
type Reader struct {
	s *bufio.Scanner
}

// maxLine bounds a single read line. Long-read platforms produce
// sequences well past the bufio default.
const maxLine = 64 * 1024 * 1024

// NewReader returns a reader over r.
func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &Reader{s: s}
}

// Next returns the next record. It returns io.EOF at a clean end of
// stream and ErrTruncated when the stream ends mid-record.
func (r *Reader) Next() (Record, error) {
	var lines [4]string
	for i := range lines {
		if !r.s.Scan() {
			if err := r.s.Err(); err != nil {
				return Record{}, fmt.Errorf("fastq: read: %w", err)
			}
			if i == 0 {
				return Record{}, io.EOF
			}
			return Record{}, ErrTruncated
		}
		lines[i] = r.s.Text()
	}

	rec := Record{ID: lines[0], Sequence: lines[1], Marker: lines[2], Quality: lines[3]}
	if len(rec.ID) == 0 || rec.ID[0] != '@' {
		return Record{}, ErrBadSeqID
	}
	if len(rec.Marker) == 0 || rec.Marker[0] != '+' {
		return Record{}, ErrBadMarker
	}
	for i := 0; i < len(rec.Sequence); i++ {
		if !alphabet.Valid(rec.Sequence[i]) {
			return Record{}, &BaseError{Base: rec.Sequence[i]}
		}
	}
	return rec, nil
}
