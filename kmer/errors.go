package kmer

import (
	"errors"
	"fmt"
)

// Kind classifies an error with the fixed numeric taxonomy reported to
// callers and surfaced in exit diagnostics.
type Kind int

const (
	// KindNone marks the absence of a classification.
	KindNone Kind = iota

	// KindIORead is a failure reading the input stream.
	KindIORead

	// KindBadRecord is a record-framing violation.
	KindBadRecord

	// KindBadBase is a non-alphabet character in a sequence.
	KindBadBase

	// KindStoreIO is a persistent-store I/O failure.
	KindStoreIO

	// KindInvalidArg is a command-line parse or bounds failure.
	KindInvalidArg

	// KindEmptyInput means the stream ended before any record.
	KindEmptyInput
)

func (k Kind) String() string {
	switch k {
	case KindIORead:
		return "io_read"
	case KindBadRecord:
		return "bad_record"
	case KindBadBase:
		return "bad_base"
	case KindStoreIO:
		return "store_io"
	case KindInvalidArg:
		return "invalid_arg"
	case KindEmptyInput:
		return "empty_input"
	default:
		return "unknown"
	}
}

// Error carries a numeric kind and a message. Batch operations may
// combine several with errors.Join; the joined error reports every
// message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Errf builds an Error of the given kind.
func Errf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and context to err. It returns nil when err is
// nil so call sites can wrap unconditionally.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain, or
// KindNone.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}
