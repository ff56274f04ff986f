// Package mer turns encoded nucleotide sequences into fixed-width k-mer
// keys and back.
//
// Keys come in two shapes. Packed keys hold 3 bits per base in up to two
// unsigned registers and support a rolling fast path: consecutive windows
// share k-1 bases, so each step is a shift-and-or per register instead of
// a fresh pack. Byte-sequence keys (for very wide windows) are the raw
// k-length slice of the encoded sequence.
package mer

// BitsPerBase is the packed width of one encoded base. Three bits cover
// the five-symbol GTACN alphabet; two would force dropping N.
const BitsPerBase = 3

// Word is a register type for packed keys.
type Word interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Packed is a bit-packed k-mer key, stored little-end first: register 0
// holds the most recent bases. Unused high bits are always zero, so ==
// compares keys by value and Packed works directly as a map key.
type Packed[W Word] [2]W

// MaxPackedWidth is the widest window representable in packed form.
// Wider windows fall back to byte-sequence keys.
const MaxPackedWidth = 2 * 64 / BitsPerBase

// Width reports the packed register geometry for a window of width k:
// the register size in bits and the number of registers. ok is false when
// k is out of packed range and byte-sequence keys must be used instead.
//
// The selection is a stable contract; output never depends on it, only
// throughput does.
func Width(k int) (wordBits, regs int, ok bool) {
	switch {
	case k < 1:
		return 0, 0, false
	case k <= 2:
		return 8, 1, true
	case k <= 5:
		return 16, 1, true
	case k <= 10:
		return 32, 1, true
	case k <= 21:
		return 32, 2, true
	case k <= MaxPackedWidth:
		return 64, 2, true
	default:
		return 0, 0, false
	}
}
