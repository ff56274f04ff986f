package mer

import (
	"fmt"
	"strings"
)

// ByteSeq emits byte-sequence keys for windows too wide to pack: each key
// is the raw k-length window of the encoded sequence, string-typed so it
// can serve directly as a map key. There is no rolling shortcut.
type ByteSeq struct {
	k int
}

// NewByteSeq returns a byte-sequence tokenizer for windows of width k.
func NewByteSeq(k int) (*ByteSeq, error) {
	if k < 1 {
		return nil, fmt.Errorf("mer: invalid kmer width %d", k)
	}
	return &ByteSeq{k: k}, nil
}

// Width returns the window width k.
func (t *ByteSeq) Width() int { return t.k }

// Tokens appends one key per window of the encoded sequence to dst and
// returns it. A sequence shorter than k yields no keys.
func (t *ByteSeq) Tokens(dst []string, encoded []byte) []string {
	if len(encoded) < t.k {
		return dst
	}
	for i := 0; i+t.k <= len(encoded); i++ {
		dst = append(dst, string(encoded[i:i+t.k]))
	}
	return dst
}

// Decode returns the encoded bases of key.
func (t *ByteSeq) Decode(key string) []byte { return []byte(key) }

// KeyLen is the serialized key size in bytes.
func (t *ByteSeq) KeyLen() int { return t.k }

// AppendKey appends the store serialization of key to dst.
func (t *ByteSeq) AppendKey(dst []byte, key string) []byte {
	return append(dst, key...)
}

// DecodeBytes returns the encoded bases of a serialized key.
func (t *ByteSeq) DecodeBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Compare orders keys lexicographically over their bytes.
func (t *ByteSeq) Compare(a, b string) int { return strings.Compare(a, b) }
