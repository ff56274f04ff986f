package fastq

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNext_HappyPath(t *testing.T) {
	in := "@r1\nGATTACA\n+\nIIIIIII\n@r2\ngatc\n+x\nIIII\n"
	r := NewReader(strings.NewReader(in))

	rec, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, Record{ID: "@r1", Sequence: "GATTACA", Marker: "+", Quality: "IIIIIII"}, rec)

	rec, err = r.Next()
	require.NoError(t, err)
	require.Equal(t, "gatc", rec.Sequence)

	_, err = r.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestNext_EmptyStream(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	_, err := r.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestNext_BadSeqID(t *testing.T) {
	r := NewReader(strings.NewReader(">r1\nGAT\n+\nIII\n"))
	_, err := r.Next()
	require.ErrorIs(t, err, ErrBadSeqID)
}

func TestNext_BadMarker(t *testing.T) {
	r := NewReader(strings.NewReader("@r1\nGAT\n-\nIII\n"))
	_, err := r.Next()
	require.ErrorIs(t, err, ErrBadMarker)
}

func TestNext_BadBase(t *testing.T) {
	r := NewReader(strings.NewReader("@r1\nGATZ\n+\nIIII\n"))
	_, err := r.Next()

	var base *BaseError
	require.ErrorAs(t, err, &base)
	require.Equal(t, byte('Z'), base.Base)
	require.Contains(t, err.Error(), "invalid base pair")
	require.Contains(t, err.Error(), "90")
}

func TestNext_TruncatedRecord(t *testing.T) {
	r := NewReader(strings.NewReader("@r1\nGAT\n+\n"))
	_, err := r.Next()
	require.ErrorIs(t, err, ErrTruncated)
}

func TestNext_CRLF(t *testing.T) {
	r := NewReader(strings.NewReader("@r1\r\nGAT\r\n+\r\nIII\r\n"))
	rec, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, "GAT", rec.Sequence)
}
