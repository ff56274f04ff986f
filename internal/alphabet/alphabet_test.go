package alphabet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncode_FixedTable(t *testing.T) {
	enc, err := Encode(nil, "GTCAN")
	require.NoError(t, err)
	require.Equal(t, []byte{0, 1, 2, 3, 4}, enc)
}

func TestEncode_Uppercases(t *testing.T) {
	enc, err := Encode(nil, "gAtCn")
	require.NoError(t, err)

	dec, err := Decode(nil, enc)
	require.NoError(t, err)
	require.Equal(t, "GATCN", string(dec))
}

func TestEncode_InvalidBase(t *testing.T) {
	_, err := Encode(nil, "GATZ")
	require.Error(t, err)

	var base *InvalidBaseError
	require.ErrorAs(t, err, &base)
	require.Equal(t, byte('Z'), base.Base)
	require.Equal(t, 3, base.Offset)
	require.Contains(t, err.Error(), "90")
}

func TestEncode_ReusesDst(t *testing.T) {
	buf := make([]byte, 0, 16)
	enc, err := Encode(buf, "GGG")
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0}, enc)

	enc, err = Encode(enc[:0], "AA")
	require.NoError(t, err)
	require.Equal(t, []byte{3, 3}, enc)
}

func TestDecode_InvalidValue(t *testing.T) {
	_, err := Decode(nil, []byte{0, 5})
	require.Error(t, err)

	var val *InvalidValueError
	require.ErrorAs(t, err, &val)
	require.Equal(t, byte(5), val.Value)
	require.Equal(t, 1, val.Offset)
}

func TestRoundTrip(t *testing.T) {
	for _, text := range []string{"", "G", "GATTACA", "NNNNN", "gattaca"} {
		enc, err := Encode(nil, text)
		require.NoError(t, err)

		dec, err := Decode(nil, enc)
		require.NoError(t, err)

		want := make([]byte, len(text))
		for i := 0; i < len(text); i++ {
			c := text[i]
			if c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			want[i] = c
		}
		require.Equal(t, string(want), string(dec))
	}
}
