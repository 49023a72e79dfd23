package varint

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeI32Boundaries(t *testing.T) {
	cases := []struct {
		v    int32
		want []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{25565, []byte{0xDD, 0xC7, 0x01}},
		{-1, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}},
		{-2147483648, []byte{0x80, 0x80, 0x80, 0x80, 0x08}},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		_, err := EncodeI32(&buf, c.v)
		require.NoError(t, err)
		require.Equal(t, c.want, buf.Bytes(), "encoding %d", c.v)

		got, n, err := DecodeI32(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		require.Equal(t, len(c.want), n)
		require.Equal(t, c.v, got)
	}
}

func TestDecodeI32TooLong(t *testing.T) {
	// Six continuation-flagged bytes exceed the 32-bit width's 5-byte max.
	data := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}
	_, _, err := DecodeI32(bytes.NewReader(data))
	require.Error(t, err)
}

func TestDecodeI32Truncated(t *testing.T) {
	data := []byte{0x80, 0x80}
	_, _, err := DecodeI32(bytes.NewReader(data))
	require.Error(t, err)
}

func TestRoundTripI64(t *testing.T) {
	values := []int64{0, 1, -1, 1 << 40, -(1 << 40), 9223372036854775807, -9223372036854775808}
	for _, v := range values {
		var buf bytes.Buffer
		_, err := EncodeI64(&buf, v)
		require.NoError(t, err)
		got, _, err := DecodeI64(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestLenI32MatchesAppend(t *testing.T) {
	for _, v := range []int32{0, 1, 127, 128, 25565, -1} {
		dst := AppendI32(nil, v)
		require.Equal(t, LenI32(v), len(dst))

		got, n, err := DecodeI32Bytes(dst)
		require.NoError(t, err)
		require.Equal(t, len(dst), n)
		require.Equal(t, v, got)
	}
}
