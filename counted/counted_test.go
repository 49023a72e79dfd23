package counted

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFitsPrefix(t *testing.T) {
	require.True(t, FitsPrefix[uint8](255))
	require.False(t, FitsPrefix[uint8](256))
	require.True(t, FitsPrefix[int8](127))
	require.False(t, FitsPrefix[int8](128))
}

func TestVarintBytesRoundTrip(t *testing.T) {
	data := []byte("hello, minecraft")
	var buf bytes.Buffer
	require.NoError(t, EncodeVarintBytes(&buf, data))

	br := bufio.NewReader(&buf)
	got, err := DecodeVarintBytes(br, br, 0)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestVarintFloat32sRoundTrip(t *testing.T) {
	data := []float32{1.5, -2.25, 0, 3.14159}
	var buf bytes.Buffer
	require.NoError(t, EncodeVarintFloat32s(&buf, data))

	br := bufio.NewReader(&buf)
	got, err := DecodeVarintFloat32s(br, br)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestEncodeLengthOverflow(t *testing.T) {
	data := make([]byte, 200)
	var buf bytes.Buffer
	err := EncodeVarintSlice[byte](&buf, nil, nil)
	require.NoError(t, err)
	require.NoError(t, CheckLen[uint8](len(data)))
	require.Error(t, CheckLen[int8](len(data)))
}
