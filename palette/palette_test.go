package palette

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSingleValueUntouched(t *testing.T) {
	c := New(StateKind, 16, 15, 7)
	for i := 0; i < 16; i++ {
		require.Equal(t, uint16(7), c.Get(i))
	}
}

func TestStateContainerWidensThroughAllTiers(t *testing.T) {
	c := New(StateKind, 512, 15, 0)
	values := make([]uint16, 512)
	for i := range values {
		values[i] = uint16(511 - i)
	}
	for i, v := range values {
		require.NoError(t, c.Set(i, v))
		for j := 0; j <= i; j++ {
			require.Equal(t, values[j], c.Get(j), "index %d after writing %d", j, i)
		}
	}
}

func TestBiomeContainerOverflowsPastLinearCap(t *testing.T) {
	c := New(BiomeKind, 8, 0, 0)
	for i := 0; i < 8; i++ {
		require.NoError(t, c.Set(i, uint16(i)))
	}
	// A 9th distinct value has no remaining tier to widen into.
	err := c.Set(0, 200)
	require.Error(t, err)
}

func TestEncodeDecodeSingleValue(t *testing.T) {
	c := New(StateKind, 16, 15, 42)
	buf := c.Encode(nil)

	got, n, err := Decode(buf, StateKind, 16, 15)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	for i := 0; i < 16; i++ {
		require.Equal(t, uint16(42), got.Get(i))
	}
}

func TestEncodeDecodeLinear(t *testing.T) {
	c := New(StateKind, 16, 15, 0)
	want := []uint16{1, 2, 3, 1, 2, 3, 0, 0, 1, 2, 3, 1, 2, 3, 0, 0}
	for i, v := range want {
		require.NoError(t, c.Set(i, v))
	}
	buf := c.Encode(nil)

	got, n, err := Decode(buf, StateKind, 16, 15)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	for i, v := range want {
		require.Equal(t, v, got.Get(i))
	}
}

func TestEncodeDecodeGlobal(t *testing.T) {
	const n = 512
	c := New(StateKind, n, 15, 0)
	for i := 0; i < n; i++ {
		// 512 distinct values exceeds the Mapped tier's 256-entry ceiling,
		// forcing promotion to Global.
		require.NoError(t, c.Set(i, uint16(i)))
	}
	buf := c.Encode(nil)
	require.Equal(t, byte(globalMarker), buf[0])

	got, n2, err := Decode(buf, StateKind, n, 15)
	require.NoError(t, err)
	require.Equal(t, len(buf), n2)
	for i := 0; i < n; i++ {
		require.Equal(t, uint16(i), got.Get(i))
	}
}

func TestEncodeDecodeBiomeLinear(t *testing.T) {
	c := New(BiomeKind, 64, 0, 0)
	want := make([]uint16, 64)
	for i := range want {
		want[i] = uint16(i % 5)
	}
	for i, v := range want {
		require.NoError(t, c.Set(i, v))
	}
	buf := c.Encode(nil)

	got, n, err := Decode(buf, BiomeKind, 64, 0)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	for i, v := range want {
		require.Equal(t, v, got.Get(i))
	}
}
