package bitfield

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPositionGolden(t *testing.T) {
	v := PackPosition(18357644, 831, 20882616)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	require.Equal(t, []byte{0x46, 0x07, 0x63, 0x0C, 0x3F, 0x4E, 0xA4, 0xB8}, buf[:])

	x, y, z := UnpackPosition(v)
	require.Equal(t, int64(18357644), x)
	require.Equal(t, int64(831), y)
	require.Equal(t, int64(20882616), z)
}

func TestPositionAllOnes(t *testing.T) {
	v := PackPosition(-1, -1, -1)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	for _, b := range buf {
		require.Equal(t, byte(0xFF), b)
	}
	x, y, z := UnpackPosition(v)
	require.Equal(t, int64(-1), x)
	require.Equal(t, int64(-1), y)
	require.Equal(t, int64(-1), z)
}

func TestPosition442RoundTrip(t *testing.T) {
	v := PackPosition442(100, -64, -200)
	x, y, z := UnpackPosition442(v)
	require.Equal(t, int64(100), x)
	require.Equal(t, int64(-64), y)
	require.Equal(t, int64(-200), z)
}

func TestGameModeRoundTrip(t *testing.T) {
	for gm := uint8(0); gm <= 3; gm++ {
		for _, hc := range []bool{false, true} {
			b := PackGameMode(gm, hc)
			got, hardcore, ok := UnpackGameMode(b)
			require.True(t, ok)
			require.Equal(t, gm, got)
			require.Equal(t, hc, hardcore)
		}
	}
}

func TestGameModeInvalid(t *testing.T) {
	_, _, ok := UnpackGameMode(0x05)
	require.False(t, ok)
}
