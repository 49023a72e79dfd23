package play

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEntityVelocityRoundTrip(t *testing.T) {
	p := EntityVelocity{EntityID: 7, VX: 1.0, VY: -0.5, VZ: 0.25}
	buf := EncodeEntityVelocity(nil, p)
	got, err := DecodeEntityVelocity(buf)
	require.NoError(t, err)
	require.Equal(t, p.EntityID, got.EntityID)
	require.InDelta(t, p.VX, got.VX, 1.0/8000.0)
	require.InDelta(t, p.VY, got.VY, 1.0/8000.0)
	require.InDelta(t, p.VZ, got.VZ, 1.0/8000.0)
}

func TestEntityRelativeMoveRoundTrip(t *testing.T) {
	p := EntityRelativeMove{EntityID: 3, DX: 1.0, DY: -2.0, DZ: 3.5, OnGround: true}
	buf, err := EncodeEntityRelativeMove(nil, p)
	require.NoError(t, err)
	got, err := DecodeEntityRelativeMove(buf)
	require.NoError(t, err)
	require.Equal(t, p.EntityID, got.EntityID)
	require.Equal(t, p.OnGround, got.OnGround)
	require.InDelta(t, p.DX, got.DX, 1.0/32.0)
	require.InDelta(t, p.DY, got.DY, 1.0/32.0)
	require.InDelta(t, p.DZ, got.DZ, 1.0/32.0)
}

func TestEntityRelativeMoveRejectsOutOfRange(t *testing.T) {
	_, err := EncodeEntityRelativeMove(nil, EntityRelativeMove{EntityID: 1, DX: 5.0})
	require.Error(t, err)
}

func TestJoinGameRoundTrip(t *testing.T) {
	p := JoinGame{
		EntityID:   99,
		GameMode:   2,
		Hardcore:   true,
		Dimension:  -1,
		Difficulty: 3,
		MaxPlayers: 20,
		LevelType:  "default",
	}
	buf := EncodeJoinGame(nil, p)
	got, err := DecodeJoinGame(buf)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestJoinGameRejectsInvalidGameMode(t *testing.T) {
	p := JoinGame{GameMode: 0, Hardcore: false}
	buf := EncodeJoinGame(nil, p)
	buf[4] = 0x07 // force an out-of-range gamemode in the packed byte
	_, err := DecodeJoinGame(buf)
	require.Error(t, err)
}

func TestMultiBlockChangeRoundTrip(t *testing.T) {
	p := MultiBlockChange{
		ChunkX: 5,
		ChunkZ: -3,
		Records: []BlockChange{
			{X: 1, Y: 64, Z: 2, BlockState: 4095},
			{X: 15, Y: 0, Z: 0, BlockState: 1},
		},
	}
	buf := EncodeMultiBlockChange(nil, p)
	got, err := DecodeMultiBlockChange(buf)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestMultiBlockChangeRejectsSizeMismatch(t *testing.T) {
	p := MultiBlockChange{Records: []BlockChange{{X: 1, Y: 1, Z: 1, BlockState: 1}}}
	buf := EncodeMultiBlockChange(nil, p)
	// corrupt data_size field (byte 10, single-byte varint here)
	buf[10] = 99
	_, err := DecodeMultiBlockChange(buf)
	require.Error(t, err)
}

func TestChangeGameStateRoundTrip(t *testing.T) {
	p := ChangeGameState{Reason: ReasonChangeGameMode, Value: 1.0}
	buf := EncodeChangeGameState(nil, p)
	got, err := DecodeChangeGameState(buf)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestOpenWindowRoundTrip(t *testing.T) {
	p := OpenWindow{WindowID: 1, Kind: WindowChest, Title: "Chest", SlotCount: 27}
	buf := EncodeOpenWindow(nil, p)
	got, err := DecodeOpenWindow(buf)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestOpenWindowHorseCarriesEntityID(t *testing.T) {
	p := OpenWindow{WindowID: 2, Kind: WindowHorse, Title: "Horse", SlotCount: 2, EntityID: 123}
	buf := EncodeOpenWindow(nil, p)
	got, err := DecodeOpenWindow(buf)
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestOpenWindowRejectsInvalidKind(t *testing.T) {
	buf := EncodeOpenWindow(nil, OpenWindow{WindowID: 1, Kind: 12, Title: "x", SlotCount: 1})
	_, err := DecodeOpenWindow(buf)
	require.Error(t, err)
}
