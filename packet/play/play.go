// Package play implements a representative slice of the Play state's
// packets: the ones that exercise the fixed-point, bitfield, and
// palette-adjacent wire conventions named across §4 rather than the full
// several-hundred-packet surface of a real server.
package play

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/dmitrymodder/mcwire/bitfield"
	"github.com/dmitrymodder/mcwire/fixedpoint"
	"github.com/dmitrymodder/mcwire/mcerr"
	"github.com/dmitrymodder/mcwire/varint"
)

// EntityVelocity is clientbound: sets an entity's velocity in units of
// 1/8000 block per tick along each axis.
type EntityVelocity struct {
	EntityID  int32
	VX, VY, VZ float64
}

func EncodeEntityVelocity(dst []byte, p EntityVelocity) []byte {
	dst = varint.AppendI32(dst, p.EntityID)
	var buf [6]byte
	binary.BigEndian.PutUint16(buf[0:2], uint16(fixedpoint.EntityVelocityEncode(p.VX)))
	binary.BigEndian.PutUint16(buf[2:4], uint16(fixedpoint.EntityVelocityEncode(p.VY)))
	binary.BigEndian.PutUint16(buf[4:6], uint16(fixedpoint.EntityVelocityEncode(p.VZ)))
	return append(dst, buf[:]...)
}

func DecodeEntityVelocity(payload []byte) (EntityVelocity, error) {
	r := bytes.NewReader(payload)
	id, _, err := varint.DecodeI32(r)
	if err != nil {
		return EntityVelocity{}, err
	}
	var buf [6]byte
	if _, err := r.Read(buf[:]); err != nil {
		return EntityVelocity{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "entity velocity components", err)
	}
	vx := fixedpoint.EntityVelocityDecode(int16(binary.BigEndian.Uint16(buf[0:2])))
	vy := fixedpoint.EntityVelocityDecode(int16(binary.BigEndian.Uint16(buf[2:4])))
	vz := fixedpoint.EntityVelocityDecode(int16(binary.BigEndian.Uint16(buf[4:6])))
	return EntityVelocity{EntityID: id, VX: vx, VY: vy, VZ: vz}, nil
}

// EntityRelativeMove is clientbound: moves an entity by a small delta
// expressed in the 5-bit fixed-point encoding, valid only for deltas within
// [-4.0, 4.0).
type EntityRelativeMove struct {
	EntityID       int32
	DX, DY, DZ     float64
	OnGround       bool
}

func EncodeEntityRelativeMove(dst []byte, p EntityRelativeMove) ([]byte, error) {
	for _, d := range []float64{p.DX, p.DY, p.DZ} {
		if !fixedpoint.EntityMoveInRange(d) {
			return nil, mcerr.New(mcerr.KindLengthOverflow, "entity relative move delta out of encodable range")
		}
	}
	dst = varint.AppendI32(dst, p.EntityID)
	dst = append(dst, byte(fixedpoint.EntityMoveEncode(p.DX)))
	dst = append(dst, byte(fixedpoint.EntityMoveEncode(p.DY)))
	dst = append(dst, byte(fixedpoint.EntityMoveEncode(p.DZ)))
	if p.OnGround {
		dst = append(dst, 1)
	} else {
		dst = append(dst, 0)
	}
	return dst, nil
}

func DecodeEntityRelativeMove(payload []byte) (EntityRelativeMove, error) {
	r := bytes.NewReader(payload)
	id, _, err := varint.DecodeI32(r)
	if err != nil {
		return EntityRelativeMove{}, err
	}
	var buf [4]byte
	if _, err := r.Read(buf[:]); err != nil {
		return EntityRelativeMove{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "entity relative move body", err)
	}
	return EntityRelativeMove{
		EntityID: id,
		DX:       fixedpoint.EntityMoveDecode(int8(buf[0])),
		DY:       fixedpoint.EntityMoveDecode(int8(buf[1])),
		DZ:       fixedpoint.EntityMoveDecode(int8(buf[2])),
		OnGround: buf[3] != 0,
	}, nil
}

// JoinGame is clientbound, sent once at the start of the Play state.
type JoinGame struct {
	EntityID   int32
	GameMode   uint8
	Hardcore   bool
	Dimension  int32
	Difficulty uint8
	MaxPlayers uint8
	LevelType  string
}

func EncodeJoinGame(dst []byte, p JoinGame) []byte {
	var eid [4]byte
	binary.BigEndian.PutUint32(eid[:], uint32(p.EntityID))
	dst = append(dst, eid[:]...)
	dst = append(dst, bitfield.PackGameMode(p.GameMode, p.Hardcore))
	var dim [4]byte
	binary.BigEndian.PutUint32(dim[:], uint32(p.Dimension))
	dst = append(dst, dim[:]...)
	dst = append(dst, p.Difficulty, p.MaxPlayers)
	dst = varint.AppendI32(dst, int32(len(p.LevelType)))
	dst = append(dst, p.LevelType...)
	return dst
}

func DecodeJoinGame(payload []byte) (JoinGame, error) {
	r := bytes.NewReader(payload)
	var eid, dim [4]byte
	if _, err := r.Read(eid[:]); err != nil {
		return JoinGame{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "join game entity id", err)
	}
	var gmByte [1]byte
	if _, err := r.Read(gmByte[:]); err != nil {
		return JoinGame{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "join game gamemode", err)
	}
	gameMode, hardcore, ok := bitfield.UnpackGameMode(gmByte[0])
	if !ok {
		return JoinGame{}, mcerr.New(mcerr.KindInvalidEnum, "join game gamemode out of range")
	}
	if _, err := r.Read(dim[:]); err != nil {
		return JoinGame{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "join game dimension", err)
	}
	var rest [2]byte
	if _, err := r.Read(rest[:]); err != nil {
		return JoinGame{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "join game difficulty/max players", err)
	}
	n, _, err := varint.DecodeI32(r)
	if err != nil {
		return JoinGame{}, err
	}
	if n < 0 || int(n) > r.Len() {
		return JoinGame{}, mcerr.New(mcerr.KindShortRead, "join game level type length exceeds payload")
	}
	levelType := make([]byte, n)
	if _, err := r.Read(levelType); err != nil {
		return JoinGame{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "join game level type", err)
	}
	return JoinGame{
		EntityID:   int32(binary.BigEndian.Uint32(eid[:])),
		GameMode:   gameMode,
		Hardcore:   hardcore,
		Dimension:  int32(binary.BigEndian.Uint32(dim[:])),
		Difficulty: rest[0],
		MaxPlayers: rest[1],
		LevelType:  string(levelType),
	}, nil
}

// BlockChange is a single entry of a MultiBlockChange record, packed into
// 4 bytes as z:4 | x:4 | y:8 | block_state:16.
type BlockChange struct {
	X, Y, Z    uint8
	BlockState uint16
}

func encodeBlockChangeRecord(dst []byte, r BlockChange) []byte {
	var buf [4]byte
	buf[0] = ((r.Z & 0x0F) << 4) | (r.X & 0x0F)
	buf[1] = r.Y
	binary.BigEndian.PutUint16(buf[2:4], r.BlockState)
	return append(dst, buf[:]...)
}

func decodeBlockChangeRecord(b []byte) BlockChange {
	return BlockChange{
		X:          b[0] & 0x0F,
		Z:          (b[0] >> 4) & 0x0F,
		Y:          b[1],
		BlockState: binary.BigEndian.Uint16(b[2:4]),
	}
}

// MultiBlockChange is clientbound: a batch of block updates within one
// chunk column, each packed into a 4-byte record.
type MultiBlockChange struct {
	ChunkX, ChunkZ int32
	Records        []BlockChange
}

func EncodeMultiBlockChange(dst []byte, p MultiBlockChange) []byte {
	var coords [8]byte
	binary.BigEndian.PutUint32(coords[0:4], uint32(p.ChunkX))
	binary.BigEndian.PutUint32(coords[4:8], uint32(p.ChunkZ))
	dst = append(dst, coords[:]...)
	var count [2]byte
	binary.BigEndian.PutUint16(count[:], uint16(len(p.Records)))
	dst = append(dst, count[:]...)
	dst = varint.AppendI32(dst, int32(len(p.Records)*4))
	for _, rec := range p.Records {
		dst = encodeBlockChangeRecord(dst, rec)
	}
	return dst
}

func DecodeMultiBlockChange(payload []byte) (MultiBlockChange, error) {
	r := bytes.NewReader(payload)
	var coords [8]byte
	if _, err := r.Read(coords[:]); err != nil {
		return MultiBlockChange{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "multi block change chunk coords", err)
	}
	var count [2]byte
	if _, err := r.Read(count[:]); err != nil {
		return MultiBlockChange{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "multi block change record count", err)
	}
	recordCount := binary.BigEndian.Uint16(count[:])
	dataSize, _, err := varint.DecodeI32(r)
	if err != nil {
		return MultiBlockChange{}, err
	}
	if dataSize != int32(recordCount)*4 {
		return MultiBlockChange{}, mcerr.New(mcerr.KindLengthOverflow, "multi block change data size does not match record count")
	}
	records := make([]BlockChange, recordCount)
	var rec [4]byte
	for i := range records {
		if _, err := r.Read(rec[:]); err != nil {
			return MultiBlockChange{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "multi block change record", err)
		}
		records[i] = decodeBlockChangeRecord(rec[:])
	}
	return MultiBlockChange{
		ChunkX:  int32(binary.BigEndian.Uint32(coords[0:4])),
		ChunkZ:  int32(binary.BigEndian.Uint32(coords[4:8])),
		Records: records,
	}, nil
}

// ChangeGameStateReason names the meaning of ChangeGameState.Value.
type ChangeGameStateReason uint8

const (
	ReasonInvalidBed         ChangeGameStateReason = 0
	ReasonEndRaining         ChangeGameStateReason = 1
	ReasonBeginRaining       ChangeGameStateReason = 2
	ReasonChangeGameMode     ChangeGameStateReason = 3
	ReasonExitEnd            ChangeGameStateReason = 4
	ReasonDemoMessage        ChangeGameStateReason = 5
	ReasonArrowHitPlayer     ChangeGameStateReason = 6
	ReasonFadeValue          ChangeGameStateReason = 7
	ReasonFadeTime           ChangeGameStateReason = 8
	ReasonPlayElderGuardian  ChangeGameStateReason = 10
)

// ChangeGameState is clientbound: a miscellaneous world-state notification
// whose float Value is reinterpreted by Reason (e.g. reason 3 carries a
// gamemode in the low byte, reason 5 a demo-message code).
type ChangeGameState struct {
	Reason ChangeGameStateReason
	Value  float32
}

func EncodeChangeGameState(dst []byte, p ChangeGameState) []byte {
	dst = append(dst, byte(p.Reason))
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], math.Float32bits(p.Value))
	return append(dst, buf[:]...)
}

func DecodeChangeGameState(payload []byte) (ChangeGameState, error) {
	if len(payload) != 5 {
		return ChangeGameState{}, mcerr.New(mcerr.KindShortRead, "change game state payload must be 5 bytes")
	}
	value := math.Float32frombits(binary.BigEndian.Uint32(payload[1:5]))
	return ChangeGameState{Reason: ChangeGameStateReason(payload[0]), Value: value}, nil
}

// WindowKind enumerates the fixed 0..=10 inventory kinds a server can open;
// kind 11 (horse) carries a trailing entity id not present for the others.
type WindowKind uint8

const (
	WindowChest WindowKind = iota
	WindowCraftingTable
	WindowFurnace
	WindowDispenser
	WindowEnchantmentTable
	WindowBrewingStand
	WindowVillager
	WindowBeacon
	WindowAnvil
	WindowHopper
	WindowDropper
	WindowHorse WindowKind = 11
)

// OpenWindow is clientbound: tells the client to display a server-side
// inventory.
type OpenWindow struct {
	WindowID  uint8
	Kind      WindowKind
	Title     string
	SlotCount uint8
	EntityID  int32 // only meaningful when Kind == WindowHorse
}

func EncodeOpenWindow(dst []byte, p OpenWindow) []byte {
	dst = append(dst, p.WindowID, byte(p.Kind))
	dst = varint.AppendI32(dst, int32(len(p.Title)))
	dst = append(dst, p.Title...)
	dst = append(dst, p.SlotCount)
	if p.Kind == WindowHorse {
		var eid [4]byte
		binary.BigEndian.PutUint32(eid[:], uint32(p.EntityID))
		dst = append(dst, eid[:]...)
	}
	return dst
}

func DecodeOpenWindow(payload []byte) (OpenWindow, error) {
	r := bytes.NewReader(payload)
	var head [2]byte
	if _, err := r.Read(head[:]); err != nil {
		return OpenWindow{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "open window header", err)
	}
	kind := WindowKind(head[1])
	if kind > WindowHorse {
		return OpenWindow{}, mcerr.New(mcerr.KindInvalidEnum, "open window kind out of range")
	}
	n, _, err := varint.DecodeI32(r)
	if err != nil {
		return OpenWindow{}, err
	}
	if n < 0 || int(n) > r.Len() {
		return OpenWindow{}, mcerr.New(mcerr.KindShortRead, "open window title length exceeds payload")
	}
	title := make([]byte, n)
	if _, err := r.Read(title); err != nil {
		return OpenWindow{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "open window title", err)
	}
	var slots [1]byte
	if _, err := r.Read(slots[:]); err != nil {
		return OpenWindow{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "open window slot count", err)
	}
	out := OpenWindow{WindowID: head[0], Kind: kind, Title: string(title), SlotCount: slots[0]}
	if kind == WindowHorse {
		var eid [4]byte
		if _, err := r.Read(eid[:]); err != nil {
			return OpenWindow{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "open window horse entity id", err)
		}
		out.EntityID = int32(binary.BigEndian.Uint32(eid[:]))
	}
	return out, nil
}
