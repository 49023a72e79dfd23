// Package bitfield packs and unpacks the protocol's bitfield-encoded
// structs: several signed/unsigned fields sharing one big-endian backing
// integer, each occupying a fixed bit width starting from the most
// significant bit. Layouts are fixed per protocol era, which is why this
// package exposes the two historical Position layouts directly rather than
// a single generic one: callers route by protocol version.
package bitfield

// signExtend sign-extends the low `bits` bits of v (stored in a uint64) to
// a full int64.
func signExtend(v uint64, bits uint) int64 {
	shift := 64 - bits
	return int64(v<<shift) >> shift
}

func mask(bits uint) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << bits) - 1
}

// PackPosition packs (x, y, z) using the pre-1.14 (pre-442) layout:
// x:26 | y:12 | z:26, most-significant field first.
func PackPosition(x, y, z int64) uint64 {
	return ((uint64(x) & mask(26)) << 38) | ((uint64(y) & mask(12)) << 26) | (uint64(z) & mask(26))
}

// UnpackPosition reverses PackPosition.
func UnpackPosition(v uint64) (x, y, z int64) {
	x = signExtend(v>>38, 26)
	y = signExtend(v>>26, 12)
	z = signExtend(v, 26)
	return
}

// PackPosition442 packs (x, y, z) using the 1.14+ (442+) layout:
// x:26 | z:26 | y:12, most-significant field first. Named for the protocol
// version (442) the layout change shipped in.
func PackPosition442(x, y, z int64) uint64 {
	return ((uint64(x) & mask(26)) << 38) | ((uint64(z) & mask(26)) << 12) | (uint64(y) & mask(12))
}

// UnpackPosition442 reverses PackPosition442.
func UnpackPosition442(v uint64) (x, y, z int64) {
	x = signExtend(v>>38, 26)
	z = signExtend(v>>12, 26)
	y = signExtend(v, 12)
	return
}

// JoinGame's gamemode/hardcore bitfield: gamemode occupies the low three
// bits (of which only 0..=3 name a real game mode), hardcore flag in bit 3.
const (
	GameModeMask     = 0x07
	HardcoreFlagBit  = 0x08
	MaxValidGameMode = 3
)

// PackGameMode packs a gamemode (0..=3) and hardcore flag into the single
// byte the Join Game packet carries.
func PackGameMode(gameMode uint8, hardcore bool) byte {
	b := gameMode & GameModeMask
	if hardcore {
		b |= HardcoreFlagBit
	}
	return b
}

// UnpackGameMode decodes the byte PackGameMode produces. ok is false if the
// three-bit gamemode field (after masking) names an invalid mode; callers
// should treat that as a decode error per the wire spec.
func UnpackGameMode(b byte) (gameMode uint8, hardcore bool, ok bool) {
	gameMode = b & GameModeMask
	hardcore = b&HardcoreFlagBit != 0
	ok = gameMode <= MaxValidGameMode
	return
}
