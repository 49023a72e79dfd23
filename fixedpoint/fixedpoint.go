// Package fixedpoint implements the protocol's fixed-point number codec:
// a logical float is scaled by 2^P, rounded, and cast into an integer
// representation type for the wire, and the reverse on decode.
package fixedpoint

import "math"

// Repr is the set of integer representation types the wire uses for
// fixed-point values.
type Repr interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// Logical is the set of floating-point types a fixed-point value decodes to.
type Logical interface {
	~float32 | ~float64
}

// Encode converts a logical value into its representation type at
// precision bits P: round(logical * 2^P).
func Encode[R Repr, L Logical](logical L, p uint) R {
	scale := math.Ldexp(1, int(p))
	return R(math.Round(float64(logical) * scale))
}

// Decode converts a representation-type value back to its logical value:
// repr / 2^P.
func Decode[R Repr, L Logical](repr R, p uint) L {
	scale := math.Ldexp(1, int(p))
	return L(float64(repr) / scale)
}

// EntityVelocityDecode is the fixed (0-precision, /8000.0) conversion the wire
// uses for entity velocity components: raw i16 / 8000.0. Notchian clients
// clamp the logical value to [-3.9, 3.9]; this codec does not clamp.
func EntityVelocityDecode(raw int16) float64 {
	return float64(raw) / 8000.0
}

// EntityVelocityEncode is the inverse of EntityVelocityDecode.
func EntityVelocityEncode(v float64) int16 {
	return int16(math.Round(v * 8000.0))
}

// EntityMoveScale is 2^5 = 32, the fixed-point scale used by relative
// entity-movement packets: an i8 raw delta covers the logical range
// [-4.0, 4.0).
const EntityMoveScale = 32.0

// EntityMoveInRange reports whether a relative-movement delta is
// representable in the i8 wire type; callers outside this range must use
// an absolute teleport instead.
func EntityMoveInRange(delta float64) bool {
	return delta >= -4.0 && delta < 4.0
}

// EntityMoveEncode converts a logical delta in [-4.0, 4.0) to its i8 wire
// representation. Callers must check EntityMoveInRange first.
func EntityMoveEncode(delta float64) int8 {
	return int8(math.Round(delta * EntityMoveScale))
}

// EntityMoveDecode converts an i8 wire delta back to its logical value.
func EntityMoveDecode(raw int8) float64 {
	return float64(raw) / EntityMoveScale
}
