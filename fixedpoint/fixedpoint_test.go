package fixedpoint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTripWithinPrecision(t *testing.T) {
	values := []float64{0, 1.5, -1.5, 3.999, -3.999, 127.9}
	const p = 5
	for _, v := range values {
		repr := Encode[int16](v, p)
		got := Decode[int16, float64](repr, p)
		require.LessOrEqual(t, math.Abs(got-v), math.Ldexp(1, -p))
	}
}

func TestEntityVelocityRoundTrip(t *testing.T) {
	raw := int16(8000)
	require.Equal(t, 1.0, EntityVelocityDecode(raw))
	require.Equal(t, raw, EntityVelocityEncode(1.0))
}

func TestEntityMoveRange(t *testing.T) {
	require.True(t, EntityMoveInRange(3.999))
	require.False(t, EntityMoveInRange(4.0))
	require.True(t, EntityMoveInRange(-4.0))

	encoded := EntityMoveEncode(1.0)
	require.InDelta(t, 1.0, EntityMoveDecode(encoded), 1.0/EntityMoveScale)
}
