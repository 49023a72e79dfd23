package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewValidAndInvalid(t *testing.T) {
	v, err := New(47)
	require.NoError(t, err)
	require.Equal(t, 47, v.Int())
	require.Equal(t, "1.8", v.Name())

	_, err = New(999999)
	require.Error(t, err)
}

func TestRangeOverlap(t *testing.T) {
	a := Range{Min: 0, Max: 100}
	b := Range{Min: 100, Max: 200}
	c := Range{Min: 101, Max: 200}
	require.True(t, a.Overlaps(b))
	require.False(t, a.Overlaps(c))
}

func TestPreFlatteningBoundary(t *testing.T) {
	v1, _ := New(340)
	v2, _ := New(393)
	require.True(t, PreFlattening(v1))
	require.False(t, PreFlattening(v2))
}

func TestPositionLayoutRouting(t *testing.T) {
	v1, _ := New(404)
	v2, _ := New(477)
	require.False(t, PositionLayout442(v1))
	require.True(t, PositionLayout442(v2))
}
