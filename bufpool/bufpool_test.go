package bufpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetAllocatesWhenEmpty(t *testing.T) {
	p := New()
	b := p.Get(16)
	require.GreaterOrEqual(t, b.Cap(), 16)
	require.Len(t, b.Bytes(), 0)
}

func TestPutAndGetReusesBuffer(t *testing.T) {
	p := New()
	b := p.Get(64)
	orig := b
	b.Append([]byte("hello"))
	p.Put(b)

	got := p.Get(32)
	require.Same(t, orig, got)
	require.Len(t, got.Bytes(), 0)
}

func TestGetGrowsLargestFreeBufferWhenNoneFits(t *testing.T) {
	p := New()
	small := p.Get(8)
	p.Put(small)

	big := p.Get(256)
	require.GreaterOrEqual(t, big.Cap(), 256)
}

func TestTakenBuffersAreNotReused(t *testing.T) {
	p := New()
	a := p.Get(32)
	b := p.Get(32)
	require.NotSame(t, a, b)
}
