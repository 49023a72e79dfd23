package region

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymodder/mcwire/internal/testutil"
)

func TestIndexIsCollisionFree(t *testing.T) {
	seen := make(map[int]bool)
	for x := 0; x < gridWidth; x++ {
		for z := 0; z < gridWidth; z++ {
			idx := Index(x, z)
			require.False(t, seen[idx], "collision at x=%d z=%d idx=%d", x, z, idx)
			seen[idx] = true
		}
	}
	require.Len(t, seen, gridWidth*gridWidth)
}

func TestIndexDoesNotUseBuggyAdditiveFormula(t *testing.T) {
	// The source's (x&31)+(z&31) formula collides x=1,z=0 with x=0,z=1.
	require.NotEqual(t, Index(1, 0), Index(0, 1))
}

// buildRegion assembles a minimal one-chunk region file image for testing.
func buildRegion(t *testing.T, x, z int, compressionType byte, compressed []byte) []byte {
	t.Helper()
	header := make([]byte, headerSize)
	idx := Index(x, z)
	binary.BigEndian.PutUint32(header[idx*4:], uint32(1)<<8|1) // offset sector 1, count 1

	chunkSector := make([]byte, sectorSize)
	binary.BigEndian.PutUint32(chunkSector[:4], uint32(len(compressed)+1))
	chunkSector[4] = compressionType
	copy(chunkSector[5:], compressed)

	return append(header, chunkSector...)
}

func TestReadChunkZlibLargerPayload(t *testing.T) {
	payload := testutil.FillSequence(4096)
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data := buildRegion(t, 7, 9, 2, buf.Bytes())
	f, err := Open(bytes.NewReader(data))
	require.NoError(t, err)

	got, err := f.ReadChunk(7, 9)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestReadChunkZlib(t *testing.T) {
	payload := []byte("hello chunk")
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data := buildRegion(t, 3, 4, 2, buf.Bytes())
	f, err := Open(bytes.NewReader(data))
	require.NoError(t, err)

	require.True(t, f.Has(3, 4))
	got, err := f.ReadChunk(3, 4)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestReadChunkGzip(t *testing.T) {
	payload := []byte("another chunk")
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data := buildRegion(t, 0, 0, 1, buf.Bytes())
	f, err := Open(bytes.NewReader(data))
	require.NoError(t, err)

	got, err := f.ReadChunk(0, 0)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestReadChunkAbsent(t *testing.T) {
	f, err := Open(bytes.NewReader(make([]byte, headerSize)))
	require.NoError(t, err)
	require.False(t, f.Has(5, 5))
	_, err = f.ReadChunk(5, 5)
	require.Error(t, err)
}

func TestReadChunkUnknownCompression(t *testing.T) {
	data := buildRegion(t, 1, 1, 9, []byte("junk"))
	f, err := Open(bytes.NewReader(data))
	require.NoError(t, err)
	_, err = f.ReadChunk(1, 1)
	require.Error(t, err)
}
