// Package region implements the Anvil region-file accessor: an 8192-byte
// header of per-chunk sector offsets and timestamps, followed by
// 4096-byte-sector-aligned, length-prefixed, compressed chunk payloads.
package region

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/dmitrymodder/mcwire/mcerr"
)

const (
	headerSize  = 8192
	sectorSize  = 4096
	gridWidth   = 32
	entryCount  = 1024
)

type location struct {
	sectorOffset uint32
	sectorCount  uint8
}

func (l location) empty() bool { return l.sectorOffset == 0 && l.sectorCount == 0 }

// File is a read-only accessor over an already-open region file.
type File struct {
	r          io.ReaderAt
	locations  [entryCount]location
	timestamps [entryCount]int32
}

// Open reads the 8192-byte header from r, which must address a complete
// Anvil region file (32x32 chunks).
func Open(r io.ReaderAt) (*File, error) {
	header := make([]byte, headerSize)
	if _, err := r.ReadAt(header, 0); err != nil {
		return nil, mcerr.Wrap(mcerr.KindIO, "reading region file header", err)
	}

	f := &File{r: r}
	for i := 0; i < entryCount; i++ {
		cell := header[i*4 : i*4+4]
		// u24 big-endian offset followed by a u8 sector count.
		f.locations[i] = location{
			sectorOffset: uint32(cell[0])<<16 | uint32(cell[1])<<8 | uint32(cell[2]),
			sectorCount:  cell[3],
		}
	}
	for i := 0; i < entryCount; i++ {
		off := headerSize/2 + i*4
		f.timestamps[i] = int32(binary.BigEndian.Uint32(header[off : off+4]))
	}
	return f, nil
}

// Index maps chunk coordinates to their header slot using the canonical
// Anvil formula. The region-file format's original indexer, (x&31)+(z&31),
// collides across the diagonal and must not be used.
func Index(x, z int) int {
	return (x & (gridWidth - 1)) | ((z & (gridWidth - 1)) << 5)
}

// Has reports whether a chunk is present in the region file.
func (f *File) Has(x, z int) bool {
	return !f.locations[Index(x, z)].empty()
}

// Timestamp returns the last-modified Unix timestamp for a chunk.
func (f *File) Timestamp(x, z int) int32 {
	return f.timestamps[Index(x, z)]
}

// ReadChunk returns a chunk's decompressed NBT bytes, or an error if the
// chunk is absent or its compression type is unrecognized.
func (f *File) ReadChunk(x, z int) ([]byte, error) {
	loc := f.locations[Index(x, z)]
	if loc.empty() {
		return nil, mcerr.New(mcerr.KindShortRead, "chunk not present in region file")
	}

	sectorStart := int64(loc.sectorOffset) * sectorSize
	sectorBytes := int64(loc.sectorCount) * sectorSize
	buf := make([]byte, sectorBytes)
	if _, err := f.r.ReadAt(buf, sectorStart); err != nil {
		return nil, mcerr.Wrap(mcerr.KindIO, "reading chunk sectors", err)
	}

	length := binary.BigEndian.Uint32(buf[:4])
	if length == 0 || int64(length) > sectorBytes-4 {
		return nil, mcerr.New(mcerr.KindShortRead, "chunk length exceeds allocated sectors")
	}
	compressionType := buf[4]
	payload := buf[5 : 4+length]

	switch compressionType {
	case 1:
		gr, err := gzip.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, mcerr.Wrap(mcerr.KindCompression, "opening gzip chunk stream", err)
		}
		defer gr.Close()
		out, err := io.ReadAll(gr)
		if err != nil {
			return nil, mcerr.Wrap(mcerr.KindCompression, "reading gzip chunk stream", err)
		}
		return out, nil
	case 2:
		zr, err := zlib.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, mcerr.Wrap(mcerr.KindCompression, "opening zlib chunk stream", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, mcerr.Wrap(mcerr.KindCompression, "reading zlib chunk stream", err)
		}
		return out, nil
	default:
		return nil, mcerr.New(mcerr.KindCompression, "unknown region chunk compression type")
	}
}
