// Package bitpack implements fixed-width bit-packed storage over a slice of
// u64 elements: each element holds 64/bits cells, and a cell never spans
// two elements. Unused high bits of the final element are left zero.
package bitpack

import (
	"encoding/binary"

	"github.com/dmitrymodder/mcwire/mcerr"
)

// Order selects how backing u64 elements are laid out as bytes on the wire.
type Order int

const (
	// BigEndian writes and reads each element as 8 big-endian bytes, the
	// wire order; elements are converted one at a time, not bulk-copied.
	BigEndian Order = iota
	// NativeEndian writes and reads each element as 8 little-endian bytes,
	// whatever the host's byte order.
	NativeEndian
)

// Storage holds n cells, each bits wide, across ceil(n/cellsPerElement) u64
// elements.
type Storage struct {
	bits    int
	n       int
	cpe     int // cells per element
	mask    uint64
	data    []uint64
}

// New constructs a zeroed Storage for n cells of the given bit width. bits
// must be in 1..=32.
func New(n, bits int) *Storage {
	if bits <= 0 || bits > 32 {
		panic("bitpack: bits out of range")
	}
	cpe := 64 / bits
	rlen := (n + cpe - 1) / cpe
	return &Storage{
		bits: bits,
		n:    n,
		cpe:  cpe,
		mask: (uint64(1) << uint(bits)) - 1,
		data: make([]uint64, rlen),
	}
}

// Bits reports the configured cell width.
func (s *Storage) Bits() int { return s.bits }

// Len reports the number of addressable cells.
func (s *Storage) Len() int { return s.n }

// RawLen reports the number of backing u64 elements.
func (s *Storage) RawLen() int { return len(s.data) }

func (s *Storage) index(i int) (elem int, offset uint) {
	elem = i / s.cpe
	offset = uint(i%s.cpe) * uint(s.bits)
	return
}

// Get returns the cell at index i.
func (s *Storage) Get(i int) uint32 {
	if i < 0 || i >= s.n {
		panic("bitpack: index out of range")
	}
	elem, offset := s.index(i)
	return uint32((s.data[elem] >> offset) & s.mask)
}

// Set stores v at index i. v must fit within bits.
func (s *Storage) Set(i int, v uint32) {
	if i < 0 || i >= s.n {
		panic("bitpack: index out of range")
	}
	elem, offset := s.index(i)
	s.data[elem] = (s.data[elem] &^ (s.mask << offset)) | (uint64(v)&s.mask)<<offset
}

// Resize returns a new Storage with the given bit width, containing the
// same cell values as s. Used when a palette tier grows.
func (s *Storage) Resize(bits int) *Storage {
	out := New(s.n, bits)
	for i := 0; i < s.n; i++ {
		out.Set(i, s.Get(i))
	}
	return out
}

// Encode appends the wire representation of s to dst in the given byte
// order.
func (s *Storage) Encode(dst []byte, order Order) []byte {
	start := len(dst)
	dst = append(dst, make([]byte, len(s.data)*8)...)
	buf := dst[start:]
	for i, v := range s.data {
		switch order {
		case BigEndian:
			binary.BigEndian.PutUint64(buf[i*8:], v)
		case NativeEndian:
			binary.LittleEndian.PutUint64(buf[i*8:], v)
		}
	}
	return dst
}

// Decode reads n cells of the given bit width from the front of data,
// returning the Storage and the number of bytes consumed.
func Decode(data []byte, n, bits int, order Order) (*Storage, int, error) {
	s := New(n, bits)
	need := len(s.data) * 8
	if len(data) < need {
		return nil, 0, mcerr.New(mcerr.KindUnexpectedEOF, "bitpack storage truncated")
	}
	for i := range s.data {
		switch order {
		case BigEndian:
			s.data[i] = binary.BigEndian.Uint64(data[i*8:])
		case NativeEndian:
			s.data[i] = binary.LittleEndian.Uint64(data[i*8:])
		}
	}
	return s, need, nil
}
