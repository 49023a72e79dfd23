// Package palette implements the tiered palette container used by chunk
// sections and biome storage: Single-Value, Linear, Mapped, and (state
// containers only) Global tiers, widening automatically as distinct values
// accumulate.
package palette

import (
	"github.com/dmitrymodder/mcwire/bitpack"
	"github.com/dmitrymodder/mcwire/mcerr"
	"github.com/dmitrymodder/mcwire/varint"
)

// Kind selects which tier ladder a Container climbs: state containers reach
// Mapped and Global, biome containers stop at Linear{bits<=3}.
type Kind int

const (
	StateKind Kind = iota
	BiomeKind
)

type tier int

const (
	tierSingle tier = iota
	tierLinear
	tierMapped
	tierGlobal
)

// globalMarker is the wire-format bits byte written for the Global tier,
// independent of the actual storage width (§4.7).
const globalMarker = 15

// Container is a fixed-capacity, bit-packed u16 store that starts as a
// single repeated value and widens as distinct values are inserted.
type Container struct {
	kind       Kind
	n          int
	globalBits int

	t       tier
	single  uint16
	bits    int
	values  []uint16
	indices map[uint16]int // non-nil only once Mapped
	data    *bitpack.Storage
}

// New constructs a Container of n cells, all initially value, using
// globalBits as the Global tier's storage width (ignored for BiomeKind,
// which never reaches Global).
func New(kind Kind, n int, globalBits int, value uint16) *Container {
	return &Container{kind: kind, n: n, globalBits: globalBits, t: tierSingle, single: value}
}

func (c *Container) maxLinearBits() int {
	if c.kind == BiomeKind {
		return 3
	}
	return 4
}

// Len reports the number of cells.
func (c *Container) Len() int { return c.n }

// Get returns the value at cell i.
func (c *Container) Get(i int) uint16 {
	switch c.t {
	case tierSingle:
		return c.single
	case tierLinear, tierMapped:
		return c.values[c.data.Get(i)]
	case tierGlobal:
		return uint16(c.data.Get(i))
	default:
		panic("palette: invalid tier")
	}
}

// Set stores v at cell i, widening the container's tier as needed.
func (c *Container) Set(i int, v uint16) error {
	for {
		switch c.t {
		case tierSingle:
			if c.single == v {
				return nil
			}
			c.bits = 1
			c.values = []uint16{c.single}
			c.data = bitpack.New(c.n, 1)
			c.t = tierLinear
			// every existing cell already reads index 0 == c.single; loop
			// around to insert v into the freshly widened Linear tier.
		case tierLinear:
			idx := c.findLinear(v)
			if idx >= 0 {
				c.data.Set(i, uint32(idx))
				return nil
			}
			if len(c.values) < (1 << c.bits) {
				c.values = append(c.values, v)
				c.data.Set(i, uint32(len(c.values)-1))
				return nil
			}
			if err := c.growLinear(); err != nil {
				return err
			}
		case tierMapped:
			if idx, ok := c.indices[v]; ok {
				c.data.Set(i, uint32(idx))
				return nil
			}
			if len(c.values) < (1 << c.bits) {
				idx := len(c.values)
				c.values = append(c.values, v)
				c.indices[v] = idx
				c.data.Set(i, uint32(idx))
				return nil
			}
			c.growMapped()
		case tierGlobal:
			c.data.Set(i, uint32(v))
			return nil
		default:
			panic("palette: invalid tier")
		}
	}
}

func (c *Container) findLinear(v uint16) int {
	for idx, cand := range c.values {
		if cand == v {
			return idx
		}
	}
	return -1
}

func (c *Container) growLinear() error {
	if c.bits < c.maxLinearBits() {
		c.bits++
		c.data = c.data.Resize(c.bits)
		return nil
	}
	if c.kind == BiomeKind {
		return mcerr.New(mcerr.KindPaletteOverflow, "biome palette exceeded linear capacity")
	}
	// State Linear{bits=4} full: promote to Mapped{bits=5}.
	c.bits = 5
	c.data = c.data.Resize(c.bits)
	c.indices = make(map[uint16]int, len(c.values))
	for idx, v := range c.values {
		c.indices[v] = idx
	}
	c.t = tierMapped
	return nil
}

func (c *Container) growMapped() {
	if c.bits < 8 {
		c.bits++
		c.data = c.data.Resize(c.bits)
		return
	}
	// Mapped{bits=8} full: promote to Global, re-expanding every cell.
	global := bitpack.New(c.n, c.globalBits)
	for i := 0; i < c.n; i++ {
		global.Set(i, uint32(c.Get(i)))
	}
	c.data = global
	c.values = nil
	c.indices = nil
	c.t = tierGlobal
}

// Encode appends the wire form of c to dst, per §4.7.
func (c *Container) Encode(dst []byte) []byte {
	switch c.t {
	case tierSingle:
		dst = append(dst, 0)
		dst = varint.AppendI32(dst, int32(c.single))
		dst = varint.AppendI32(dst, 0)
		return dst
	case tierLinear, tierMapped:
		bits, data := c.bits, c.data
		if c.kind == StateKind && bits < 4 {
			// State containers go on the wire with at least 4 bits per cell.
			bits = 4
			data = data.Resize(bits)
		}
		dst = append(dst, byte(bits))
		dst = varint.AppendI32(dst, int32(len(c.values)))
		for _, v := range c.values {
			dst = varint.AppendI32(dst, int32(v))
		}
		dst = varint.AppendI32(dst, int32(data.RawLen()))
		dst = data.Encode(dst, bitpack.BigEndian)
		return dst
	case tierGlobal:
		dst = append(dst, globalMarker)
		dst = varint.AppendI32(dst, int32(c.data.RawLen()))
		dst = c.data.Encode(dst, bitpack.BigEndian)
		return dst
	default:
		panic("palette: invalid tier")
	}
}

// Decode reads a Container of n cells from the front of data, returning the
// Container and the number of bytes consumed. globalBits sizes the Global
// tier's storage when the wire marker selects it.
func Decode(data []byte, kind Kind, n, globalBits int) (*Container, int, error) {
	if len(data) < 1 {
		return nil, 0, mcerr.New(mcerr.KindUnexpectedEOF, "palette container truncated")
	}
	bits := int(data[0])
	off := 1

	readVarint := func() (int32, error) {
		v, used, err := varint.DecodeI32Bytes(data[off:])
		if err != nil {
			return 0, err
		}
		off += used
		return v, nil
	}

	switch {
	case bits == 0:
		v, err := readVarint()
		if err != nil {
			return nil, 0, err
		}
		if _, err := readVarint(); err != nil { // empty data-array length
			return nil, 0, err
		}
		return New(kind, n, globalBits, uint16(v)), off, nil

	case kind == BiomeKind && bits >= 1 && bits <= 3,
		kind == StateKind && bits >= 4 && bits <= 8:
		count, err := readVarint()
		if err != nil {
			return nil, 0, err
		}
		values := make([]uint16, count)
		for i := range values {
			v, err := readVarint()
			if err != nil {
				return nil, 0, err
			}
			values[i] = uint16(v)
		}
		if _, err := readVarint(); err != nil { // rlen, redundant with n/bits
			return nil, 0, err
		}
		storage, used, err := bitpack.Decode(data[off:], n, bits, bitpack.BigEndian)
		if err != nil {
			return nil, 0, err
		}
		off += used

		c := &Container{kind: kind, n: n, globalBits: globalBits, bits: bits, values: values, data: storage}
		if kind == StateKind && bits >= 5 {
			c.t = tierMapped
			c.indices = make(map[uint16]int, len(values))
			for idx, v := range values {
				c.indices[v] = idx
			}
		} else {
			c.t = tierLinear
		}
		return c, off, nil

	case kind == StateKind && bits == globalMarker:
		if _, err := readVarint(); err != nil { // rlen
			return nil, 0, err
		}
		storage, used, err := bitpack.Decode(data[off:], n, globalBits, bitpack.BigEndian)
		if err != nil {
			return nil, 0, err
		}
		off += used
		return &Container{kind: kind, n: n, globalBits: globalBits, t: tierGlobal, data: storage}, off, nil

	default:
		return nil, 0, mcerr.New(mcerr.KindInvalidEnum, "invalid palette container bits byte")
	}
}
