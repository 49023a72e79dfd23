// Package chunk implements the chunk column/section storage engine: an
// arena-backed representation shared by both the pre-flattening (nibble
// metadata, separate add array) and post-flattening (wide block ids) wire
// formats, plus ingest from the NBT region-file representation.
package chunk

import (
	"bytes"
	"encoding/binary"
	"math/bits"

	"github.com/klauspost/compress/zlib"

	"github.com/dmitrymodder/mcwire/mcerr"
)

const (
	sectionCount  = 16
	blockCount    = 4096
	nibbleCount   = 2048
	biomeCount    = 256
)

// Section is one 16x16x16 cube of a Column. Only the fields relevant to the
// column's format (pre- or post-flattening) are populated; the rest are nil.
type Section struct {
	// Blocks holds one byte per cell (pre-flattening) and is nil post-flattening.
	Blocks []byte
	// BlocksWide holds 2 bytes per cell, big-endian, and is nil pre-flattening.
	BlocksWide []byte
	// Metadata is a 2048-byte nibble array, pre-flattening only.
	Metadata []byte
	// Add is an optional 2048-byte high-nibble array, pre-flattening only.
	Add []byte
	// BlockLight is a 2048-byte nibble array, present in both formats.
	BlockLight []byte
	// SkyLight is an optional 2048-byte nibble array, column-global flag.
	SkyLight []byte
}

// BlockAt returns the post-flattening block id at cell i (0..4095).
func (s *Section) BlockAt(i int) uint16 {
	return binary.BigEndian.Uint16(s.BlocksWide[i*2:])
}

// SetBlockAt stores the post-flattening block id at cell i.
func (s *Section) SetBlockAt(i int, v uint16) {
	binary.BigEndian.PutUint16(s.BlocksWide[i*2:], v)
}

// Column is a full 16-section chunk column: arena-backed section storage
// plus a 256-byte biome array. Sections produced by decoding point into
// arena (the decoded input buffer); sections added by InsertSection or
// InsertAdd, and those built by FromNBT, use their own separate allocations.
type Column struct {
	arena      []byte
	Flattened  bool
	Skylight   bool
	PrimaryMask uint16
	AddMask    uint16
	Sections   [sectionCount]*Section
	Biomes     [biomeCount]byte
}

// DecodePreFlattening reads a chunk column in the pre-flattening wire
// format: consecutive blocks, metadata, add (for sections present in
// addMask), block light, skylight (if skylight), then the biome array.
func DecodePreFlattening(data []byte, primaryMask, addMask uint16, skylight bool) (*Column, error) {
	present := presentIndices(primaryMask)
	addPresent := presentIndices(primaryMask & addMask)

	total := len(present)*blockCount +
		len(present)*nibbleCount + // metadata
		len(addPresent)*nibbleCount +
		len(present)*nibbleCount + // block light
		biomeCount
	if skylight {
		total += len(present) * nibbleCount
	}
	if len(data) < total {
		return nil, mcerr.New(mcerr.KindUnexpectedEOF, "pre-flattening chunk data truncated")
	}

	col := &Column{arena: data[:total], Flattened: false, Skylight: skylight, PrimaryMask: primaryMask, AddMask: addMask}
	cursor := 0
	take := func(n int) []byte {
		b := col.arena[cursor : cursor+n]
		cursor += n
		return b
	}

	blocks := make(map[int][]byte, len(present))
	for _, i := range present {
		blocks[i] = take(blockCount)
	}
	metadata := make(map[int][]byte, len(present))
	for _, i := range present {
		metadata[i] = take(nibbleCount)
	}
	adds := make(map[int][]byte, len(addPresent))
	for _, i := range addPresent {
		adds[i] = take(nibbleCount)
	}
	lights := make(map[int][]byte, len(present))
	for _, i := range present {
		lights[i] = take(nibbleCount)
	}
	skylights := make(map[int][]byte, len(present))
	if skylight {
		for _, i := range present {
			skylights[i] = take(nibbleCount)
		}
	}

	for _, i := range present {
		col.Sections[i] = &Section{
			Blocks:     blocks[i],
			Metadata:   metadata[i],
			Add:        adds[i],
			BlockLight: lights[i],
			SkyLight:   skylights[i],
		}
	}
	copy(col.Biomes[:], take(biomeCount))
	return col, nil
}

// DecodePostFlattening reads a chunk column in the post-flattening wire
// format: wide blocks, block light, skylight (if skylight), biomes.
func DecodePostFlattening(data []byte, primaryMask uint16, skylight bool) (*Column, error) {
	present := presentIndices(primaryMask)

	total := len(present)*blockCount*2 +
		len(present)*nibbleCount +
		biomeCount
	if skylight {
		total += len(present) * nibbleCount
	}
	if len(data) < total {
		return nil, mcerr.New(mcerr.KindUnexpectedEOF, "post-flattening chunk data truncated")
	}

	col := &Column{arena: data[:total], Flattened: true, Skylight: skylight, PrimaryMask: primaryMask}
	cursor := 0
	take := func(n int) []byte {
		b := col.arena[cursor : cursor+n]
		cursor += n
		return b
	}

	wide := make(map[int][]byte, len(present))
	for _, i := range present {
		wide[i] = take(blockCount * 2)
	}
	lights := make(map[int][]byte, len(present))
	for _, i := range present {
		lights[i] = take(nibbleCount)
	}
	skylights := make(map[int][]byte, len(present))
	if skylight {
		for _, i := range present {
			skylights[i] = take(nibbleCount)
		}
	}

	for _, i := range present {
		col.Sections[i] = &Section{
			BlocksWide: wide[i],
			BlockLight: lights[i],
			SkyLight:   skylights[i],
		}
	}
	copy(col.Biomes[:], take(biomeCount))
	return col, nil
}

// Encode concatenates the column's sections in the same group-major order
// as decode, with no length prefixes. Compression (pre-flattening only) is
// the caller's responsibility via EncodeCompressed.
func (c *Column) Encode() []byte {
	present := presentIndices(c.PrimaryMask)
	var out []byte
	if c.Flattened {
		for _, i := range present {
			out = append(out, c.Sections[i].BlocksWide...)
		}
		for _, i := range present {
			out = append(out, c.Sections[i].BlockLight...)
		}
		if c.Skylight {
			for _, i := range present {
				out = append(out, c.Sections[i].SkyLight...)
			}
		}
		out = append(out, c.Biomes[:]...)
		return out
	}
	for _, i := range present {
		out = append(out, c.Sections[i].Blocks...)
	}
	for _, i := range present {
		out = append(out, c.Sections[i].Metadata...)
	}
	for _, i := range presentIndices(c.PrimaryMask & c.AddMask) {
		out = append(out, c.Sections[i].Add...)
	}
	for _, i := range present {
		out = append(out, c.Sections[i].BlockLight...)
	}
	if c.Skylight {
		for _, i := range present {
			out = append(out, c.Sections[i].SkyLight...)
		}
	}
	out = append(out, c.Biomes[:]...)
	return out
}

// EncodeCompressed returns the wire payload for this column: zlib-compressed
// when pre-flattening, raw when post-flattening, per §4.8.
func (c *Column) EncodeCompressed() ([]byte, error) {
	raw := c.Encode()
	if c.Flattened {
		return raw, nil
	}
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		return nil, mcerr.Wrap(mcerr.KindCompression, "compressing pre-flattening chunk", err)
	}
	if err := w.Close(); err != nil {
		return nil, mcerr.Wrap(mcerr.KindCompression, "closing chunk zlib writer", err)
	}
	return buf.Bytes(), nil
}

// InsertSection allocates a zeroed section for slot i and installs it,
// per §4.8's mutation rule. Its slices are fresh allocations, not carved
// from the column's arena. addEnabled additionally allocates the optional
// add nibble array (pre-flattening only).
func (c *Column) InsertSection(i int, addEnabled bool) {
	if c.Flattened {
		c.Sections[i] = &Section{
			BlocksWide: make([]byte, blockCount*2),
			BlockLight: make([]byte, nibbleCount),
		}
		if c.Skylight {
			c.Sections[i].SkyLight = make([]byte, nibbleCount)
		}
	} else {
		s := &Section{
			Blocks:     make([]byte, blockCount),
			Metadata:   make([]byte, nibbleCount),
			BlockLight: make([]byte, nibbleCount),
		}
		if c.Skylight {
			s.SkyLight = make([]byte, nibbleCount)
		}
		if addEnabled {
			s.Add = make([]byte, nibbleCount)
			c.AddMask |= 1 << uint(i)
		}
		c.Sections[i] = s
	}
	c.PrimaryMask |= 1 << uint(i)
}

// InsertAdd allocates the optional add nibble array for an existing
// pre-flattening section as a fresh slice, not from the column's arena.
func (c *Column) InsertAdd(i int) {
	c.Sections[i].Add = make([]byte, nibbleCount)
	c.AddMask |= 1 << uint(i)
}

func presentIndices(mask uint16) []int {
	out := make([]int, 0, bits.OnesCount16(mask))
	for i := 0; i < sectionCount; i++ {
		if mask&(1<<uint(i)) != 0 {
			out = append(out, i)
		}
	}
	return out
}
