package chunk

import (
	"encoding/binary"

	"github.com/dmitrymodder/mcwire/mcerr"
	"github.com/dmitrymodder/mcwire/nbt"
)

// FromNBT ingests a post-flattening column from a region-file NBT document:
// it locates Level.Sections, synthesizes each section's wide block array
// from the legacy Blocks+Data pair, and reads the top-level Biomes array.
func FromNBT(root *nbt.Compound) (*Column, error) {
	levelV, ok := root.Get("Level")
	if !ok || levelV.Tag != nbt.TagCompound {
		return nil, mcerr.New(mcerr.KindInvalidEnum, "nbt chunk missing Level compound")
	}
	level := levelV.Compound

	col := &Column{Flattened: true, Skylight: true}

	sectionsV, ok := level.Get("Sections")
	if !ok || sectionsV.Tag != nbt.TagList {
		return nil, mcerr.New(mcerr.KindInvalidEnum, "nbt chunk missing Level.Sections")
	}
	if sectionsV.List.ElemTag != nbt.TagCompound {
		return nil, mcerr.New(mcerr.KindInvalidEnum, "nbt chunk Level.Sections has non-compound elements")
	}

	for _, sec := range sectionsV.List.Compnds {
		yV, ok := sec.Get("Y")
		if !ok || yV.Tag != nbt.TagByte {
			return nil, mcerr.New(mcerr.KindInvalidEnum, "nbt chunk section missing Y index")
		}
		y := int(yV.Byte)
		if y < 0 || y >= sectionCount {
			return nil, mcerr.New(mcerr.KindInvalidEnum, "nbt chunk section Y index out of range")
		}

		blocksV, ok := sec.Get("Blocks")
		if !ok || blocksV.Tag != nbt.TagByteArray || len(blocksV.ByteArray) != blockCount {
			return nil, mcerr.New(mcerr.KindListCountMismatch, "nbt chunk section Blocks size mismatch")
		}
		dataV, ok := sec.Get("Data")
		if !ok || dataV.Tag != nbt.TagByteArray || len(dataV.ByteArray) != nibbleCount {
			return nil, mcerr.New(mcerr.KindListCountMismatch, "nbt chunk section Data size mismatch")
		}
		lightV, ok := sec.Get("BlockLight")
		if !ok || lightV.Tag != nbt.TagByteArray || len(lightV.ByteArray) != nibbleCount {
			return nil, mcerr.New(mcerr.KindListCountMismatch, "nbt chunk section BlockLight size mismatch")
		}

		s := &Section{
			BlocksWide: make([]byte, blockCount*2),
			BlockLight: lightV.ByteArray,
		}
		for i := 0; i < blockCount; i++ {
			nibble := nibbleAt(dataV.ByteArray, i)
			v := uint16(blocksV.ByteArray[i])<<4 | uint16(nibble)
			binary.BigEndian.PutUint16(s.BlocksWide[i*2:], v)
		}

		if skyV, ok := sec.Get("SkyLight"); ok {
			if skyV.Tag != nbt.TagByteArray || len(skyV.ByteArray) != nibbleCount {
				return nil, mcerr.New(mcerr.KindListCountMismatch, "nbt chunk section SkyLight size mismatch")
			}
			s.SkyLight = skyV.ByteArray
		}

		col.Sections[y] = s
		col.PrimaryMask |= 1 << uint(y)
	}

	biomesV, ok := level.Get("Biomes")
	if !ok || biomesV.Tag != nbt.TagByteArray || len(biomesV.ByteArray) != biomeCount {
		return nil, mcerr.New(mcerr.KindListCountMismatch, "nbt chunk Level.Biomes size mismatch")
	}
	copy(col.Biomes[:], biomesV.ByteArray)

	return col, nil
}

// nibbleAt extracts the 4-bit value at logical index i from a 2048-byte
// nibble array, low nibble first within each byte.
func nibbleAt(nibbles []byte, i int) byte {
	b := nibbles[i/2]
	if i%2 == 0 {
		return b & 0x0F
	}
	return b >> 4
}
