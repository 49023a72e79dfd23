package chunk

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymodder/mcwire/nbt"
)

func buildPreFlatteningPayload(mask, addMask uint16, skylight bool) []byte {
	present := presentIndices(mask)
	addPresent := presentIndices(mask & addMask)
	var out []byte
	for range present {
		out = append(out, make([]byte, blockCount)...)
	}
	for range present {
		out = append(out, make([]byte, nibbleCount)...)
	}
	for range addPresent {
		out = append(out, make([]byte, nibbleCount)...)
	}
	for range present {
		out = append(out, make([]byte, nibbleCount)...)
	}
	if skylight {
		for range present {
			out = append(out, make([]byte, nibbleCount)...)
		}
	}
	out = append(out, make([]byte, biomeCount)...)
	return out
}

func TestDecodePreFlatteningSizing(t *testing.T) {
	mask := uint16(0b0000_0000_0000_0011) // sections 0 and 1
	payload := buildPreFlatteningPayload(mask, 0, true)

	col, err := DecodePreFlattening(payload, mask, 0, true)
	require.NoError(t, err)
	require.NotNil(t, col.Sections[0])
	require.NotNil(t, col.Sections[1])
	require.Nil(t, col.Sections[2])
	require.Len(t, col.Sections[0].Blocks, blockCount)
	require.Len(t, col.Sections[0].Metadata, nibbleCount)
	require.Len(t, col.Sections[0].SkyLight, nibbleCount)
	require.Nil(t, col.Sections[0].Add)
}

func TestPreFlatteningEncodeDecodeRoundTrip(t *testing.T) {
	mask := uint16(0b101) // sections 0 and 2
	addMask := uint16(0b100)
	payload := buildPreFlatteningPayload(mask, addMask, false)
	col, err := DecodePreFlattening(payload, mask, addMask, false)
	require.NoError(t, err)

	col.Sections[0].Blocks[10] = 42
	col.Sections[2].Add[5] = 0x7

	encoded := col.Encode()
	require.Equal(t, payload, encoded)
}

func TestPostFlatteningRoundTrip(t *testing.T) {
	mask := uint16(0b1)
	var out []byte
	out = append(out, make([]byte, blockCount*2)...)
	out = append(out, make([]byte, nibbleCount)...)
	out = append(out, make([]byte, biomeCount)...)

	col, err := DecodePostFlattening(out, mask, false)
	require.NoError(t, err)
	col.Sections[0].SetBlockAt(0, 0xABCD)
	require.Equal(t, uint16(0xABCD), col.Sections[0].BlockAt(0))

	encoded := col.Encode()
	require.Equal(t, out, encoded)
}

func TestInsertSectionPreFlattening(t *testing.T) {
	col := &Column{Skylight: true}
	col.InsertSection(3, true)
	require.NotNil(t, col.Sections[3])
	require.Len(t, col.Sections[3].Blocks, blockCount)
	require.Len(t, col.Sections[3].Add, nibbleCount)
	require.Equal(t, uint16(1<<3), col.PrimaryMask)
	require.Equal(t, uint16(1<<3), col.AddMask)
}

func TestFromNBT(t *testing.T) {
	blocks := make([]byte, blockCount)
	data := make([]byte, nibbleCount)
	light := make([]byte, nibbleCount)
	sky := make([]byte, nibbleCount)
	blocks[0] = 5
	data[0] = 0x0A // low nibble of byte 0 -> cell 0

	section := nbt.NewCompound()
	section.Set("Y", nbt.ByteValue(0))
	section.Set("Blocks", nbt.ByteArrayValue(blocks))
	section.Set("Data", nbt.ByteArrayValue(data))
	section.Set("BlockLight", nbt.ByteArrayValue(light))
	section.Set("SkyLight", nbt.ByteArrayValue(sky))

	level := nbt.NewCompound()
	level.Set("Sections", nbt.ListValue(nbt.List{ElemTag: nbt.TagCompound, Compnds: []*nbt.Compound{section}}))
	level.Set("Biomes", nbt.ByteArrayValue(make([]byte, biomeCount)))

	root := nbt.NewCompound()
	root.Set("Level", nbt.CompoundValue(level))

	col, err := FromNBT(root)
	require.NoError(t, err)
	require.NotNil(t, col.Sections[0])
	require.Equal(t, uint16(5<<4|0x0A), col.Sections[0].BlockAt(0))
}
