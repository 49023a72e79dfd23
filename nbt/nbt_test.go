package nbt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModifiedUTF8RoundTrip(t *testing.T) {
	cases := []string{
		"",
		"hello",
		"na\x00me",
		"café",
		"\U0001F600",
	}
	for _, s := range cases {
		enc := EncodeModifiedUTF8(s)
		got, err := DecodeModifiedUTF8(enc)
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
}

func TestModifiedUTF8NulEncoding(t *testing.T) {
	enc := EncodeModifiedUTF8("\x00")
	require.Equal(t, []byte{0xC0, 0x80}, enc)
}

func TestCompoundRejectsDuplicateKeys(t *testing.T) {
	c := NewCompound()
	require.NoError(t, c.Put("x", IntValue(1)))
	err := c.Put("x", IntValue(2))
	require.Error(t, err)
}

func TestCompoundEqualIgnoresOrder(t *testing.T) {
	a := NewCompound()
	require.NoError(t, a.Put("x", IntValue(1)))
	require.NoError(t, a.Put("y", IntValue(2)))

	b := NewCompound()
	require.NoError(t, b.Put("y", IntValue(2)))
	require.NoError(t, b.Put("x", IntValue(1)))

	require.True(t, a.Equal(b))
}

func TestEncodeDecodeRoundTripCompound(t *testing.T) {
	c := NewCompound()
	require.NoError(t, c.Put("byte", ByteValue(-5)))
	require.NoError(t, c.Put("short", ShortValue(1234)))
	require.NoError(t, c.Put("int", IntValue(-70000)))
	require.NoError(t, c.Put("long", LongValue(1<<40)))
	require.NoError(t, c.Put("float", FloatValue(1.5)))
	require.NoError(t, c.Put("double", DoubleValue(2.25)))
	require.NoError(t, c.Put("str", StringValue("hello é")))
	require.NoError(t, c.Put("bytes", ByteArrayValue([]byte{1, 2, 3})))
	require.NoError(t, c.Put("ints", IntArrayValue([]int32{1, -2, 3})))
	require.NoError(t, c.Put("longs", LongArrayValue([]int64{1, -2, 3})))
	require.NoError(t, c.Put("list", ListValue(List{ElemTag: TagInt, Ints: []int32{10, 20, 30}})))

	nested := NewCompound()
	require.NoError(t, nested.Put("inner", ByteValue(1)))
	require.NoError(t, c.Put("nested", CompoundValue(nested)))

	var buf bytes.Buffer
	require.NoError(t, EncodeNamed(&buf, "root", CompoundValue(c)))

	name, v, err := DecodeNamed(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, "root", name)
	require.Equal(t, TagCompound, v.Tag)
	require.True(t, CompoundValue(c).Equal(v))
}

func TestDecodeRejectsDuplicateCompoundKeyOnWire(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(byte(TagCompound))
	require.NoError(t, writeString(&buf, ""))
	require.NoError(t, writeByte(&buf, byte(TagByte)))
	require.NoError(t, writeString(&buf, "x"))
	require.NoError(t, writeByte(&buf, 1))
	require.NoError(t, writeByte(&buf, byte(TagByte)))
	require.NoError(t, writeString(&buf, "x"))
	require.NoError(t, writeByte(&buf, 2))
	require.NoError(t, writeByte(&buf, byte(TagEnd)))

	_, _, err := DecodeNamed(buf.Bytes())
	require.Error(t, err)
}

func TestListOfLists(t *testing.T) {
	inner1 := List{ElemTag: TagByte, Bytes: []int8{1, 2}}
	inner2 := List{ElemTag: TagByte, Bytes: []int8{3}}
	outer := List{ElemTag: TagList, Lists: []List{inner1, inner2}}

	var buf bytes.Buffer
	require.NoError(t, EncodeNamed(&buf, "", ListValue(outer)))

	_, v, err := DecodeNamed(buf.Bytes())
	require.NoError(t, err)
	require.True(t, ListValue(outer).Equal(v))
}

// streamCollector records the Int and String values the walk visits, used
// to verify the streaming façade against the tree one.
type streamCollector struct {
	BaseVisitor
	ints    []int32
	strings []string
}

func (s *streamCollector) VisitInt(v int32) error {
	s.ints = append(s.ints, v)
	return nil
}

func (s *streamCollector) VisitString(v string) error {
	s.strings = append(s.strings, v)
	return nil
}

func (s *streamCollector) VisitCompound(c *CompoundPuller) error {
	for {
		_, tag, ok, err := c.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if tag == TagInt || tag == TagString {
			if err := c.VisitValue(s); err != nil {
				return err
			}
		}
		// Anything else is left for Close to drain.
	}
}

func TestStreamingVisitorMatchesTree(t *testing.T) {
	c := NewCompound()
	require.NoError(t, c.Put("a", IntValue(1)))
	require.NoError(t, c.Put("b", StringValue("hi")))
	require.NoError(t, c.Put("c", ByteValue(9)))

	var buf bytes.Buffer
	require.NoError(t, EncodeNamed(&buf, "root", CompoundValue(c)))

	collector := &streamCollector{}
	name, err := WalkNamed(buf.Bytes(), collector)
	require.NoError(t, err)
	require.Equal(t, "root", name)
	require.Equal(t, []int32{1}, collector.ints)
	require.Equal(t, []string{"hi"}, collector.strings)
}

// skipEverything ignores every field; Close on each scope must still
// consume all wire bytes so the overall decode doesn't error.
type skipEverything struct{ BaseVisitor }

func (skipEverything) VisitList(_ Tag, _ *ListPuller) error         { return nil }
func (skipEverything) VisitCompound(_ *CompoundPuller) error        { return nil }

func TestStreamingVisitorAutoDrainsUnreadFields(t *testing.T) {
	c := NewCompound()
	require.NoError(t, c.Put("a", IntValue(1)))
	require.NoError(t, c.Put("list", ListValue(List{ElemTag: TagInt, Ints: []int32{1, 2, 3}})))
	require.NoError(t, c.Put("b", StringValue("unused")))

	var buf bytes.Buffer
	require.NoError(t, EncodeNamed(&buf, "", CompoundValue(c)))

	err := Walk(buf.Bytes(), TagCompound, skipEverything{})
	require.NoError(t, err)
}
