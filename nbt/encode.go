package nbt

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/dmitrymodder/mcwire/mcerr"
)

func writeString(w io.Writer, s string) error {
	b := EncodeModifiedUTF8(s)
	if len(b) > math.MaxUint16 {
		return mcerr.New(mcerr.KindStringTooLong, "nbt string exceeds u16 length prefix")
	}
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(b)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return mcerr.Wrap(mcerr.KindIO, "writing nbt string length", err)
	}
	if _, err := w.Write(b); err != nil {
		return mcerr.Wrap(mcerr.KindIO, "writing nbt string bytes", err)
	}
	return nil
}

func writeI32Counted(w io.Writer, n int) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(int32(n)))
	_, err := w.Write(buf[:])
	if err != nil {
		return mcerr.Wrap(mcerr.KindIO, "writing nbt array length", err)
	}
	return nil
}

// EncodeNamed writes the canonical NBT file form: tag, name, payload.
func EncodeNamed(w io.Writer, name string, v Value) error {
	if err := writeByte(w, byte(v.Tag)); err != nil {
		return err
	}
	if err := writeString(w, name); err != nil {
		return err
	}
	return encodePayload(w, v)
}

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	if err != nil {
		return mcerr.Wrap(mcerr.KindIO, "writing nbt tag byte", err)
	}
	return nil
}

func encodePayload(w io.Writer, v Value) error {
	switch v.Tag {
	case TagEnd:
		return nil
	case TagByte:
		return writeByte(w, byte(v.Byte))
	case TagShort:
		return writeFixed(w, uint16(v.Short))
	case TagInt:
		return writeFixed(w, uint32(v.Int))
	case TagLong:
		return writeFixed(w, uint64(v.Long))
	case TagFloat:
		return writeFixed(w, math.Float32bits(v.Float))
	case TagDouble:
		return writeFixed(w, math.Float64bits(v.Double))
	case TagByteArray:
		if err := writeI32Counted(w, len(v.ByteArray)); err != nil {
			return err
		}
		_, err := w.Write(v.ByteArray)
		if err != nil {
			return mcerr.Wrap(mcerr.KindIO, "writing nbt byte array", err)
		}
		return nil
	case TagString:
		return writeString(w, v.Str)
	case TagList:
		return encodeList(w, v.List)
	case TagCompound:
		return encodeCompound(w, v.Compound)
	case TagIntArray:
		if err := writeI32Counted(w, len(v.IntArray)); err != nil {
			return err
		}
		for _, i := range v.IntArray {
			if err := writeFixed(w, uint32(i)); err != nil {
				return err
			}
		}
		return nil
	case TagLongArray:
		if err := writeI32Counted(w, len(v.LongArray)); err != nil {
			return err
		}
		for _, l := range v.LongArray {
			if err := writeFixed(w, uint64(l)); err != nil {
				return err
			}
		}
		return nil
	default:
		return mcerr.New(mcerr.KindInvalidEnum, "unknown nbt tag on encode")
	}
}

type fixedWidth interface {
	~uint16 | ~uint32 | ~uint64
}

func writeFixed[T fixedWidth](w io.Writer, v T) error {
	var buf [8]byte
	var n int
	switch any(v).(type) {
	case uint16:
		binary.BigEndian.PutUint16(buf[:2], uint16(v))
		n = 2
	case uint32:
		binary.BigEndian.PutUint32(buf[:4], uint32(v))
		n = 4
	case uint64:
		binary.BigEndian.PutUint64(buf[:8], uint64(v))
		n = 8
	}
	_, err := w.Write(buf[:n])
	if err != nil {
		return mcerr.Wrap(mcerr.KindIO, "writing nbt fixed-width value", err)
	}
	return nil
}

func encodeCompound(w io.Writer, c *Compound) error {
	var err error
	c.Range(func(key string, v Value) bool {
		if err = writeByte(w, byte(v.Tag)); err != nil {
			return false
		}
		if err = writeString(w, key); err != nil {
			return false
		}
		if err = encodePayload(w, v); err != nil {
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	return writeByte(w, byte(TagEnd))
}

func encodeList(w io.Writer, l List) error {
	if err := writeByte(w, byte(l.ElemTag)); err != nil {
		return err
	}
	n := l.Len()
	if err := writeI32Counted(w, n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := encodePayload(w, listElem(l, i)); err != nil {
			return err
		}
	}
	return nil
}

func listElem(l List, i int) Value {
	switch l.ElemTag {
	case TagByte:
		return ByteValue(l.Bytes[i])
	case TagShort:
		return ShortValue(l.Shorts[i])
	case TagInt:
		return IntValue(l.Ints[i])
	case TagLong:
		return LongValue(l.Longs[i])
	case TagFloat:
		return FloatValue(l.Floats[i])
	case TagDouble:
		return DoubleValue(l.Doubles[i])
	case TagString:
		return StringValue(l.Strings[i])
	case TagList:
		return ListValue(l.Lists[i])
	case TagCompound:
		return CompoundValue(l.Compnds[i])
	case TagByteArray:
		return ByteArrayValue(l.ByteArrays[i])
	case TagIntArray:
		return IntArrayValue(l.IntArrays[i])
	case TagLongArray:
		return LongArrayValue(l.LongArrays[i])
	default:
		return Value{Tag: TagEnd}
	}
}
