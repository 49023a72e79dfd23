package nbt

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/dmitrymodder/mcwire/mcerr"
)

// byteReader is the minimal interface the tree decoder needs: sequential
// byte-at-a-time and bulk reads over an in-memory buffer, so decoded
// ByteArray values can borrow directly from the input slice (String values
// are converted into new Go strings).
type byteReader struct {
	buf []byte
	pos int
}

func newByteReader(b []byte) *byteReader { return &byteReader{buf: b} }

func (r *byteReader) ReadByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, io.EOF
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *byteReader) next(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, mcerr.New(mcerr.KindUnexpectedEOF, "nbt buffer exhausted")
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *byteReader) u16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *byteReader) u32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *byteReader) u64() (uint64, error) {
	b, err := r.next(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *byteReader) readString() (string, error) {
	n, err := r.u16()
	if err != nil {
		return "", err
	}
	b, err := r.next(int(n))
	if err != nil {
		return "", err
	}
	return DecodeModifiedUTF8(b)
}

// DecodeNamed reads the canonical NBT file form (tag, name, payload) from
// the start of data and returns the name and decoded value.
func DecodeNamed(data []byte) (name string, v Value, err error) {
	r := newByteReader(data)
	tagByte, err := r.ReadByte()
	if err != nil {
		return "", Value{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "reading root tag", err)
	}
	tag := Tag(tagByte)
	if !tag.Valid() {
		return "", Value{}, mcerr.New(mcerr.KindInvalidEnum, "invalid root nbt tag")
	}
	name, err = r.readString()
	if err != nil {
		return "", Value{}, err
	}
	v, err = decodePayload(r, tag)
	return name, v, err
}

// Decode reads an unnamed NBT payload of the given tag — used when a
// packet field embeds a bare NBT value without the file-level name prefix.
func Decode(data []byte, tag Tag) (Value, error) {
	r := newByteReader(data)
	return decodePayload(r, tag)
}

func decodePayload(r *byteReader, tag Tag) (Value, error) {
	switch tag {
	case TagEnd:
		return Value{Tag: TagEnd}, nil
	case TagByte:
		b, err := r.ReadByte()
		if err != nil {
			return Value{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "byte", err)
		}
		return ByteValue(int8(b)), nil
	case TagShort:
		v, err := r.u16()
		if err != nil {
			return Value{}, err
		}
		return ShortValue(int16(v)), nil
	case TagInt:
		v, err := r.u32()
		if err != nil {
			return Value{}, err
		}
		return IntValue(int32(v)), nil
	case TagLong:
		v, err := r.u64()
		if err != nil {
			return Value{}, err
		}
		return LongValue(int64(v)), nil
	case TagFloat:
		v, err := r.u32()
		if err != nil {
			return Value{}, err
		}
		return FloatValue(math.Float32frombits(v)), nil
	case TagDouble:
		v, err := r.u64()
		if err != nil {
			return Value{}, err
		}
		return DoubleValue(math.Float64frombits(v)), nil
	case TagByteArray:
		n, err := r.u32()
		if err != nil {
			return Value{}, err
		}
		b, err := r.next(int(int32(n)))
		if err != nil {
			return Value{}, err
		}
		return ByteArrayValue(b), nil
	case TagString:
		s, err := r.readString()
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case TagList:
		l, err := decodeList(r)
		if err != nil {
			return Value{}, err
		}
		return ListValue(l), nil
	case TagCompound:
		c, err := decodeCompound(r)
		if err != nil {
			return Value{}, err
		}
		return CompoundValue(c), nil
	case TagIntArray:
		n, err := r.u32()
		if err != nil {
			return Value{}, err
		}
		out := make([]int32, int32(n))
		for i := range out {
			v, err := r.u32()
			if err != nil {
				return Value{}, err
			}
			out[i] = int32(v)
		}
		return IntArrayValue(out), nil
	case TagLongArray:
		n, err := r.u32()
		if err != nil {
			return Value{}, err
		}
		out := make([]int64, int32(n))
		for i := range out {
			v, err := r.u64()
			if err != nil {
				return Value{}, err
			}
			out[i] = int64(v)
		}
		return LongArrayValue(out), nil
	default:
		return Value{}, mcerr.New(mcerr.KindInvalidEnum, "invalid nbt tag")
	}
}

func decodeCompound(r *byteReader) (*Compound, error) {
	c := NewCompound()
	for {
		tagByte, err := r.ReadByte()
		if err != nil {
			return nil, mcerr.Wrap(mcerr.KindUnexpectedEOF, "reading compound entry tag", err)
		}
		tag := Tag(tagByte)
		if tag == TagEnd {
			return c, nil
		}
		if !tag.Valid() {
			return nil, mcerr.New(mcerr.KindInvalidEnum, "invalid compound entry tag")
		}
		key, err := r.readString()
		if err != nil {
			return nil, err
		}
		v, err := decodePayload(r, tag)
		if err != nil {
			return nil, err
		}
		if err := c.Put(key, v); err != nil {
			return nil, err
		}
	}
}

func decodeList(r *byteReader) (List, error) {
	elemTagByte, err := r.ReadByte()
	if err != nil {
		return List{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "reading list element tag", err)
	}
	elemTag := Tag(elemTagByte)
	countU, err := r.u32()
	if err != nil {
		return List{}, err
	}
	count := int32(countU)
	if count < 0 {
		return List{}, mcerr.New(mcerr.KindListCountMismatch, "negative nbt list count")
	}
	if !elemTag.Valid() && count != 0 {
		return List{}, mcerr.New(mcerr.KindInvalidEnum, "invalid list element tag")
	}
	l := List{ElemTag: elemTag}
	for i := int32(0); i < count; i++ {
		v, err := decodePayload(r, elemTag)
		if err != nil {
			return List{}, err
		}
		switch elemTag {
		case TagByte:
			l.Bytes = append(l.Bytes, v.Byte)
		case TagShort:
			l.Shorts = append(l.Shorts, v.Short)
		case TagInt:
			l.Ints = append(l.Ints, v.Int)
		case TagLong:
			l.Longs = append(l.Longs, v.Long)
		case TagFloat:
			l.Floats = append(l.Floats, v.Float)
		case TagDouble:
			l.Doubles = append(l.Doubles, v.Double)
		case TagString:
			l.Strings = append(l.Strings, v.Str)
		case TagList:
			l.Lists = append(l.Lists, v.List)
		case TagCompound:
			l.Compnds = append(l.Compnds, v.Compound)
		case TagByteArray:
			l.ByteArrays = append(l.ByteArrays, v.ByteArray)
		case TagIntArray:
			l.IntArrays = append(l.IntArrays, v.IntArray)
		case TagLongArray:
			l.LongArrays = append(l.LongArrays, v.LongArray)
		}
	}
	return l, nil
}
