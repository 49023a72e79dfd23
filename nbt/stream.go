package nbt

import (
	"io"
	"math"

	"github.com/dmitrymodder/mcwire/mcerr"
)

// Visitor receives a push-style callback per NBT tag as the streaming
// decoder pulls bytes off the wire. Embed BaseVisitor to get no-op defaults
// for the tags a given consumer doesn't care about.
type Visitor interface {
	VisitByte(v int8) error
	VisitShort(v int16) error
	VisitInt(v int32) error
	VisitLong(v int64) error
	VisitFloat(v float32) error
	VisitDouble(v float64) error
	VisitByteArray(v []byte) error
	VisitString(v string) error
	VisitIntArray(v []int32) error
	VisitLongArray(v []int64) error
	VisitList(elemTag Tag, l *ListPuller) error
	VisitCompound(c *CompoundPuller) error
}

// BaseVisitor implements Visitor with no-op bodies. Consumers embed it and
// override only the tags they consume; VisitList/VisitCompound must still
// drain or ignore their puller, which Close handles for them on return.
type BaseVisitor struct{}

func (BaseVisitor) VisitByte(int8) error             { return nil }
func (BaseVisitor) VisitShort(int16) error           { return nil }
func (BaseVisitor) VisitInt(int32) error             { return nil }
func (BaseVisitor) VisitLong(int64) error            { return nil }
func (BaseVisitor) VisitFloat(float32) error         { return nil }
func (BaseVisitor) VisitDouble(float64) error        { return nil }
func (BaseVisitor) VisitByteArray([]byte) error      { return nil }
func (BaseVisitor) VisitString(string) error         { return nil }
func (BaseVisitor) VisitIntArray([]int32) error      { return nil }
func (BaseVisitor) VisitLongArray([]int64) error     { return nil }
func (BaseVisitor) VisitList(Tag, *ListPuller) error { return nil }
func (BaseVisitor) VisitCompound(*CompoundPuller) error {
	return nil
}

// WalkNamed streams the canonical (tag, name, payload) file form into v.
func WalkNamed(data []byte, v Visitor) (string, error) {
	r := newByteReader(data)
	tagByte, err := r.ReadByte()
	if err != nil {
		return "", mcerr.Wrap(mcerr.KindUnexpectedEOF, "reading root tag", err)
	}
	tag := Tag(tagByte)
	if !tag.Valid() {
		return "", mcerr.New(mcerr.KindInvalidEnum, "invalid root nbt tag")
	}
	name, err := r.readString()
	if err != nil {
		return "", err
	}
	return name, decodeWithVisitor(r, tag, v)
}

// Walk streams an unnamed NBT payload of the given tag into v.
func Walk(data []byte, tag Tag, v Visitor) error {
	return decodeWithVisitor(newByteReader(data), tag, v)
}

func decodeWithVisitor(r *byteReader, tag Tag, v Visitor) error {
	switch tag {
	case TagEnd:
		return nil
	case TagByte:
		b, err := r.ReadByte()
		if err != nil {
			return mcerr.Wrap(mcerr.KindUnexpectedEOF, "byte", err)
		}
		return v.VisitByte(int8(b))
	case TagShort:
		u, err := r.u16()
		if err != nil {
			return err
		}
		return v.VisitShort(int16(u))
	case TagInt:
		u, err := r.u32()
		if err != nil {
			return err
		}
		return v.VisitInt(int32(u))
	case TagLong:
		u, err := r.u64()
		if err != nil {
			return err
		}
		return v.VisitLong(int64(u))
	case TagFloat:
		u, err := r.u32()
		if err != nil {
			return err
		}
		return v.VisitFloat(math.Float32frombits(u))
	case TagDouble:
		u, err := r.u64()
		if err != nil {
			return err
		}
		return v.VisitDouble(math.Float64frombits(u))
	case TagByteArray:
		n, err := r.u32()
		if err != nil {
			return err
		}
		b, err := r.next(int(int32(n)))
		if err != nil {
			return err
		}
		return v.VisitByteArray(b)
	case TagString:
		s, err := r.readString()
		if err != nil {
			return err
		}
		return v.VisitString(s)
	case TagIntArray:
		n, err := r.u32()
		if err != nil {
			return err
		}
		out := make([]int32, int32(n))
		for i := range out {
			u, err := r.u32()
			if err != nil {
				return err
			}
			out[i] = int32(u)
		}
		return v.VisitIntArray(out)
	case TagLongArray:
		n, err := r.u32()
		if err != nil {
			return err
		}
		out := make([]int64, int32(n))
		for i := range out {
			u, err := r.u64()
			if err != nil {
				return err
			}
			out[i] = int64(u)
		}
		return v.VisitLongArray(out)
	case TagList:
		elemTagByte, err := r.ReadByte()
		if err != nil {
			return mcerr.Wrap(mcerr.KindUnexpectedEOF, "reading list element tag", err)
		}
		elemTag := Tag(elemTagByte)
		countU, err := r.u32()
		if err != nil {
			return err
		}
		count := int32(countU)
		if count < 0 {
			return mcerr.New(mcerr.KindListCountMismatch, "negative nbt list count")
		}
		if !elemTag.Valid() && count != 0 {
			return mcerr.New(mcerr.KindInvalidEnum, "invalid list element tag")
		}
		lp := &ListPuller{r: r, elemTag: elemTag, count: int(count)}
		if err := v.VisitList(elemTag, lp); err != nil {
			return err
		}
		return lp.Close()
	case TagCompound:
		cp := &CompoundPuller{r: r}
		if err := v.VisitCompound(cp); err != nil {
			return err
		}
		return cp.Close()
	default:
		return mcerr.New(mcerr.KindInvalidEnum, "invalid nbt tag")
	}
}

// ListPuller exposes a streamed NBT list's elements one at a time. Any
// elements the visitor doesn't pull are consumed automatically once its
// VisitList callback returns.
type ListPuller struct {
	r       *byteReader
	elemTag Tag
	count   int
	idx     int
}

// ElemTag reports every element's shared tag.
func (p *ListPuller) ElemTag() Tag { return p.elemTag }

// Len reports the total element count.
func (p *ListPuller) Len() int { return p.count }

// More reports whether any elements remain unpulled.
func (p *ListPuller) More() bool { return p.idx < p.count }

// ReadValue decodes the next element as a tree Value.
func (p *ListPuller) ReadValue() (Value, error) {
	if !p.More() {
		return Value{}, io.EOF
	}
	v, err := decodePayload(p.r, p.elemTag)
	if err != nil {
		return Value{}, err
	}
	p.idx++
	return v, nil
}

// VisitValue streams the next element into a nested visitor.
func (p *ListPuller) VisitValue(v Visitor) error {
	if !p.More() {
		return io.EOF
	}
	p.idx++
	return decodeWithVisitor(p.r, p.elemTag, v)
}

// Close drains any elements the visitor didn't pull.
func (p *ListPuller) Close() error {
	for p.More() {
		if _, err := p.ReadValue(); err != nil {
			return err
		}
	}
	return nil
}

// CompoundPuller exposes a streamed NBT compound's entries one at a time.
// Any entries the visitor doesn't pull are consumed automatically once its
// VisitCompound callback returns.
type CompoundPuller struct {
	r      *byteReader
	ended  bool
	curTag Tag
	have   bool
}

// Next advances to the following entry. ok is false once the terminating
// End tag is reached, with err nil.
func (p *CompoundPuller) Next() (key string, tag Tag, ok bool, err error) {
	if p.have {
		return "", TagEnd, false, mcerr.New(mcerr.KindInvalidEnum, "previous compound entry value not consumed")
	}
	if p.ended {
		return "", TagEnd, false, nil
	}
	tagByte, err := p.r.ReadByte()
	if err != nil {
		return "", TagEnd, false, mcerr.Wrap(mcerr.KindUnexpectedEOF, "reading compound entry tag", err)
	}
	tag = Tag(tagByte)
	if tag == TagEnd {
		p.ended = true
		return "", TagEnd, false, nil
	}
	if !tag.Valid() {
		return "", TagEnd, false, mcerr.New(mcerr.KindInvalidEnum, "invalid compound entry tag")
	}
	key, err = p.r.readString()
	if err != nil {
		return "", TagEnd, false, err
	}
	p.curTag = tag
	p.have = true
	return key, tag, true, nil
}

// ReadValue decodes the current entry's value as a tree Value.
func (p *CompoundPuller) ReadValue() (Value, error) {
	if !p.have {
		return Value{}, mcerr.New(mcerr.KindInvalidEnum, "no pending compound entry")
	}
	p.have = false
	return decodePayload(p.r, p.curTag)
}

// VisitValue streams the current entry's value into a nested visitor.
func (p *CompoundPuller) VisitValue(v Visitor) error {
	if !p.have {
		return mcerr.New(mcerr.KindInvalidEnum, "no pending compound entry")
	}
	p.have = false
	return decodeWithVisitor(p.r, p.curTag, v)
}

// Close drains any remaining entries the visitor didn't pull.
func (p *CompoundPuller) Close() error {
	for {
		if p.have {
			if _, err := p.ReadValue(); err != nil {
				return err
			}
		}
		_, _, ok, err := p.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}
