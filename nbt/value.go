package nbt

// List is a tagged, homogeneous NBT list: every element shares ElemTag.
// Nested lists (ElemTag == TagList) recurse into Lists itself.
type List struct {
	ElemTag Tag
	Bytes   []int8
	Shorts  []int16
	Ints    []int32
	Longs   []int64
	Floats  []float32
	Doubles []float64
	Strings []string
	Lists   []List
	Compnds []*Compound
	// ByteArrays/IntArrays/LongArrays hold list-of-array elements.
	ByteArrays [][]byte
	IntArrays  [][]int32
	LongArrays [][]int64
}

// Len returns the number of elements, regardless of ElemTag.
func (l List) Len() int {
	switch l.ElemTag {
	case TagByte:
		return len(l.Bytes)
	case TagShort:
		return len(l.Shorts)
	case TagInt:
		return len(l.Ints)
	case TagLong:
		return len(l.Longs)
	case TagFloat:
		return len(l.Floats)
	case TagDouble:
		return len(l.Doubles)
	case TagString:
		return len(l.Strings)
	case TagList:
		return len(l.Lists)
	case TagCompound:
		return len(l.Compnds)
	case TagByteArray:
		return len(l.ByteArrays)
	case TagIntArray:
		return len(l.IntArrays)
	case TagLongArray:
		return len(l.LongArrays)
	default:
		return 0
	}
}

func (l List) equal(o List) bool {
	if l.ElemTag != o.ElemTag || l.Len() != o.Len() {
		return false
	}
	switch l.ElemTag {
	case TagByte:
		return slicesEqual(l.Bytes, o.Bytes)
	case TagShort:
		return slicesEqual(l.Shorts, o.Shorts)
	case TagInt:
		return slicesEqual(l.Ints, o.Ints)
	case TagLong:
		return slicesEqual(l.Longs, o.Longs)
	case TagFloat:
		return slicesEqual(l.Floats, o.Floats)
	case TagDouble:
		return slicesEqual(l.Doubles, o.Doubles)
	case TagString:
		return slicesEqual(l.Strings, o.Strings)
	case TagList:
		for i := range l.Lists {
			if !l.Lists[i].equal(o.Lists[i]) {
				return false
			}
		}
		return true
	case TagCompound:
		for i := range l.Compnds {
			if !l.Compnds[i].Equal(o.Compnds[i]) {
				return false
			}
		}
		return true
	case TagByteArray:
		for i := range l.ByteArrays {
			if !slicesEqual(l.ByteArrays[i], o.ByteArrays[i]) {
				return false
			}
		}
		return true
	case TagIntArray:
		for i := range l.IntArrays {
			if !slicesEqual(l.IntArrays[i], o.IntArrays[i]) {
				return false
			}
		}
		return true
	case TagLongArray:
		for i := range l.LongArrays {
			if !slicesEqual(l.LongArrays[i], o.LongArrays[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func slicesEqual[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Value is the NBT tagged-union value, §3.8. Only the field matching Tag is
// meaningful.
type Value struct {
	Tag       Tag
	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	ByteArray []byte
	Str       string
	List      List
	Compound  *Compound
	IntArray  []int32
	LongArray []int64
}

func ByteValue(v int8) Value       { return Value{Tag: TagByte, Byte: v} }
func ShortValue(v int16) Value     { return Value{Tag: TagShort, Short: v} }
func IntValue(v int32) Value       { return Value{Tag: TagInt, Int: v} }
func LongValue(v int64) Value      { return Value{Tag: TagLong, Long: v} }
func FloatValue(v float32) Value   { return Value{Tag: TagFloat, Float: v} }
func DoubleValue(v float64) Value  { return Value{Tag: TagDouble, Double: v} }
func StringValue(v string) Value   { return Value{Tag: TagString, Str: v} }
func ByteArrayValue(v []byte) Value { return Value{Tag: TagByteArray, ByteArray: v} }
func IntArrayValue(v []int32) Value { return Value{Tag: TagIntArray, IntArray: v} }
func LongArrayValue(v []int64) Value { return Value{Tag: TagLongArray, LongArray: v} }
func CompoundValue(c *Compound) Value { return Value{Tag: TagCompound, Compound: c} }
func ListValue(l List) Value        { return Value{Tag: TagList, List: l} }

// Equal compares two values for structural equality (compounds compared
// modulo key ordering, per §8).
func (v Value) Equal(o Value) bool {
	if v.Tag != o.Tag {
		return false
	}
	switch v.Tag {
	case TagEnd:
		return true
	case TagByte:
		return v.Byte == o.Byte
	case TagShort:
		return v.Short == o.Short
	case TagInt:
		return v.Int == o.Int
	case TagLong:
		return v.Long == o.Long
	case TagFloat:
		return v.Float == o.Float
	case TagDouble:
		return v.Double == o.Double
	case TagByteArray:
		return slicesEqual(v.ByteArray, o.ByteArray)
	case TagString:
		return v.Str == o.Str
	case TagList:
		return v.List.equal(o.List)
	case TagCompound:
		return v.Compound.Equal(o.Compound)
	case TagIntArray:
		return slicesEqual(v.IntArray, o.IntArray)
	case TagLongArray:
		return slicesEqual(v.LongArray, o.LongArray)
	default:
		return false
	}
}
