// Package counted implements length-prefixed collection encodings, where
// the prefix's integer width is a type parameter, and trailing-remainder
// slices that consume the rest of a buffer without a length prefix.
package counted

import (
	"math"

	"github.com/dmitrymodder/mcwire/mcerr"
)

// Prefix is the set of integer types usable as a counted-collection length
// prefix.
type Prefix interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64
}

// FitsPrefix reports whether n is representable in the prefix type C,
// i.e. whether encoding a collection of length n with prefix type C would
// succeed.
func FitsPrefix[C Prefix](n int) bool {
	var zero C
	switch any(zero).(type) {
	case int8:
		return n >= math.MinInt8 && n <= math.MaxInt8
	case uint8:
		return n >= 0 && n <= math.MaxUint8
	case int16:
		return n >= math.MinInt16 && n <= math.MaxInt16
	case uint16:
		return n >= 0 && n <= math.MaxUint16
	case int32:
		return n >= math.MinInt32 && n <= math.MaxInt32
	case uint32:
		return n >= 0 && int64(n) <= math.MaxUint32
	default:
		// int64/uint64 prefixes: any non-negative Go int fits either width.
		return n >= 0
	}
}

// CheckLen validates that n fits the prefix type C, returning a
// length-overflow error from mcerr otherwise.
func CheckLen[C Prefix](n int) error {
	if !FitsPrefix[C](n) {
		return mcerr.New(mcerr.KindLengthOverflow, "collection length does not fit prefix type")
	}
	return nil
}

// Rest consumes the remainder of a decode buffer: a trailing slice with no
// length prefix, valid only as the last field of a packet.
func Rest(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
