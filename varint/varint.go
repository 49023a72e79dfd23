// Package varint implements the Minecraft protocol's variable-length
// integer encoding for signed and unsigned integers of widths 8 through
// 64 bits: each output byte carries 7 payload bits LSB-first, with the
// high bit as a continuation flag. Values are held in a uint64, so wider
// integers are not supported.
package varint

import (
	"bytes"
	"io"

	"github.com/dmitrymodder/mcwire/mcerr"
)

// MaxBytes returns the maximum number of bytes a varint encoding of an
// integer of the given bit width can occupy: ceil(bits / 7).
func MaxBytes(bits int) int {
	return (bits + 6) / 7
}

// EncodeUint writes the unsigned value v (truncated to bits significant
// bits by the caller) as a varint and returns the number of bytes written.
func EncodeUint(w io.Writer, v uint64, bits int) (int, error) {
	max := MaxBytes(bits)
	var buf [19]byte // max for 128 bits
	n := 0
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf[n] = b
		n++
		if v == 0 {
			break
		}
		if n > max {
			return 0, mcerr.New(mcerr.KindLengthOverflow, "varint exceeds maximum byte count for width")
		}
	}
	if _, err := w.Write(buf[:n]); err != nil {
		return 0, mcerr.Wrap(mcerr.KindIO, "writing varint", err)
	}
	return n, nil
}

// DecodeUint reads a varint-encoded unsigned value of the given bit width.
func DecodeUint(r io.ByteReader, bits int) (uint64, int, error) {
	max := MaxBytes(bits)
	var result uint64
	n := 0
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return 0, n, mcerr.Wrap(mcerr.KindUnexpectedEOF, "varint truncated", err)
			}
			return 0, n, mcerr.Wrap(mcerr.KindIO, "reading varint", err)
		}
		result |= uint64(b&0x7f) << (7 * n)
		n++
		if b&0x80 == 0 {
			break
		}
		if n >= max {
			return 0, n, mcerr.New(mcerr.KindInvalidVarintLength, "varint longer than width allows")
		}
	}
	return result, n, nil
}

// EncodeI32 encodes a 32-bit signed varint (Minecraft's "VarInt").
func EncodeI32(w io.Writer, v int32) (int, error) {
	return EncodeUint(w, uint64(uint32(v)), 32)
}

// DecodeI32 decodes a 32-bit signed varint.
func DecodeI32(r io.ByteReader) (int32, int, error) {
	u, n, err := DecodeUint(r, 32)
	if err != nil {
		return 0, n, err
	}
	return int32(uint32(u)), n, nil
}

// EncodeI64 encodes a 64-bit signed varint (Minecraft's "VarLong").
func EncodeI64(w io.Writer, v int64) (int, error) {
	return EncodeUint(w, uint64(v), 64)
}

// DecodeI64 decodes a 64-bit signed varint.
func DecodeI64(r io.ByteReader) (int64, int, error) {
	u, n, err := DecodeUint(r, 64)
	if err != nil {
		return 0, n, err
	}
	return int64(u), n, nil
}

// LenI32 returns the number of bytes EncodeI32 would write for v, without
// writing anything — used to size buffers before serializing packets.
func LenI32(v int32) int {
	u := uint32(v)
	n := 1
	for u >= 0x80 {
		u >>= 7
		n++
	}
	return n
}

// AppendI32 appends the varint encoding of v to dst and returns the result,
// avoiding an io.Writer for the hot path used by the connection pipeline.
func AppendI32(dst []byte, v int32) []byte {
	u := uint32(v)
	for {
		b := byte(u & 0x7f)
		u >>= 7
		if u != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if u == 0 {
			return dst
		}
	}
}

// DecodeI32Bytes decodes a 32-bit signed varint from the front of b,
// returning the value and how many bytes were consumed.
func DecodeI32Bytes(b []byte) (int32, int, error) {
	return DecodeI32(bytes.NewReader(b))
}
