package counted

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/dmitrymodder/mcwire/mcerr"
	"github.com/dmitrymodder/mcwire/varint"
)

// EncodeVarintBytes writes a VarInt length followed by the raw bytes —
// the specialization §4.3 calls out for [u8] to avoid per-element encode.
func EncodeVarintBytes(w io.Writer, data []byte) error {
	if err := CheckLen[int32](len(data)); err != nil {
		return err
	}
	if _, err := varint.EncodeI32(w, int32(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	if err != nil {
		return mcerr.Wrap(mcerr.KindIO, "writing counted bytes", err)
	}
	return nil
}

// DecodeVarintBytes reads a VarInt length followed by that many raw bytes.
func DecodeVarintBytes(r io.Reader, br io.ByteReader, maxLen int32) ([]byte, error) {
	n, _, err := varint.DecodeI32(br)
	if err != nil {
		return nil, err
	}
	if n < 0 || (maxLen > 0 && n > maxLen) {
		return nil, mcerr.New(mcerr.KindLengthOverflow, "counted byte length out of range")
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, mcerr.Wrap(mcerr.KindUnexpectedEOF, "reading counted bytes", err)
	}
	return buf, nil
}

// EncodeVarintFloat32s bit-casts a []float32 to wire bytes in one pass, the
// specialization §4.3 calls out for floats.
func EncodeVarintFloat32s(w io.Writer, data []float32) error {
	if err := CheckLen[int32](len(data)); err != nil {
		return err
	}
	if _, err := varint.EncodeI32(w, int32(len(data))); err != nil {
		return err
	}
	buf := make([]byte, 4*len(data))
	for i, f := range data {
		binary.BigEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	_, err := w.Write(buf)
	if err != nil {
		return mcerr.Wrap(mcerr.KindIO, "writing counted float32s", err)
	}
	return nil
}

// DecodeVarintFloat32s reads a VarInt length followed by that many
// big-endian float32s.
func DecodeVarintFloat32s(r io.Reader, br io.ByteReader) ([]float32, error) {
	n, _, err := varint.DecodeI32(br)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, mcerr.New(mcerr.KindLengthOverflow, "negative counted length")
	}
	buf := make([]byte, int(n)*4)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, mcerr.Wrap(mcerr.KindUnexpectedEOF, "reading counted float32s", err)
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.BigEndian.Uint32(buf[i*4:]))
	}
	return out, nil
}

// EncodeVarintSlice encodes a VarInt length followed by each element
// written with encodeElem, the general per-element fallback path.
func EncodeVarintSlice[T any](w io.Writer, data []T, encodeElem func(io.Writer, T) error) error {
	if err := CheckLen[int32](len(data)); err != nil {
		return err
	}
	if _, err := varint.EncodeI32(w, int32(len(data))); err != nil {
		return err
	}
	for _, v := range data {
		if err := encodeElem(w, v); err != nil {
			return err
		}
	}
	return nil
}

// DecodeVarintSlice reads a VarInt length then that many elements via
// decodeElem.
func DecodeVarintSlice[T any](br io.ByteReader, decodeElem func() (T, error)) ([]T, error) {
	n, _, err := varint.DecodeI32(br)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, mcerr.New(mcerr.KindLengthOverflow, "negative counted length")
	}
	out := make([]T, n)
	for i := range out {
		out[i], err = decodeElem()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
