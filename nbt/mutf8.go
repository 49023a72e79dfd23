// Modified UTF-8 encoding/decoding for NBT string tags: NUL is encoded as
// the two-byte sequence C0 80, and supplementary-plane code points are
// encoded as a surrogate pair, each surrogate half emitted as its own
// three-byte UTF-8-shaped sequence, matching Java's DataOutputStream
// writeUTF/readUTF behavior.
package nbt

import (
	"unicode/utf16"

	"github.com/dmitrymodder/mcwire/mcerr"
)

// EncodeModifiedUTF8 converts a Go string (which is well-formed UTF-8) to
// its modified-UTF-8 byte representation.
func EncodeModifiedUTF8(s string) []byte {
	out := make([]byte, 0, len(s)+2)
	for _, r := range s {
		switch {
		case r == 0:
			out = append(out, 0xC0, 0x80)
		case r < 0x80:
			out = append(out, byte(r))
		case r < 0x800:
			out = append(out,
				byte(0xC0|(r>>6)),
				byte(0x80|(r&0x3F)),
			)
		case r <= 0xFFFF:
			out = append(out,
				byte(0xE0|(r>>12)),
				byte(0x80|((r>>6)&0x3F)),
				byte(0x80|(r&0x3F)),
			)
		default:
			// Supplementary plane: emit as a UTF-16 surrogate pair, each
			// half encoded as its own 3-byte sequence.
			hi, lo := utf16.EncodeRune(r)
			for _, u := range [2]rune{hi, lo} {
				out = append(out,
					byte(0xE0|(u>>12)),
					byte(0x80|((u>>6)&0x3F)),
					byte(0x80|(u&0x3F)),
				)
			}
		}
	}
	return out
}

// DecodeModifiedUTF8 converts a modified-UTF-8 byte slice back to a Go
// string, reassembling surrogate pairs into their supplementary code point.
func DecodeModifiedUTF8(b []byte) (string, error) {
	var runes []rune
	i := 0
	for i < len(b) {
		c := b[i]
		switch {
		case c&0x80 == 0:
			runes = append(runes, rune(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) {
				return "", mcerr.New(mcerr.KindInvalidUTF8, "truncated 2-byte sequence")
			}
			r := (rune(c&0x1F) << 6) | rune(b[i+1]&0x3F)
			runes = append(runes, r)
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) {
				return "", mcerr.New(mcerr.KindInvalidUTF8, "truncated 3-byte sequence")
			}
			r := (rune(c&0x0F) << 12) | (rune(b[i+1]&0x3F) << 6) | rune(b[i+2]&0x3F)
			runes = append(runes, r)
			i += 3
		default:
			return "", mcerr.New(mcerr.KindInvalidUTF8, "invalid leading byte")
		}
	}
	// Reassemble any adjacent surrogate pairs encoded as two 3-byte runs.
	out := make([]rune, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if utf16.IsSurrogate(r) && i+1 < len(runes) {
			combined := utf16.DecodeRune(r, runes[i+1])
			if combined != 0xFFFD {
				out = append(out, combined)
				i++
				continue
			}
		}
		out = append(out, r)
	}
	return string(out), nil
}
