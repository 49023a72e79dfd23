// Package authcache persists the Microsoft-account refresh tokens used by
// client-side auth flows, in the little-endian record format of §3.9:
// an outer length prefix bounds an inner blob of an expiry timestamp and
// two length-prefixed token strings. Reading more than the outer length
// declares is never attempted, which keeps the format forward-compatible
// with future trailing fields.
package authcache

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/dmitrymodder/mcwire/mcerr"
)

// Record is one cached Microsoft-account session: an access/refresh token
// pair and the Unix timestamp the access token expires at.
type Record struct {
	ExpiresAfter int64
	AccessToken  string
	RefreshToken string
}

func putString(dst []byte, s string) []byte {
	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(s)))
	dst = append(dst, lenBuf[:]...)
	return append(dst, s...)
}

func readString(b []byte) (string, []byte, error) {
	if len(b) < 2 {
		return "", nil, mcerr.New(mcerr.KindUnexpectedEOF, "auth cache string length truncated")
	}
	n := binary.LittleEndian.Uint16(b[:2])
	b = b[2:]
	if int(n) > len(b) {
		return "", nil, mcerr.New(mcerr.KindShortRead, "auth cache string exceeds inner blob")
	}
	return string(b[:n]), b[n:], nil
}

// Encode serializes r into the outer-length-prefixed wire record.
func Encode(r Record) []byte {
	inner := make([]byte, 0, 8+2+len(r.AccessToken)+2+len(r.RefreshToken))
	var expires [8]byte
	binary.LittleEndian.PutUint64(expires[:], uint64(r.ExpiresAfter))
	inner = append(inner, expires[:]...)
	inner = putString(inner, r.AccessToken)
	inner = putString(inner, r.RefreshToken)

	out := make([]byte, 0, 2+len(inner))
	var outerLen [2]byte
	binary.LittleEndian.PutUint16(outerLen[:], uint16(len(inner)))
	out = append(out, outerLen[:]...)
	out = append(out, inner...)
	return out
}

// Decode parses a Record from its wire form. The outer length bounds every
// subsequent read; any bytes past it (future fields) are ignored rather
// than rejected.
func Decode(data []byte) (Record, error) {
	if len(data) < 2 {
		return Record{}, mcerr.New(mcerr.KindUnexpectedEOF, "auth cache record truncated before outer length")
	}
	innerLen := binary.LittleEndian.Uint16(data[:2])
	data = data[2:]
	if int(innerLen) > len(data) {
		return Record{}, mcerr.New(mcerr.KindShortRead, "auth cache inner blob exceeds file length")
	}
	inner := data[:innerLen]

	if len(inner) < 8 {
		return Record{}, mcerr.New(mcerr.KindUnexpectedEOF, "auth cache inner blob missing expiry")
	}
	expiresAfter := int64(binary.LittleEndian.Uint64(inner[:8]))
	rest := inner[8:]

	access, rest, err := readString(rest)
	if err != nil {
		return Record{}, err
	}
	refresh, _, err := readString(rest)
	if err != nil {
		return Record{}, err
	}
	return Record{ExpiresAfter: expiresAfter, AccessToken: access, RefreshToken: refresh}, nil
}

// Write persists r to path atomically: the encoded record is written to a
// temporary sibling file and renamed into place, so a reader never
// observes a partially-written cache. No fsync is required by the format's
// contract.
func Write(path string, r Record) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, Encode(r), 0o600); err != nil {
		return mcerr.Wrap(mcerr.KindIO, fmt.Sprintf("writing auth cache temp file %s", tmp), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return mcerr.Wrap(mcerr.KindIO, fmt.Sprintf("renaming auth cache into place at %s", path), err)
	}
	return nil
}

// Read loads and decodes the Record stored at path.
func Read(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, mcerr.Wrap(mcerr.KindIO, fmt.Sprintf("reading auth cache file %s", path), err)
	}
	return Decode(data)
}

// Source is the seam the out-of-scope interactive Microsoft device-code
// flow would implement to refresh a Record once its access token expires.
// mcwire only persists and loads the resulting tokens; actually acquiring
// them from Microsoft's OAuth endpoints is not part of this module.
type Source interface {
	Refresh(r Record) (Record, error)
}
