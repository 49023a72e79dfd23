// Package mcerr defines the shared error taxonomy used across the wire
// codec: decode, encode, framing, crypto, compression, and auth-cache
// failures. Callers use errors.Is against the sentinel Kind values, and
// errors.As to recover the wrapped detail where one is attached.
package mcerr

import (
	"errors"
	"fmt"
)

// Kind identifies the broad category of a failure, mirroring the grouping
// in the wire-codec specification's error handling design.
type Kind int

const (
	_ Kind = iota

	// Decode errors.
	KindUnexpectedEOF
	KindInvalidEnum
	KindInvalidVarintLength
	KindInvalidUTF8
	KindDuplicateKey
	KindListCountMismatch
	KindPaletteOverflow

	// Encode errors.
	KindIO
	KindLengthOverflow
	KindStringTooLong

	// Framing errors.
	KindPacketTooLarge
	KindShortRead

	// Crypto errors.
	KindInvalidKeyLength
	KindAsyncCancelled

	// Compression errors.
	KindCompression

	// Auth cache errors.
	KindAuthCacheIO
)

func (k Kind) String() string {
	switch k {
	case KindUnexpectedEOF:
		return "unexpected end of slice"
	case KindInvalidEnum:
		return "invalid enum id"
	case KindInvalidVarintLength:
		return "invalid varint length"
	case KindInvalidUTF8:
		return "invalid utf-8"
	case KindDuplicateKey:
		return "duplicate compound key"
	case KindListCountMismatch:
		return "list count mismatch"
	case KindPaletteOverflow:
		return "palette container exceeded its maximum tier"
	case KindIO:
		return "i/o failure"
	case KindLengthOverflow:
		return "length overflow for prefix"
	case KindStringTooLong:
		return "string too long"
	case KindPacketTooLarge:
		return "packet length too large"
	case KindShortRead:
		return "short read"
	case KindInvalidKeyLength:
		return "invalid key length"
	case KindAsyncCancelled:
		return "operation cancelled while offloaded"
	case KindCompression:
		return "compression failure"
	case KindAuthCacheIO:
		return "auth cache i/o failure"
	default:
		return "unknown error"
	}
}

// Error is a wrapped error carrying a Kind for programmatic dispatch.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Msg != "" {
			return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, mcerr.New(Kind, "")) match on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New constructs an *Error with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap constructs an *Error wrapping err under the given kind.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Sentinel returns a zero-message *Error of the given kind, suitable as a
// comparison target for errors.Is.
func Sentinel(kind Kind) *Error { return &Error{Kind: kind} }

// AsyncCancelled is returned when a connection half is reused after an
// offloaded crypto job's completion was dropped mid-flight.
var AsyncCancelled = New(KindAsyncCancelled, "cipher state is held by an abandoned worker job")

// Is reports whether err (or any error it wraps) carries the given Kind.
func Is(err error, kind Kind) bool {
	return errors.Is(err, Sentinel(kind))
}
