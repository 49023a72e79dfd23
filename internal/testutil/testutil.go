// Package testutil provides small fixture helpers shared across this
// module's test files: decoding hex literals into golden bytes and a
// deterministic counting byte sequence for round-trip tests that need more
// than a hand-written literal.
package testutil

import (
	"encoding/hex"
	"testing"
)

// MustHexBytes decodes a hex literal into bytes, failing the test
// immediately on a malformed literal — used to write wire-format golden
// fixtures inline without a stray "\x" escape soup.
func MustHexBytes(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("testutil: invalid hex literal %q: %v", s, err)
	}
	return b
}

// FillSequence returns a byte slice of length n whose bytes count up
// mod 256, a deterministic stand-in for "some arbitrary but reproducible
// payload" in tests that don't care about the exact bytes.
func FillSequence(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}
