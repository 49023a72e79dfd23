package conn

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymodder/mcwire/packet"
)

func TestPlainRoundTrip(t *testing.T) {
	var pipe bytes.Buffer
	c := New(&pipe)

	raw := packet.Raw{ID: 5, Payload: []byte("hello world")}
	require.NoError(t, c.Write.WritePacket(context.Background(), raw))

	got, err := c.Read.ReadPacket(context.Background())
	require.NoError(t, err)
	require.Equal(t, raw.ID, got.ID)
	require.Equal(t, raw.Payload, got.Payload)
}

func TestCompressedRoundTripAboveThreshold(t *testing.T) {
	var pipe bytes.Buffer
	c := New(&pipe)
	c.EnableCompression(8)

	payload := bytes.Repeat([]byte("x"), 256)
	raw := packet.Raw{ID: 1, Payload: payload}
	require.NoError(t, c.Write.WritePacket(context.Background(), raw))

	got, err := c.Read.ReadPacket(context.Background())
	require.NoError(t, err)
	require.Equal(t, raw.ID, got.ID)
	require.Equal(t, raw.Payload, got.Payload)
}

func TestCompressedRoundTripBelowThreshold(t *testing.T) {
	var pipe bytes.Buffer
	c := New(&pipe)
	c.EnableCompression(1024)

	raw := packet.Raw{ID: 2, Payload: []byte("tiny")}
	require.NoError(t, c.Write.WritePacket(context.Background(), raw))

	got, err := c.Read.ReadPacket(context.Background())
	require.NoError(t, err)
	require.Equal(t, raw.ID, got.ID)
	require.Equal(t, raw.Payload, got.Payload)
}

func TestEncryptedRoundTrip(t *testing.T) {
	var pipe bytes.Buffer
	c := New(&pipe)
	var key [16]byte
	copy(key[:], "0123456789abcdef")
	require.NoError(t, c.EnableEncryption(key))

	raw := packet.Raw{ID: 9, Payload: []byte("secret payload")}
	require.NoError(t, c.Write.WritePacket(context.Background(), raw))

	got, err := c.Read.ReadPacket(context.Background())
	require.NoError(t, err)
	require.Equal(t, raw.ID, got.ID)
	require.Equal(t, raw.Payload, got.Payload)
}

func TestEncryptedAndCompressedRoundTrip(t *testing.T) {
	var pipe bytes.Buffer
	c := New(&pipe)
	c.EnableCompression(4)
	var key [16]byte
	copy(key[:], "fedcba9876543210")
	require.NoError(t, c.EnableEncryption(key))

	raw := packet.Raw{ID: 3, Payload: bytes.Repeat([]byte("abc"), 100)}
	require.NoError(t, c.Write.WritePacket(context.Background(), raw))

	got, err := c.Read.ReadPacket(context.Background())
	require.NoError(t, err)
	require.Equal(t, raw.ID, got.ID)
	require.Equal(t, raw.Payload, got.Payload)
}

func TestEnableEncryptionTwiceFails(t *testing.T) {
	var pipe bytes.Buffer
	c := New(&pipe)
	var key [16]byte
	require.NoError(t, c.EnableEncryption(key))
	require.Error(t, c.EnableEncryption(key))
}
