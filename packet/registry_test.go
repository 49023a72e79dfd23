package packet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymodder/mcwire/packet/handshake"
	"github.com/dmitrymodder/mcwire/packet/status"
	"github.com/dmitrymodder/mcwire/version"
)

func TestDefaultRegistryHandshakeRoundTrip(t *testing.T) {
	r := NewDefaultRegistry()
	v, err := version.New(340)
	require.NoError(t, err)

	h := handshake.Handshake{ProtocolVersion: 340, ServerAddress: "localhost", ServerPort: 25565, NextState: handshake.NextStatus}
	buf, err := r.Encode(Handshaking, Serverbound, 0x00, v, h)
	require.NoError(t, err)

	got, err := r.Decode(Handshaking, Serverbound, 0x00, v, buf)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestDefaultRegistryStatusRoundTrip(t *testing.T) {
	r := NewDefaultRegistry()
	v, err := version.New(340)
	require.NoError(t, err)

	resp := status.Response{Version: status.VersionInfo{Name: "1.12.2", Protocol: 340}}
	buf, err := r.Encode(Status, Clientbound, 0x00, v, resp)
	require.NoError(t, err)

	got, err := r.Decode(Status, Clientbound, 0x00, v, buf)
	require.NoError(t, err)
	require.Equal(t, resp, got)
}

func TestDefaultRegistryUnknownIDErrors(t *testing.T) {
	r := NewDefaultRegistry()
	v, err := version.New(340)
	require.NoError(t, err)
	_, err = r.Decode(Play, Clientbound, 0x7F, v, nil)
	require.Error(t, err)
}
