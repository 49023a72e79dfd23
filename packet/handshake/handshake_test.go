package handshake

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	h := Handshake{
		ProtocolVersion: 340,
		ServerAddress:   "play.example.com",
		ServerPort:      25565,
		NextState:       NextLogin,
	}
	buf := Encode(nil, h)

	got, err := Decode(buf)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestDecodeRejectsInvalidNextState(t *testing.T) {
	buf := Encode(nil, Handshake{ProtocolVersion: 340, ServerAddress: "x", ServerPort: 1, NextState: 9})
	_, err := Decode(buf)
	require.Error(t, err)
}
