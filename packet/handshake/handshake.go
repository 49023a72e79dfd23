// Package handshake implements the single packet of the Handshaking state:
// the client's opening declaration of protocol version, target address, and
// the state it intends to transition into.
package handshake

import (
	"bytes"

	"github.com/dmitrymodder/mcwire/counted"
	"github.com/dmitrymodder/mcwire/mcerr"
	"github.com/dmitrymodder/mcwire/varint"
)

// NextState is the state the client asks to transition into after the
// handshake.
type NextState int32

const (
	NextStatus NextState = 1
	NextLogin  NextState = 2
)

// Handshake is serverbound packet id 0x00 in every supported protocol
// version.
type Handshake struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	NextState       NextState
}

// Encode appends the wire form of h to dst.
func Encode(dst []byte, h Handshake) []byte {
	dst = varint.AppendI32(dst, h.ProtocolVersion)
	addr := []byte(h.ServerAddress)
	dst = varint.AppendI32(dst, int32(len(addr)))
	dst = append(dst, addr...)
	dst = append(dst, byte(h.ServerPort>>8), byte(h.ServerPort))
	dst = varint.AppendI32(dst, int32(h.NextState))
	return dst
}

// Decode parses a Handshake from payload.
func Decode(payload []byte) (Handshake, error) {
	r := bytes.NewReader(payload)
	pv, _, err := varint.DecodeI32(r)
	if err != nil {
		return Handshake{}, err
	}
	addrLen, _, err := varint.DecodeI32(r)
	if err != nil {
		return Handshake{}, err
	}
	if addrLen < 0 {
		return Handshake{}, mcerr.New(mcerr.KindLengthOverflow, "handshake server address length is negative")
	}
	if err := counted.CheckLen[int32](int(addrLen)); err != nil {
		return Handshake{}, err
	}
	addr := make([]byte, addrLen)
	if _, err := r.Read(addr); err != nil {
		return Handshake{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "handshake server address", err)
	}
	var portBuf [2]byte
	if _, err := r.Read(portBuf[:]); err != nil {
		return Handshake{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "handshake port", err)
	}
	next, _, err := varint.DecodeI32(r)
	if err != nil {
		return Handshake{}, err
	}
	if next != int32(NextStatus) && next != int32(NextLogin) {
		return Handshake{}, mcerr.New(mcerr.KindInvalidEnum, "handshake next_state out of range")
	}
	return Handshake{
		ProtocolVersion: pv,
		ServerAddress:   string(addr),
		ServerPort:      uint16(portBuf[0])<<8 | uint16(portBuf[1]),
		NextState:       NextState(next),
	}, nil
}
