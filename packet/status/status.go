// Package status implements the four packets of the Status state: the
// empty request/JSON response pair and the echoing ping/pong pair that
// together let a client measure round-trip latency without logging in.
package status

import (
	"bytes"
	"encoding/binary"
	"encoding/json"

	"github.com/dmitrymodder/mcwire/mcerr"
	"github.com/dmitrymodder/mcwire/varint"
)

// Request is serverbound packet id 0x00: an empty payload asking for the
// status response.
type Request struct{}

// EncodeRequest returns Request's (empty) wire form.
func EncodeRequest() []byte { return nil }

// DecodeRequest validates that payload carries no bytes.
func DecodeRequest(payload []byte) (Request, error) {
	if len(payload) != 0 {
		return Request{}, mcerr.New(mcerr.KindShortRead, "status request payload must be empty")
	}
	return Request{}, nil
}

// Players describes the capacity and online-count fields of Response.
type Players struct {
	Max    int `json:"max"`
	Online int `json:"online"`
}

// VersionInfo names the server's reported version string and protocol.
type VersionInfo struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

// Response is clientbound packet id 0x00: a JSON document describing the
// server's version, player count, and message-of-the-day.
type Response struct {
	Version VersionInfo `json:"version"`
	Players Players     `json:"players"`
	Description any      `json:"description"`
}

// EncodeResponse serializes r as its length-prefixed JSON wire form.
func EncodeResponse(dst []byte, r Response) ([]byte, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, mcerr.Wrap(mcerr.KindIO, "marshaling status response", err)
	}
	dst = varint.AppendI32(dst, int32(len(body)))
	dst = append(dst, body...)
	return dst, nil
}

// DecodeResponse parses a length-prefixed JSON Response.
func DecodeResponse(payload []byte) (Response, error) {
	r := bytes.NewReader(payload)
	n, _, err := varint.DecodeI32(r)
	if err != nil {
		return Response{}, err
	}
	if n < 0 || int(n) > r.Len() {
		return Response{}, mcerr.New(mcerr.KindShortRead, "status response length exceeds payload")
	}
	body := make([]byte, n)
	if _, err := r.Read(body); err != nil {
		return Response{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "status response body", err)
	}
	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return Response{}, mcerr.Wrap(mcerr.KindIO, "unmarshaling status response", err)
	}
	return out, nil
}

// Ping is serverbound packet id 0x01: an opaque payload the server must
// echo back unchanged.
type Ping struct {
	Payload int64
}

// Pong is clientbound packet id 0x01, echoing Ping.Payload.
type Pong struct {
	Payload int64
}

// EncodePing appends the wire form of p to dst.
func EncodePing(dst []byte, p Ping) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(p.Payload))
	return append(dst, buf[:]...)
}

// DecodePing parses a Ping from payload.
func DecodePing(payload []byte) (Ping, error) {
	if len(payload) != 8 {
		return Ping{}, mcerr.New(mcerr.KindShortRead, "ping payload must be 8 bytes")
	}
	return Ping{Payload: int64(binary.BigEndian.Uint64(payload))}, nil
}

// EncodePong appends the wire form of p to dst.
func EncodePong(dst []byte, p Pong) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(p.Payload))
	return append(dst, buf[:]...)
}

// DecodePong parses a Pong from payload.
func DecodePong(payload []byte) (Pong, error) {
	if len(payload) != 8 {
		return Pong{}, mcerr.New(mcerr.KindShortRead, "pong payload must be 8 bytes")
	}
	return Pong{Payload: int64(binary.BigEndian.Uint64(payload))}, nil
}
