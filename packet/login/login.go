// Package login implements the Login state's packets, including the
// Set Compression packet that drives conn.Connection.EnableCompression and
// the UUID-bearing Login Success that completes the handshake.
package login

import (
	"bytes"

	"github.com/google/uuid"

	"github.com/dmitrymodder/mcwire/counted"
	"github.com/dmitrymodder/mcwire/mcerr"
	"github.com/dmitrymodder/mcwire/varint"
)

func appendString(dst []byte, s string) []byte {
	dst = varint.AppendI32(dst, int32(len(s)))
	return append(dst, s...)
}

func readString(r *bytes.Reader) (string, error) {
	n, _, err := varint.DecodeI32(r)
	if err != nil {
		return "", err
	}
	if n < 0 || int64(n) > int64(r.Len()) {
		return "", mcerr.New(mcerr.KindShortRead, "string length exceeds remaining payload")
	}
	if err := counted.CheckLen[int32](int(n)); err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := r.Read(b); err != nil {
		return "", mcerr.Wrap(mcerr.KindUnexpectedEOF, "reading string bytes", err)
	}
	return string(b), nil
}

func appendByteArray(dst []byte, b []byte) []byte {
	dst = varint.AppendI32(dst, int32(len(b)))
	return append(dst, b...)
}

func readByteArray(r *bytes.Reader) ([]byte, error) {
	n, _, err := varint.DecodeI32(r)
	if err != nil {
		return nil, err
	}
	if n < 0 || int64(n) > int64(r.Len()) {
		return nil, mcerr.New(mcerr.KindShortRead, "byte array length exceeds remaining payload")
	}
	b := make([]byte, n)
	if _, err := r.Read(b); err != nil {
		return nil, mcerr.Wrap(mcerr.KindUnexpectedEOF, "reading byte array", err)
	}
	return b, nil
}

// LoginStart is serverbound packet id 0x00.
type LoginStart struct {
	Username string
}

func EncodeLoginStart(dst []byte, p LoginStart) []byte {
	return appendString(dst, p.Username)
}

func DecodeLoginStart(payload []byte) (LoginStart, error) {
	s, err := readString(bytes.NewReader(payload))
	if err != nil {
		return LoginStart{}, err
	}
	return LoginStart{Username: s}, nil
}

// EncryptionRequest is clientbound packet id 0x01.
type EncryptionRequest struct {
	ServerID    string
	PublicKey   []byte
	VerifyToken []byte
}

func EncodeEncryptionRequest(dst []byte, p EncryptionRequest) []byte {
	dst = appendString(dst, p.ServerID)
	dst = appendByteArray(dst, p.PublicKey)
	dst = appendByteArray(dst, p.VerifyToken)
	return dst
}

func DecodeEncryptionRequest(payload []byte) (EncryptionRequest, error) {
	r := bytes.NewReader(payload)
	serverID, err := readString(r)
	if err != nil {
		return EncryptionRequest{}, err
	}
	pub, err := readByteArray(r)
	if err != nil {
		return EncryptionRequest{}, err
	}
	tok, err := readByteArray(r)
	if err != nil {
		return EncryptionRequest{}, err
	}
	return EncryptionRequest{ServerID: serverID, PublicKey: pub, VerifyToken: tok}, nil
}

// EncryptionResponse is serverbound packet id 0x01.
type EncryptionResponse struct {
	SharedSecret []byte
	VerifyToken  []byte
}

func EncodeEncryptionResponse(dst []byte, p EncryptionResponse) []byte {
	dst = appendByteArray(dst, p.SharedSecret)
	dst = appendByteArray(dst, p.VerifyToken)
	return dst
}

func DecodeEncryptionResponse(payload []byte) (EncryptionResponse, error) {
	r := bytes.NewReader(payload)
	secret, err := readByteArray(r)
	if err != nil {
		return EncryptionResponse{}, err
	}
	tok, err := readByteArray(r)
	if err != nil {
		return EncryptionResponse{}, err
	}
	return EncryptionResponse{SharedSecret: secret, VerifyToken: tok}, nil
}

// SetCompression is clientbound packet id 0x03. Receiving it is what
// actually flips conn.Connection into compressed mode; §3.5/§4.11 describe
// the compression mechanism but never name this packet.
type SetCompression struct {
	Threshold int32
}

func EncodeSetCompression(dst []byte, p SetCompression) []byte {
	return varint.AppendI32(dst, p.Threshold)
}

func DecodeSetCompression(payload []byte) (SetCompression, error) {
	v, _, err := varint.DecodeI32(bytes.NewReader(payload))
	if err != nil {
		return SetCompression{}, err
	}
	return SetCompression{Threshold: v}, nil
}

// Success is clientbound packet id 0x02: the UUID is serialized as its
// 36-character hyphenated text form (the `stringuuid` attribute in §4.10).
type Success struct {
	UUID     uuid.UUID
	Username string
}

func EncodeSuccess(dst []byte, p Success) []byte {
	dst = appendString(dst, p.UUID.String())
	dst = appendString(dst, p.Username)
	return dst
}

func DecodeSuccess(payload []byte) (Success, error) {
	r := bytes.NewReader(payload)
	idStr, err := readString(r)
	if err != nil {
		return Success{}, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return Success{}, mcerr.Wrap(mcerr.KindInvalidEnum, "login success uuid", err)
	}
	username, err := readString(r)
	if err != nil {
		return Success{}, err
	}
	return Success{UUID: id, Username: username}, nil
}

// PluginRequest is clientbound packet id 0x04.
type PluginRequest struct {
	MessageID int32
	Channel   string
	Data      []byte
}

func EncodePluginRequest(dst []byte, p PluginRequest) []byte {
	dst = varint.AppendI32(dst, p.MessageID)
	dst = appendString(dst, p.Channel)
	dst = append(dst, p.Data...)
	return dst
}

func DecodePluginRequest(payload []byte) (PluginRequest, error) {
	r := bytes.NewReader(payload)
	id, _, err := varint.DecodeI32(r)
	if err != nil {
		return PluginRequest{}, err
	}
	channel, err := readString(r)
	if err != nil {
		return PluginRequest{}, err
	}
	rest := make([]byte, r.Len())
	if _, err := r.Read(rest); err != nil && r.Len() != 0 {
		return PluginRequest{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "plugin request data", err)
	}
	return PluginRequest{MessageID: id, Channel: channel, Data: rest}, nil
}
