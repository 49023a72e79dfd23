package packet

import (
	"github.com/dmitrymodder/mcwire/packet/handshake"
	"github.com/dmitrymodder/mcwire/packet/login"
	"github.com/dmitrymodder/mcwire/packet/status"
	"github.com/dmitrymodder/mcwire/version"
)

// allVersions spans every protocol version this module knows about; per
// (state, direction, id) bindings that don't vary across versions register
// against this range rather than naming one explicitly.
var allVersions = version.Range{Min: 0, Max: 1 << 30}

// NewDefaultRegistry builds the Registry covering the Handshaking and Status
// states' packets plus Login Start, Login Success and Set Compression, wired
// the way a generated dispatch table would be if every packet in this module
// were version-invariant. The other Login packets are not registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(Handshaking, Serverbound, 0x00, allVersions, "Handshake",
		func(payload []byte, _ version.Version) (any, error) { return handshake.Decode(payload) },
		func(pkt any, _ version.Version) ([]byte, error) {
			return handshake.Encode(nil, pkt.(handshake.Handshake)), nil
		})

	r.Register(Status, Serverbound, 0x00, allVersions, "StatusRequest",
		func(payload []byte, _ version.Version) (any, error) { return status.DecodeRequest(payload) },
		func(pkt any, _ version.Version) ([]byte, error) { return status.EncodeRequest(), nil })

	r.Register(Status, Clientbound, 0x00, allVersions, "StatusResponse",
		func(payload []byte, _ version.Version) (any, error) { return status.DecodeResponse(payload) },
		func(pkt any, _ version.Version) ([]byte, error) { return status.EncodeResponse(nil, pkt.(status.Response)) })

	r.Register(Status, Serverbound, 0x01, allVersions, "Ping",
		func(payload []byte, _ version.Version) (any, error) { return status.DecodePing(payload) },
		func(pkt any, _ version.Version) ([]byte, error) { return status.EncodePing(nil, pkt.(status.Ping)), nil })

	r.Register(Status, Clientbound, 0x01, allVersions, "Pong",
		func(payload []byte, _ version.Version) (any, error) { return status.DecodePong(payload) },
		func(pkt any, _ version.Version) ([]byte, error) { return status.EncodePong(nil, pkt.(status.Pong)), nil })

	r.Register(Login, Serverbound, 0x00, allVersions, "LoginStart",
		func(payload []byte, _ version.Version) (any, error) { return login.DecodeLoginStart(payload) },
		func(pkt any, _ version.Version) ([]byte, error) {
			return login.EncodeLoginStart(nil, pkt.(login.LoginStart)), nil
		})

	r.Register(Login, Clientbound, 0x02, allVersions, "LoginSuccess",
		func(payload []byte, _ version.Version) (any, error) { return login.DecodeSuccess(payload) },
		func(pkt any, _ version.Version) ([]byte, error) { return login.EncodeSuccess(nil, pkt.(login.Success)), nil })

	r.Register(Login, Clientbound, 0x03, allVersions, "SetCompression",
		func(payload []byte, _ version.Version) (any, error) { return login.DecodeSetCompression(payload) },
		func(pkt any, _ version.Version) ([]byte, error) {
			return login.EncodeSetCompression(nil, pkt.(login.SetCompression)), nil
		})

	return r
}
