// Package packet implements the version-dispatched packet registry: a
// build-time-style table mapping (connection state, direction, packet id,
// protocol version) to a typed decode/encode pair, per §4.10.
package packet

import (
	"fmt"

	"github.com/dmitrymodder/mcwire/mcerr"
	"github.com/dmitrymodder/mcwire/version"
)

// Raw is a packet id paired with its payload, as produced by the connection
// pipeline after framing, decompression, and decryption (§3.2). The
// connection copies Payload out of its read buffer, so the caller owns it.
type Raw struct {
	ID      int32
	Payload []byte
}

// State names one of the four connection states a packet id is scoped to.
type State int

const (
	Handshaking State = iota
	Status
	Login
	Play
)

func (s State) String() string {
	switch s {
	case Handshaking:
		return "handshaking"
	case Status:
		return "status"
	case Login:
		return "login"
	case Play:
		return "play"
	default:
		return "unknown"
	}
}

// Direction distinguishes client-to-server from server-to-client packets;
// the two directions use independent id spaces.
type Direction int

const (
	Serverbound Direction = iota
	Clientbound
)

// Decoder parses a packet's payload for one registered (id, version range)
// binding into a typed value.
type Decoder func(payload []byte, v version.Version) (any, error)

// Encoder serializes a typed packet value back into wire bytes, not
// including the id prefix (the connection write path adds that).
type Encoder func(pkt any, v version.Version) ([]byte, error)

type binding struct {
	id     int32
	rng    version.Range
	name   string
	decode Decoder
	encode Encoder
}

type key struct {
	state State
	dir   Direction
}

// Registry holds every registered (state, direction, id, version-range)
// binding. Registrations whose version ranges overlap for the same id are
// rejected at registration time — the dynamic analogue of the source's
// compile-time overlap check.
type Registry struct {
	bindings map[key][]binding
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[key][]binding)}
}

// Register adds a binding. It panics if rng overlaps an existing binding
// for the same id within the same state and direction — an overlapping
// table is a programming error, not a runtime condition to recover from.
func (r *Registry) Register(state State, dir Direction, id int32, rng version.Range, name string, decode Decoder, encode Encoder) {
	k := key{state: state, dir: dir}
	for _, b := range r.bindings[k] {
		if b.id == id && b.rng.Overlaps(rng) {
			panic(fmt.Sprintf("packet registry: overlapping registration for id %#x in %s/%v: %s and %s", id, state, dir, b.name, name))
		}
	}
	r.bindings[k] = append(r.bindings[k], binding{id: id, rng: rng, name: name, decode: decode, encode: encode})
}

// Decode dispatches payload to the decoder registered for (state, dir, id)
// whose version range contains v.
func (r *Registry) Decode(state State, dir Direction, id int32, v version.Version, payload []byte) (any, error) {
	b, err := r.lookup(state, dir, id, v)
	if err != nil {
		return nil, err
	}
	return b.decode(payload, v)
}

// Encode dispatches pkt to the encoder registered for (state, dir, id)
// whose version range contains v.
func (r *Registry) Encode(state State, dir Direction, id int32, v version.Version, pkt any) ([]byte, error) {
	b, err := r.lookup(state, dir, id, v)
	if err != nil {
		return nil, err
	}
	return b.encode(pkt, v)
}

func (r *Registry) lookup(state State, dir Direction, id int32, v version.Version) (binding, error) {
	for _, b := range r.bindings[key{state: state, dir: dir}] {
		if b.id == id && b.rng.Contains(v) {
			return b, nil
		}
	}
	return binding{}, mcerr.New(mcerr.KindInvalidEnum, fmt.Sprintf("no packet registered for id %#x in %s/%v at protocol %d", id, state, dir, v.Int()))
}
