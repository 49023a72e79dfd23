// Package version implements the validated protocol-version handle (§3.1):
// an opaque wrapper over one of a known enumerated set of Minecraft Java
// Edition protocol versions, loaded from an embedded manifest the way the
// teacher loads server.yaml.
package version

import (
	_ "embed"
	"fmt"

	"github.com/dmitrymodder/mcwire/mcerr"
	"gopkg.in/yaml.v3"
)

//go:embed versions.yaml
var manifestYAML []byte

// Entry describes one known protocol version.
type Entry struct {
	Protocol int    `yaml:"protocol"`
	Name     string `yaml:"name"`
	Snapshot bool   `yaml:"snapshot"`
}

type manifest struct {
	Versions []Entry `yaml:"versions"`
}

var known map[int]Entry

func init() {
	var m manifest
	if err := yaml.Unmarshal(manifestYAML, &m); err != nil {
		panic(fmt.Sprintf("version: embedded manifest is invalid: %v", err))
	}
	known = make(map[int]Entry, len(m.Versions))
	for _, e := range m.Versions {
		known[e.Protocol] = e
	}
}

// Version is an opaque, validated protocol-version handle. Its only
// operations are construction, equality, and integer extraction.
type Version struct {
	protocol int
}

// New validates protocol against the known version set and returns the
// handle, or an error naming the unknown version.
func New(protocol int) (Version, error) {
	if _, ok := known[protocol]; !ok {
		return Version{}, mcerr.New(mcerr.KindInvalidEnum, fmt.Sprintf("unknown protocol version %d", protocol))
	}
	return Version{protocol: protocol}, nil
}

// Int returns the raw protocol version number, used for dispatch tables.
func (v Version) Int() int { return v.protocol }

// Equal reports whether two handles name the same protocol version.
func (v Version) Equal(o Version) bool { return v.protocol == o.protocol }

// Name returns the human-readable release/snapshot name, if known.
func (v Version) Name() string { return known[v.protocol].Name }

// Snapshot reports whether this version is a snapshot build.
func (v Version) Snapshot() bool { return known[v.protocol].Snapshot }

// String implements fmt.Stringer.
func (v Version) String() string {
	if e, ok := known[v.protocol]; ok {
		return fmt.Sprintf("%s (protocol %d)", e.Name, v.protocol)
	}
	return fmt.Sprintf("protocol %d", v.protocol)
}

// Range is an inclusive [Min, Max] span of protocol version numbers, used
// by the packet registry's per-(id, version-range) dispatch tables.
type Range struct {
	Min, Max int
}

// Contains reports whether v falls within the range.
func (r Range) Contains(v Version) bool {
	return v.protocol >= r.Min && v.protocol <= r.Max
}

// Overlaps reports whether two ranges share any protocol version — used at
// registry build time to diagnose ambiguous dispatch tables.
func (r Range) Overlaps(o Range) bool {
	return r.Min <= o.Max && o.Min <= r.Max
}

// Known reports whether protocol names a recognized version.
func Known(protocol int) bool {
	_, ok := known[protocol]
	return ok
}

// PreFlattening reports whether the given protocol predates the 1.13
// "the flattening" block-state rework (protocol 393), which is the
// dividing line §3.6/§4.8 route chunk-section decoding on.
func PreFlattening(v Version) bool {
	return v.protocol < 393
}

// PositionLayout442 reports whether the given protocol uses the 442+
// x|z|y bitfield ordering for the Position type, per §9's Open Question.
func PositionLayout442(v Version) bool {
	return v.protocol >= 442
}
