package nbt

import "github.com/dmitrymodder/mcwire/mcerr"

// entry is one name/value pair in an insertion-ordered Compound.
type entry struct {
	key   string
	value Value
}

// Compound is an insertion-ordered, duplicate-rejecting mapping from
// modified-UTF-8 name to Value, terminated on the wire by an explicit End
// tag.
type Compound struct {
	entries []entry
	index   map[string]int
}

// NewCompound returns an empty Compound ready for Put.
func NewCompound() *Compound {
	return &Compound{index: make(map[string]int)}
}

// Put inserts a new key. It returns an error if the key already exists —
// decode uses this to reject duplicate compound keys per §4.5.
func (c *Compound) Put(key string, v Value) error {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if _, exists := c.index[key]; exists {
		return mcerr.New(mcerr.KindDuplicateKey, key)
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, entry{key: key, value: v})
	return nil
}

// Set inserts or overwrites key — used by callers building a Compound
// programmatically, where duplicate-rejection doesn't apply.
func (c *Compound) Set(key string, v Value) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, exists := c.index[key]; exists {
		c.entries[i].value = v
		return
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, entry{key: key, value: v})
}

// Get looks up key, reporting whether it was present.
func (c *Compound) Get(key string) (Value, bool) {
	i, ok := c.index[key]
	if !ok {
		return Value{}, false
	}
	return c.entries[i].value, true
}

// Len returns the number of entries.
func (c *Compound) Len() int { return len(c.entries) }

// Range calls fn for each entry in insertion order, stopping early if fn
// returns false.
func (c *Compound) Range(fn func(key string, v Value) bool) {
	for _, e := range c.entries {
		if !fn(e.key, e.value) {
			return
		}
	}
}

// Equal compares two compounds by content regardless of insertion order,
// matching §8's "decode(encode(d)) == d modulo compound-key ordering"
// property.
func (c *Compound) Equal(o *Compound) bool {
	if c.Len() != o.Len() {
		return false
	}
	for _, e := range c.entries {
		ov, ok := o.Get(e.key)
		if !ok || !e.value.Equal(ov) {
			return false
		}
	}
	return true
}
