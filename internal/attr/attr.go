package attr

import (
	"fmt"
	"sort"
	"sync"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Key identifies one attribute dimension by name, together with the runtime
// type tag its values must conform to. Keys are compared by name only; the
// type tag is a constraint, not part of the identity.
type Key struct {
	name    string
	ctyType cty.Type
}

// NewKey creates an attribute key with the given name and value type.
func NewKey(name string, ty cty.Type) Key {
	return Key{name: name, ctyType: ty}
}

// StringKey creates a key for the common case of string-valued attributes.
func StringKey(name string) Key {
	return Key{name: name, ctyType: cty.String}
}

// Name returns the attribute's name.
func (k Key) Name() string { return k.name }

// Type returns the runtime type tag for the attribute's values.
func (k Key) Type() cty.Type { return k.ctyType }

func (k Key) String() string {
	return fmt.Sprintf("%s (%s)", k.name, k.ctyType.FriendlyName())
}

type entry struct {
	key   Key
	value cty.Value
}

// Container is a mutable attribute store. The zero value is not usable;
// create instances with NewContainer.
type Container struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewContainer creates an empty mutable attribute container.
func NewContainer() *Container {
	return &Container{entries: make(map[string]entry)}
}

// Set stores a value for the given key, converting it to the key's declared
// type. It returns an error if the value cannot be converted.
func (c *Container) Set(key Key, value cty.Value) error {
	converted, err := convert.Convert(value, key.ctyType)
	if err != nil {
		return fmt.Errorf("attribute %q: %w", key.name, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key.name] = entry{key: key, value: converted}
	return nil
}

// Get is the erased accessor: it returns the stored value for the key's name,
// or cty.NilVal and false when absent.
func (c *Container) Get(key Key) (cty.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key.name]
	if !ok {
		return cty.NilVal, false
	}
	return e.value, true
}

// Keys returns the container's keys sorted by name.
func (c *Container) Keys() []Key {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]Key, 0, len(c.entries))
	for _, e := range c.entries {
		keys = append(keys, e.key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].name < keys[j].name })
	return keys
}

// Len returns the number of attributes present.
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Immutable captures the container's current contents as an immutable
// snapshot, ordered by key name.
func (c *Container) Immutable() Immutable {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entries := make([]entry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key.name < entries[j].key.name })
	return Immutable{entries: entries}
}

// Immutable is a read-only, point-in-time view of an attribute container.
// The zero value is an empty set.
type Immutable struct {
	entries []entry
}

// Get returns the value recorded for the key's name, or cty.NilVal and false
// when absent.
func (im Immutable) Get(key Key) (cty.Value, bool) {
	for _, e := range im.entries {
		if e.key.name == key.name {
			return e.value, true
		}
	}
	return cty.NilVal, false
}

// Keys returns the snapshot's keys in name order.
func (im Immutable) Keys() []Key {
	keys := make([]Key, len(im.entries))
	for i, e := range im.entries {
		keys[i] = e.key
	}
	return keys
}

// Len returns the number of attributes in the snapshot.
func (im Immutable) Len() int { return len(im.entries) }

// IsEmpty reports whether the snapshot holds no attributes.
func (im Immutable) IsEmpty() bool { return len(im.entries) == 0 }
