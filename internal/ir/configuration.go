package ir

import (
	"reflect"
)

// Option keys read by the policy engine. Every other key is passthrough.
const (
	KeyGesturePerformer = "gesture_performer"
)

// Passthrough keys the surrounding driver conventionally sets. The core
// never inspects them; they are named here so callers and the planner
// agree on spelling.
const (
	KeyXcode         = "xcode"
	KeyDevice        = "device"
	KeySimctl        = "simctl"
	KeyInstruments   = "instruments"
	KeyUIAStrategy   = "uia_strategy"
	KeyBundleID      = "bundle_id"
	KeyLaunchTimeout = "launch_timeout"
)

// Option is a single key/value entry of a Configuration.
type Option struct {
	Key   string
	Value any
}

// Opt is a shorthand for Option for ergonomic construction.
// Example: NewConfiguration(Opt("device", dev), Opt("uia_strategy", "preferences"))
func Opt(key string, value any) Option {
	return Option{Key: key, Value: value}
}

// Configuration is an immutable, ordered option bag.
//
// Keys are unique and keep their insertion order. Values are stored as given:
// a pointer placed into a Configuration is the same pointer returned by Get.
// The zero value is an empty configuration ready to use.
type Configuration struct {
	entries []Option
	index   map[string]int
}

// NewConfiguration builds a Configuration from options in order.
// A repeated key replaces the earlier value in its original position.
func NewConfiguration(opts ...Option) Configuration {
	c := Configuration{
		entries: make([]Option, 0, len(opts)),
		index:   make(map[string]int, len(opts)),
	}
	for _, o := range opts {
		if i, ok := c.index[o.Key]; ok {
			c.entries[i].Value = o.Value
			continue
		}
		c.index[o.Key] = len(c.entries)
		c.entries = append(c.entries, o)
	}
	return c
}

// With returns a copy of c with key set to value. The receiver is unchanged.
// Replacing an existing key keeps its position; a new key is appended.
func (c Configuration) With(key string, value any) Configuration {
	opts := make([]Option, len(c.entries), len(c.entries)+1)
	copy(opts, c.entries)
	opts = append(opts, Option{Key: key, Value: value})
	return NewConfiguration(opts...)
}

// Get returns the value stored under key.
func (c Configuration) Get(key string) (any, bool) {
	i, ok := c.index[key]
	if !ok {
		return nil, false
	}
	return c.entries[i].Value, true
}

// Has reports whether key is present.
func (c Configuration) Has(key string) bool {
	_, ok := c.index[key]
	return ok
}

// Len returns the number of keys.
func (c Configuration) Len() int {
	return len(c.entries)
}

// Keys returns the keys in insertion order.
func (c Configuration) Keys() []string {
	keys := make([]string, len(c.entries))
	for i, o := range c.entries {
		keys[i] = o.Key
	}
	return keys
}

// Options returns a copy of the entries in insertion order.
func (c Configuration) Options() []Option {
	out := make([]Option, len(c.entries))
	copy(out, c.entries)
	return out
}

// Equal reports whether c and other hold the same keys in the same order
// with identical values. Pointers, maps, slices and funcs compare by
// identity; other values compare with ==, falling back to deep equality for
// non-comparable structs.
func (c Configuration) Equal(other Configuration) bool {
	if len(c.entries) != len(other.entries) {
		return false
	}
	for i, o := range c.entries {
		p := other.entries[i]
		if o.Key != p.Key || !SameValue(o.Value, p.Value) {
			return false
		}
	}
	return true
}

// IsNil reports whether v is nil or a nil pointer, map, slice, func, chan
// or interface wrapped in a non-nil interface value.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// SameValue reports whether a and b are the same configuration value.
func SameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Map, reflect.Func, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if va.Type().Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
