package ir

import (
	"fmt"
	"strings"
)

// PerformerKind identifies the backend that injects synthetic gestures.
//
// The set of members is closed. PerformerUnset is the zero value and is not
// a member; it is what parsing returns alongside ok=false.
type PerformerKind int

const (
	// PerformerUnset is the zero value. It never names a backend.
	PerformerUnset PerformerKind = iota

	// PerformerInstruments drives gestures through the instruments process.
	PerformerInstruments

	// PerformerDeviceAgent drives gestures through the on-device agent.
	PerformerDeviceAgent
)

var performerNames = map[PerformerKind]string{
	PerformerInstruments: "instruments",
	PerformerDeviceAgent: "device_agent",
}

// PerformerKinds returns every member in declaration order.
func PerformerKinds() []PerformerKind {
	return []PerformerKind{PerformerInstruments, PerformerDeviceAgent}
}

// Valid reports whether k is a member of the enumeration.
func (k PerformerKind) Valid() bool {
	_, ok := performerNames[k]
	return ok
}

// String returns the option name ("instruments", "device_agent").
func (k PerformerKind) String() string {
	if name, ok := performerNames[k]; ok {
		return name
	}
	if k == PerformerUnset {
		return "unset"
	}
	return fmt.Sprintf("PerformerKind(%d)", int(k))
}

// ParsePerformerKind converts a configuration value into a PerformerKind.
//
// Accepted inputs are a valid PerformerKind or a string naming a member.
// A single leading ':' is tolerated so symbol-style names (":device_agent")
// from hand-written option files parse. Everything else returns ok=false.
func ParsePerformerKind(v any) (PerformerKind, bool) {
	switch val := v.(type) {
	case PerformerKind:
		return val, val.Valid()
	case string:
		name := strings.TrimPrefix(val, ":")
		for kind, n := range performerNames {
			if n == name {
				return kind, true
			}
		}
	}
	return PerformerUnset, false
}

// MarshalText implements encoding.TextMarshaler.
func (k PerformerKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("marshal performer: %s is not a member", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PerformerKind) UnmarshalText(text []byte) error {
	kind, ok := ParsePerformerKind(string(text))
	if !ok {
		return fmt.Errorf("unmarshal performer: unknown name %q", string(text))
	}
	*k = kind
	return nil
}
