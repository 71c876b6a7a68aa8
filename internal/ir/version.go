package ir

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// EngineVersion is the runloop policy version recorded with every run.
const EngineVersion = "0.1.0"

// Version is an ordered semantic version (major.minor[.patch]).
//
// The zero value is not a valid version; use ParseVersion or MustParseVersion.
// Versions are compared by value and are safe to copy.
type Version struct {
	v *semver.Version
}

// ParseVersion parses a lenient version string such as "9", "9.0" or "10.3.1".
// Missing minor and patch components default to zero.
func ParseVersion(raw string) (Version, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Version{}, fmt.Errorf("parse version: empty string")
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, fmt.Errorf("parse version %q: %w", raw, err)
	}
	return Version{v: v}, nil
}

// MustParseVersion is like ParseVersion but panics on error.
// Use only in tests or for literals known to be valid.
func MustParseVersion(raw string) Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// IsZero reports whether v was never parsed.
func (v Version) IsZero() bool {
	return v.v == nil
}

// Major returns the major component.
func (v Version) Major() uint64 {
	if v.v == nil {
		return 0
	}
	return v.v.Major()
}

// Minor returns the minor component.
func (v Version) Minor() uint64 {
	if v.v == nil {
		return 0
	}
	return v.v.Minor()
}

// Compare returns -1, 0 or 1. The zero Version sorts before every parsed one.
func (v Version) Compare(other Version) int {
	switch {
	case v.v == nil && other.v == nil:
		return 0
	case v.v == nil:
		return -1
	case other.v == nil:
		return 1
	}
	return v.v.Compare(other.v)
}

// GTE reports whether v >= other.
func (v Version) GTE(other Version) bool {
	return v.Compare(other) >= 0
}

// LT reports whether v < other.
func (v Version) LT(other Version) bool {
	return v.Compare(other) < 0
}

// Equal reports whether both versions have the same value.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// String returns "major.minor", adding ".patch" only when it is non-zero.
func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	if v.v.Patch() == 0 {
		return fmt.Sprintf("%d.%d", v.v.Major(), v.v.Minor())
	}
	return fmt.Sprintf("%d.%d.%d", v.v.Major(), v.v.Minor(), v.v.Patch())
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
