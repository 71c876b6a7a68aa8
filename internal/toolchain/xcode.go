// Package toolchain describes the installed developer toolchain (Xcode).
//
// Discovery and installation are owned elsewhere; this package only turns a
// version into the facts the policy engine reads.
package toolchain

import (
	"fmt"
	"regexp"

	"github.com/roach88/runloop/internal/ir"
)

// xcode8 is the first toolchain that dropped instruments-driven gestures.
var xcode8 = ir.MustParseVersion("8.0")

var versionLine = regexp.MustCompile(`(?m)^Xcode\s+(\d+(?:\.\d+){0,2})\s*$`)

// Xcode is an immutable toolchain descriptor.
type Xcode struct {
	version ir.Version
}

// New returns a descriptor for the given version.
func New(version ir.Version) *Xcode {
	return &Xcode{version: version}
}

// Parse builds a descriptor from a bare version string ("8.3.2").
func Parse(raw string) (*Xcode, error) {
	v, err := ir.ParseVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("xcode: %w", err)
	}
	return New(v), nil
}

// ParseVersionOutput builds a descriptor from `xcodebuild -version` output:
//
//	Xcode 8.3.2
//	Build version 8E2002
func ParseVersionOutput(out string) (*Xcode, error) {
	m := versionLine.FindStringSubmatch(out)
	if m == nil {
		return nil, fmt.Errorf("xcode: no version line in xcodebuild output")
	}
	return Parse(m[1])
}

// Version returns the toolchain version.
func (x *Xcode) Version() ir.Version {
	return x.version
}

// VersionAtLeast8 reports whether this is Xcode 8 or later.
func (x *Xcode) VersionAtLeast8() bool {
	return x.version.GTE(xcode8)
}

// String returns "Xcode <version>".
func (x *Xcode) String() string {
	return "Xcode " + x.version.String()
}
