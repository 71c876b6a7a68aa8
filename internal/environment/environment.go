// Package environment exposes process-wide facts about where runloop executes.
package environment

import (
	"os"
	"strings"
)

// EnvCloud is set to "1" inside the hosted test cloud.
const EnvCloud = "XAMARIN_TEST_CLOUD"

// Probe reports whether execution is happening inside the hosted test cloud.
type Probe interface {
	CloudMode() bool
}

// OSProbe reads the process environment on every call. Nothing is cached.
type OSProbe struct {
	// Lookup overrides os.LookupEnv (for testing).
	Lookup func(key string) (string, bool)
}

// CloudMode reports whether EnvCloud is "1".
func (p OSProbe) CloudMode() bool {
	lookup := p.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, ok := lookup(EnvCloud)
	return ok && strings.TrimSpace(v) == "1"
}

// Static is a Probe with a fixed answer.
type Static bool

// CloudMode returns the fixed answer.
func (s Static) CloudMode() bool {
	return bool(s)
}
