// Package testutil provides deterministic collaborators for policy tests.
package testutil

import (
	"sync/atomic"

	"github.com/roach88/runloop/internal/ir"
)

// StubToolchain answers VersionAtLeast8 with a fixed value and counts calls.
//
// Tests use Calls to prove a branch never consulted the toolchain.
// Thread-safety: safe for concurrent use.
type StubToolchain struct {
	AtLeast8 bool
	calls    atomic.Int64
}

// NewToolchain creates a stub toolchain.
func NewToolchain(atLeast8 bool) *StubToolchain {
	return &StubToolchain{AtLeast8: atLeast8}
}

// VersionAtLeast8 returns the configured answer.
func (s *StubToolchain) VersionAtLeast8() bool {
	s.calls.Add(1)
	return s.AtLeast8
}

// Calls returns how many times VersionAtLeast8 was called.
func (s *StubToolchain) Calls() int64 {
	return s.calls.Load()
}

// StubDevice returns a fixed OS version and counts calls.
//
// Thread-safety: safe for concurrent use.
type StubDevice struct {
	OS    ir.Version
	calls atomic.Int64
}

// NewDevice creates a stub device running the given OS version.
// Panics if version does not parse.
func NewDevice(version string) *StubDevice {
	return &StubDevice{OS: ir.MustParseVersion(version)}
}

// Version returns the configured OS version.
func (s *StubDevice) Version() ir.Version {
	s.calls.Add(1)
	return s.OS
}

// Calls returns how many times Version was called.
func (s *StubDevice) Calls() int64 {
	return s.calls.Load()
}

// StubProbe answers CloudMode with a fixed value and counts calls.
type StubProbe struct {
	Cloud bool
	calls atomic.Int64
}

// NewProbe creates a stub environment probe.
func NewProbe(cloud bool) *StubProbe {
	return &StubProbe{Cloud: cloud}
}

// CloudMode returns the configured answer.
func (s *StubProbe) CloudMode() bool {
	s.calls.Add(1)
	return s.Cloud
}

// Calls returns how many times CloudMode was called.
func (s *StubProbe) Calls() int64 {
	return s.calls.Load()
}
