// Package device describes the target device or simulator under test.
package device

import (
	"fmt"

	"github.com/roach88/runloop/internal/ir"
)

// Device is an immutable descriptor of a physical device or simulator.
type Device struct {
	Name      string
	UDID      string
	Simulator bool

	version ir.Version
}

// New returns a physical device descriptor.
func New(name, udid string, version ir.Version) *Device {
	return &Device{Name: name, UDID: udid, version: version}
}

// NewSimulator returns a simulator descriptor.
func NewSimulator(name, udid string, version ir.Version) *Device {
	d := New(name, udid, version)
	d.Simulator = true
	return d
}

// Version returns the OS version running on the device.
func (d *Device) Version() ir.Version {
	return d.version
}

// String returns "Name (version) <udid>", omitting the udid when unknown.
func (d *Device) String() string {
	if d.UDID == "" {
		return fmt.Sprintf("%s (%s)", d.Name, d.version)
	}
	return fmt.Sprintf("%s (%s) <%s>", d.Name, d.version, d.UDID)
}
