package policy

import (
	"fmt"

	"github.com/agnivade/levenshtein"

	"github.com/roach88/runloop/internal/environment"
	"github.com/roach88/runloop/internal/ir"
)

// minDeviceAgentOS is the oldest device OS the device agent can drive.
var minDeviceAgentOS = ir.MustParseVersion("9.0")

// maxSuggestionDistance bounds how far a misspelling may be from a backend
// name before no suggestion is offered.
const maxSuggestionDistance = 3

// Toolchain is the only toolchain fact the policy reads.
type Toolchain interface {
	VersionAtLeast8() bool
}

// Device is the only device fact the policy reads.
type Device interface {
	Version() ir.Version
}

type toolchainTier int

const (
	// toolchainLegacy is Xcode < 8: instruments only.
	toolchainLegacy toolchainTier = iota
	// toolchainModern is Xcode >= 8: instruments removed.
	toolchainModern
)

type deviceTier int

const (
	// devicePreAgent is device OS < 9.0: the device agent cannot run.
	devicePreAgent deviceTier = iota
	// deviceAgentCapable is device OS >= 9.0.
	deviceAgentCapable
)

// Policy selects gesture performers. It holds no mutable state and is safe
// for concurrent use.
type Policy struct {
	env environment.Probe
}

// New creates a Policy reading cloud mode from env.
// A nil env reads the process environment.
func New(env environment.Probe) *Policy {
	if env == nil {
		env = environment.OSProbe{}
	}
	return &Policy{env: env}
}

// DefaultPerformer infers the performer when the caller expressed no preference.
//
// Rules, first match wins:
//  1. cloud mode: instruments
//  2. Xcode < 8: instruments
//  3. Xcode >= 8 and device OS >= 9.0: device_agent
//  4. Xcode >= 8 and device OS < 9.0: IncompatibleEnvironment
func (p *Policy) DefaultPerformer(tc Toolchain, dev Device) (ir.PerformerKind, error) {
	if p.env.CloudMode() {
		return ir.PerformerInstruments, nil
	}
	return defaultPerformer(tc, dev)
}

// SelectPerformer validates an explicit gesture_performer in cfg, or falls
// back to DefaultPerformer when none is given.
//
// In cloud mode the answer is instruments and cfg is not read. A
// gesture_performer key holding nil counts as absent.
func (p *Policy) SelectPerformer(cfg ir.Configuration, tc Toolchain, dev Device) (ir.PerformerKind, error) {
	if p.env.CloudMode() {
		return ir.PerformerInstruments, nil
	}

	raw, ok := cfg.Get(ir.KeyGesturePerformer)
	if !ok || raw == nil {
		return defaultPerformer(tc, dev)
	}

	requested, ok := ir.ParsePerformerKind(raw)
	if !ok {
		return ir.PerformerUnset, newInvalidOption(raw)
	}

	switch requested {
	case ir.PerformerInstruments:
		tier, err := toolchainTierOf(tc)
		if err != nil {
			return ir.PerformerUnset, err
		}
		if tier == toolchainModern {
			return ir.PerformerUnset, newIncompatibleOption(requested.String())
		}
		return requested, nil

	case ir.PerformerDeviceAgent:
		// device_agent is not gated on the toolchain version.
		tier, osVersion, err := deviceTierOf(dev)
		if err != nil {
			return ir.PerformerUnset, err
		}
		if tier == devicePreAgent {
			return ir.PerformerUnset, newIncompatibleEnvironment(osVersion.String())
		}
		return requested, nil
	}

	panic(fmt.Sprintf("policy: unhandled performer %s", requested))
}

func defaultPerformer(tc Toolchain, dev Device) (ir.PerformerKind, error) {
	tier, err := toolchainTierOf(tc)
	if err != nil {
		return ir.PerformerUnset, err
	}

	switch tier {
	case toolchainLegacy:
		return ir.PerformerInstruments, nil

	case toolchainModern:
		dt, osVersion, err := deviceTierOf(dev)
		if err != nil {
			return ir.PerformerUnset, err
		}
		switch dt {
		case deviceAgentCapable:
			return ir.PerformerDeviceAgent, nil
		case devicePreAgent:
			return ir.PerformerUnset, newIncompatibleEnvironment(osVersion.String())
		}
	}

	panic(fmt.Sprintf("policy: unhandled tiers toolchain=%d", tier))
}

func toolchainTierOf(tc Toolchain) (toolchainTier, error) {
	if ir.IsNil(tc) {
		return 0, fmt.Errorf("%w: toolchain is nil", ErrMissingFacts)
	}
	if tc.VersionAtLeast8() {
		return toolchainModern, nil
	}
	return toolchainLegacy, nil
}

func deviceTierOf(dev Device) (deviceTier, ir.Version, error) {
	if ir.IsNil(dev) {
		return 0, ir.Version{}, fmt.Errorf("%w: device is nil", ErrMissingFacts)
	}
	osVersion := dev.Version()
	if osVersion.IsZero() {
		return 0, osVersion, fmt.Errorf("%w: device has no OS version", ErrMissingFacts)
	}
	if osVersion.GTE(minDeviceAgentOS) {
		return deviceAgentCapable, osVersion, nil
	}
	return devicePreAgent, osVersion, nil
}

// suggestPerformer returns the backend name closest to value, if any is
// within maxSuggestionDistance edits.
func suggestPerformer(value string) string {
	best, bestDist := "", maxSuggestionDistance+1
	for _, k := range ir.PerformerKinds() {
		if d := levenshtein.ComputeDistance(value, k.String()); d < bestDist {
			best, bestDist = k.String(), d
		}
	}
	return best
}
