package runloop

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/runloop/internal/ir"
	"github.com/roach88/runloop/internal/policy"
)

// Result keys produced by Planner.
const (
	ResultGesturePerformer = "gesture_performer"
	ResultConfigHash       = "config_hash"
	ResultOptions          = "options"
	ResultEngineVersion    = "engine_version"
)

// ErrInvalidHandle is returned when the xcode or device option holds a value
// that does not describe a toolchain or device.
var ErrInvalidHandle = errors.New("runloop: invalid handle")

// Planner resolves the gesture performer for a configuration without
// launching anything.
//
// The toolchain and device are read from the KeyXcode and KeyDevice options.
// A missing handle is passed to the policy as nil, so it only fails when a
// rule actually needs that fact.
type Planner struct {
	policy *policy.Policy
}

// NewPlanner creates a Planner deciding through p.
func NewPlanner(p *policy.Policy) *Planner {
	return &Planner{policy: p}
}

// ExecuteWithConfiguration implements Executor.
func (pl *Planner) ExecuteWithConfiguration(ctx context.Context, cfg ir.Configuration) (Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	tc, err := handle[policy.Toolchain](cfg, ir.KeyXcode)
	if err != nil {
		return nil, err
	}
	dev, err := handle[policy.Device](cfg, ir.KeyDevice)
	if err != nil {
		return nil, err
	}

	kind, err := pl.policy.SelectPerformer(cfg, tc, dev)
	if err != nil {
		return nil, err
	}

	hash, err := ir.ConfigurationHash(cfg)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	return Result{
		ResultGesturePerformer: kind.String(),
		ResultConfigHash:       hash,
		ResultOptions:          cfg.Keys(),
		ResultEngineVersion:    ir.EngineVersion,
	}, nil
}

// handle returns cfg[key] as T, or the zero T when the key is absent or
// holds a nil handle of any type.
func handle[T any](cfg ir.Configuration, key string) (T, error) {
	var zero T
	raw, ok := cfg.Get(key)
	if !ok || ir.IsNil(raw) {
		return zero, nil
	}
	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("%w: option %q holds %T", ErrInvalidHandle, key, raw)
	}
	return v, nil
}
