package runloop

import (
	"context"
	"errors"

	"github.com/roach88/runloop/internal/ir"
)

// Result is the outcome reported by an Executor.
type Result map[string]any

// Executor is the execution engine entry point Run forwards to.
type Executor interface {
	ExecuteWithConfiguration(ctx context.Context, cfg ir.Configuration) (Result, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, cfg ir.Configuration) (Result, error)

// ExecuteWithConfiguration calls f.
func (f ExecutorFunc) ExecuteWithConfiguration(ctx context.Context, cfg ir.Configuration) (Result, error) {
	return f(ctx, cfg)
}

// ErrNoExecutor is returned by Run when exec is nil.
var ErrNoExecutor = errors.New("runloop: no executor")

// Run hands cfg to exec exactly once and returns its result and error as-is.
func Run(ctx context.Context, exec Executor, cfg ir.Configuration) (Result, error) {
	if exec == nil {
		return nil, ErrNoExecutor
	}
	return exec.ExecuteWithConfiguration(ctx, cfg)
}
