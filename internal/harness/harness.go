package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/roach88/runloop/internal/device"
	"github.com/roach88/runloop/internal/environment"
	"github.com/roach88/runloop/internal/ir"
	"github.com/roach88/runloop/internal/policy"
	"github.com/roach88/runloop/internal/runloop"
	"github.com/roach88/runloop/internal/store"
	"github.com/roach88/runloop/internal/toolchain"
)

// Harness is the scenario execution engine.
// It forwards each flow step through runloop.Run to a Planner whose cloud
// mode is fixed by the scenario.
type Harness struct {
	store   *store.Store
	planner *runloop.Planner
	xcode   *toolchain.Xcode
	device  *device.Device
	name    string
	logger  *slog.Logger
}

// recorder is an Executor that remembers what it was handed before
// delegating to next.
type recorder struct {
	next     runloop.Executor
	calls    int
	received ir.Configuration
}

func (r *recorder) ExecuteWithConfiguration(ctx context.Context, cfg ir.Configuration) (runloop.Result, error) {
	r.calls++
	r.received = cfg
	return r.next.ExecuteWithConfiguration(ctx, cfg)
}

// stepIDs numbers run IDs by step so histories are reproducible.
// Not safe for concurrent use.
type stepIDs struct {
	prefix string
	n      int
}

func (g *stepIDs) Generate() string {
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory run history
// 2. Build the toolchain and device handles from the scenario
// 3. Forward every flow step and check its expect clause
// 4. Evaluate assertions against the trace and history
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:", store.WithIDGenerator(&stepIDs{prefix: scenario.Name}))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:   st,
		planner: runloop.NewPlanner(policy.New(environment.Static(scenario.Cloud))),
		name:    scenario.Name,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	if scenario.Xcode != "" {
		h.xcode, err = toolchain.Parse(scenario.Xcode)
		if err != nil {
			return nil, fmt.Errorf("scenario xcode: %w", err)
		}
	}
	if d := scenario.Device; d != nil {
		v, err := ir.ParseVersion(d.Version)
		if err != nil {
			return nil, fmt.Errorf("scenario device: %w", err)
		}
		h.device = device.New(d.Name, d.UDID, v)
	}

	result := NewResult()
	if err := h.executeFlow(ctx, scenario.Flow, result); err != nil {
		return nil, fmt.Errorf("failed to execute flow: %w", err)
	}

	runs, err := st.ListRuns(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read run history: %w", err)
	}
	result.Recorded = len(runs)

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

// executeFlow forwards every step in order.
func (h *Harness) executeFlow(ctx context.Context, flow []FlowStep, result *Result) error {
	for i, step := range flow {
		cfg := h.configuration(step)
		rec := &recorder{next: h.planner}

		out, runErr := runloop.Run(ctx, rec, cfg)

		event := TraceEvent{
			Step:      i,
			Options:   cfg.Keys(),
			Requested: requested(cfg),
			Forwarded: rec.calls == 1 && rec.received.Equal(cfg),
		}
		if runErr != nil {
			label, ok := errorLabel(runErr)
			if !ok {
				return fmt.Errorf("flow[%d]: %w", i, runErr)
			}
			event.Error = label
		} else {
			event.Performer, _ = out[runloop.ResultGesturePerformer].(string)
		}
		h.logger.Debug("step executed", "step", i, "performer", event.Performer, "error", event.Error)

		if err := h.record(ctx, cfg, event, runErr); err != nil {
			return fmt.Errorf("flow[%d]: %w", i, err)
		}

		result.AddTrace(event)
		if step.Expect != nil {
			if msg := checkExpect(i, step.Expect, event); msg != "" {
				result.AddError(msg)
			}
		}
	}
	return nil
}

// configuration builds the step's configuration: xcode, then device, then
// the step options in key order.
func (h *Harness) configuration(step FlowStep) ir.Configuration {
	var opts []ir.Option
	if h.xcode != nil {
		opts = append(opts, ir.Opt(ir.KeyXcode, h.xcode))
	}
	if h.device != nil {
		opts = append(opts, ir.Opt(ir.KeyDevice, h.device))
	}
	for _, key := range slices.Sorted(maps.Keys(step.Options)) {
		opts = append(opts, ir.Opt(key, step.Options[key]))
	}
	return ir.NewConfiguration(opts...)
}

// record appends the step outcome to the run history.
func (h *Harness) record(ctx context.Context, cfg ir.Configuration, event TraceEvent, runErr error) error {
	hash, err := ir.ConfigurationHash(cfg)
	if err != nil {
		return err
	}
	run := store.Run{
		ConfigFile: h.name,
		ConfigHash: hash,
		Performer:  event.Performer,
		ErrorCode:  event.Error,
	}
	if runErr != nil {
		run.Message = runErr.Error()
	}
	_, err = h.store.WriteRun(ctx, run)
	return err
}

func requested(cfg ir.Configuration) string {
	raw, ok := cfg.Get(ir.KeyGesturePerformer)
	if !ok || raw == nil {
		return RequestDefault
	}
	return fmt.Sprint(raw)
}

// errorLabel maps a decision error to its trace label. Errors that are not
// decisions (a cancelled context, a bad handle) are reported as not ok.
func errorLabel(err error) (string, bool) {
	if code := policy.CodeOf(err); code != "" {
		return string(code), true
	}
	if errors.Is(err, policy.ErrMissingFacts) {
		return ErrorMissingFacts, true
	}
	return "", false
}

func checkExpect(step int, want *ExpectClause, got TraceEvent) string {
	if want.Performer != "" {
		kind, _ := ir.ParsePerformerKind(want.Performer)
		if got.Performer != kind.String() {
			return fmt.Sprintf("flow[%d]: expected performer %s, got %s", step, kind, outcome(got))
		}
		return ""
	}
	if got.Error != want.Error {
		return fmt.Sprintf("flow[%d]: expected error %s, got %s", step, want.Error, outcome(got))
	}
	return ""
}

func outcome(e TraceEvent) string {
	if e.Error != "" {
		return "error " + e.Error
	}
	return "performer " + e.Performer
}
