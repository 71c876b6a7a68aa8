package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/runloop/internal/ir"
)

// TraceSnapshot captures the complete trace for a scenario execution.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Cloud        bool         `json:"cloud"`
	Trace        []TraceEvent `json:"trace"`
	Recorded     int          `json:"recorded"`
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for canonical
// JSON serialization, which only handles primitives, slices and maps.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"step":      event.Step,
			"options":   event.Options,
			"requested": event.Requested,
			"forwarded": event.Forwarded,
		}
		if event.Performer != "" {
			eventMap["performer"] = event.Performer
		}
		if event.Error != "" {
			eventMap["error"] = event.Error
		}
		traceList[i] = eventMap
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"cloud":         s.Cloud,
		"trace":         traceList,
		"recorded":      s.Recorded,
	}
}

// Snapshot returns the canonical JSON trace of a scenario result.
func Snapshot(scenario *Scenario, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		ScenarioName: scenario.Name,
		Cloud:        scenario.Cloud,
		Trace:        result.Trace,
		Recorded:     result.Recorded,
	}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	traceJSON, err := Snapshot(scenario, result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)

	return result, nil
}
