package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestRun_AllScenariosPass(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			s, err := LoadScenario(file)
			require.NoError(t, err)

			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Len(t, result.Trace, len(s.Flow))
			assert.Equal(t, len(s.Flow), result.Recorded)
		})
	}
}

func TestRunWithGolden(t *testing.T) {
	for _, name := range []string{"modern_toolchain", "missing_facts"} {
		t.Run(name, func(t *testing.T) {
			result, err := RunWithGolden(t, loadTestScenario(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_Deterministic(t *testing.T) {
	s := loadTestScenario(t, "legacy_toolchain")

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	a, err := Snapshot(s, first)
	require.NoError(t, err)
	b, err := Snapshot(s, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRun_ExpectMismatchFails(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: wrong_expectation
description: "expects the wrong backend"
xcode: "8.3"
device: { name: iPhone 7, version: "10.3" }
flow:
  - options: {}
    expect:
      performer: instruments
  - options: { gesture_performer: instruments }
    expect:
      performer: instruments
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "flow[0]: expected performer instruments, got performer device_agent", result.Errors[0])
	assert.Equal(t, "flow[1]: expected performer instruments, got error INCOMPATIBLE_OPTION", result.Errors[1])
}

func TestRun_AssertionFailureReported(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: wrong_count
description: "counts too many runs"
cloud: true
flow:
  - options: {}
assertions:
  - type: history_count
    count: 2
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Assertion failed: history_count")
	assert.Contains(t, result.Errors[0], "Actual: 1 recorded run(s)")
}

func TestRun_RequestedLabels(t *testing.T) {
	result, err := Run(loadTestScenario(t, "old_device"))
	require.NoError(t, err)

	var requested []string
	for _, e := range result.Trace {
		requested = append(requested, e.Requested)
	}
	assert.Equal(t, []string{RequestDefault, "device_agent", "instruments", RequestDefault}, requested)
}

func TestRunContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunContext(ctx, loadTestScenario(t, "cloud_mode"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
