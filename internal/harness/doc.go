// Package harness runs conformance scenarios for gesture performer selection.
//
// A scenario fixes the environment (cloud mode, Xcode version, device) and
// forwards a sequence of configurations through runloop.Run to a Planner,
// checking each outcome and the final run history.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	cloud: false
//	xcode: "8.3"
//	device:
//	  name: iPhone 7
//	  version: "10.3"
//	flow:
//	  - options: { gesture_performer: device_agent }
//	    expect:
//	      performer: device_agent
//	  - options: { gesture_performer: instruments }
//	    expect:
//	      error: INCOMPATIBLE_OPTION
//	assertions:
//	  - type: performer_count
//	    performer: device_agent
//	    count: 1
//	  - type: forwarded_unchanged
//
// # Assertion Types
//
//   - performer_count: exactly N steps selected the performer
//   - error_count: exactly N steps failed with the error code
//   - forwarded_unchanged: every configuration reached the executor as given
//   - history_count: the run history holds exactly N runs
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory SQLite run history with
// step-numbered run IDs, and cloud mode comes from the scenario rather than
// the process environment. Traces are therefore identical across runs and
// can be compared against golden files.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/modern_toolchain.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
