package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/runloop/internal/ir"
	"github.com/roach88/runloop/internal/policy"
)

// Scenario defines a conformance test scenario.
// Scenarios fix the environment facts and forward a flow of configurations,
// asserting on each outcome and on the resulting run history.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Cloud forces cloud mode for every step.
	Cloud bool `yaml:"cloud,omitempty"`

	// Xcode is the active toolchain version. Empty leaves the xcode option
	// out of every configuration.
	Xcode string `yaml:"xcode,omitempty"`

	// Device is the target device. Nil leaves the device option out of
	// every configuration.
	Device *DeviceFacts `yaml:"device,omitempty"`

	// Flow contains the configurations to forward, in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final trace and run history.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// DeviceFacts describes the scenario's target device.
type DeviceFacts struct {
	Name    string `yaml:"name"`
	UDID    string `yaml:"udid,omitempty"`
	Version string `yaml:"version"`
}

// FlowStep forwards one configuration.
type FlowStep struct {
	// Options are added to the configuration after the xcode and device
	// handles, in key order.
	Options map[string]any `yaml:"options"`

	// Expect specifies the expected outcome.
	// If nil, no validation is performed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a step. Exactly one of
// Performer and Error is set.
type ExpectClause struct {
	// Performer is the expected backend name.
	Performer string `yaml:"performer,omitempty"`

	// Error is the expected policy error code, or ErrorMissingFacts.
	Error string `yaml:"error,omitempty"`
}

// ErrorMissingFacts is the error label for steps that fail because a
// toolchain or device was not supplied.
const ErrorMissingFacts = "MISSING_FACTS"

// Assertion validates the trace or run history.
type Assertion struct {
	// Type specifies the assertion type:
	// - "performer_count": Check Performer was selected exactly Count times
	// - "error_count": Check Code was reported exactly Count times
	// - "forwarded_unchanged": Check every configuration was forwarded as built
	// - "history_count": Check the run history holds exactly Count runs
	Type string `yaml:"type"`

	// Performer is the backend name (used by performer_count).
	Performer string `yaml:"performer,omitempty"`

	// Code is the error code (used by error_count).
	Code string `yaml:"code,omitempty"`

	// Count is the expected number of occurrences.
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertPerformerCount     = "performer_count"
	AssertErrorCount         = "error_count"
	AssertForwardedUnchanged = "forwarded_unchanged"
	AssertHistoryCount       = "history_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Xcode != "" {
		if _, err := ir.ParseVersion(s.Xcode); err != nil {
			return fmt.Errorf("xcode: %w", err)
		}
	}

	if s.Device != nil {
		if s.Device.Name == "" {
			return fmt.Errorf("device: name is required")
		}
		if _, err := ir.ParseVersion(s.Device.Version); err != nil {
			return fmt.Errorf("device: %w", err)
		}
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for i, step := range s.Flow {
		if step.Options == nil {
			return fmt.Errorf("flow[%d]: options is required (use empty map if no options)", i)
		}
		for _, key := range []string{ir.KeyXcode, ir.KeyDevice} {
			if _, ok := step.Options[key]; ok {
				return fmt.Errorf("flow[%d]: option %q is set from the scenario, not the step", i, key)
			}
		}
		if step.Expect != nil {
			if err := validateExpect(step.Expect); err != nil {
				return fmt.Errorf("flow[%d].expect: %w", i, err)
			}
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateExpect(e *ExpectClause) error {
	switch {
	case e.Performer == "" && e.Error == "":
		return fmt.Errorf("performer or error is required")
	case e.Performer != "" && e.Error != "":
		return fmt.Errorf("performer and error are mutually exclusive")
	case e.Performer != "":
		if _, ok := ir.ParsePerformerKind(e.Performer); !ok {
			return fmt.Errorf("unknown performer %q", e.Performer)
		}
	default:
		if !knownErrorCode(e.Error) {
			return fmt.Errorf("unknown error code %q", e.Error)
		}
	}
	return nil
}

func knownErrorCode(code string) bool {
	switch policy.ErrorCode(code) {
	case policy.ErrCodeInvalidOption, policy.ErrCodeIncompatibleOption, policy.ErrCodeIncompatibleEnvironment:
		return true
	}
	return code == ErrorMissingFacts
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	if a.Count < 0 {
		return fmt.Errorf("assertions[%d]: count must be non-negative", index)
	}

	switch a.Type {
	case AssertPerformerCount:
		if _, ok := ir.ParsePerformerKind(a.Performer); !ok {
			return fmt.Errorf("assertions[%d]: valid performer is required for performer_count", index)
		}
	case AssertErrorCount:
		if !knownErrorCode(a.Code) {
			return fmt.Errorf("assertions[%d]: known code is required for error_count", index)
		}
	case AssertForwardedUnchanged, AssertHistoryCount:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
