package cli

import (
	"errors"
	"fmt"

	"github.com/roach88/runloop/internal/config"
	"github.com/roach88/runloop/internal/policy"
	"github.com/roach88/runloop/internal/runloop"
)

// CLI error codes. Configuration loading reports the config package codes
// (E003-E006, E104) unchanged; policy refusals report the policy ErrorCode.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeMissingFacts = "E002" // Toolchain or device version not supplied
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeBadFlag      = "E101" // Flag value cannot be parsed
	ErrCodeDatabase     = "E201" // Run history database error
)

// policyDetails is the JSON detail payload of a policy refusal.
type policyDetails struct {
	Value      string `json:"value,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// decisionErrorCode maps a failed decision to the code reported for it.
func decisionErrorCode(err error) string {
	var pe *policy.PolicyError
	switch {
	case errors.As(err, &pe):
		return string(pe.Code)
	case errors.Is(err, policy.ErrMissingFacts):
		return ErrCodeMissingFacts
	case errors.Is(err, runloop.ErrInvalidHandle):
		return config.ErrCodeInvalidValue
	default:
		return ErrCodeGeneric
	}
}

// reportDecisionError reports a failed performer decision and returns the
// ExitError the command should return. Policy refusals exit with
// ExitFailure; anything else is a command error.
func reportDecisionError(f *OutputFormatter, err error) error {
	var pe *policy.PolicyError
	if errors.As(err, &pe) {
		var details any
		if pe.Value != "" || pe.Suggestion != "" {
			details = policyDetails{Value: pe.Value, Suggestion: pe.Suggestion}
		}
		_ = f.Error(string(pe.Code), pe.Error(), details)
		if f.Format != "json" && pe.Suggestion != "" {
			fmt.Fprintf(f.Writer, "Did you mean %q?\n", pe.Suggestion)
		}
		return WrapExitError(ExitFailure, "gesture performer refused", err)
	}

	switch {
	case errors.Is(err, policy.ErrMissingFacts):
		_ = f.Error(ErrCodeMissingFacts, err.Error(), "both the Xcode version and the device iOS version are needed outside cloud mode")
		return WrapExitError(ExitCommandError, "missing version facts", err)
	case errors.Is(err, runloop.ErrInvalidHandle):
		_ = f.Error(config.ErrCodeInvalidValue, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid configuration value", err)
	}

	_ = f.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, "performer selection failed", err)
}

// loadDetails is the JSON detail payload of a configuration load failure.
type loadDetails struct {
	Path       string   `json:"path,omitempty"`
	Violations []string `json:"violations,omitempty"`
}

// reportLoadError reports a configuration load failure. Files that exist but
// do not parse or validate exit with ExitFailure; missing or unreadable
// files are command errors.
func reportLoadError(f *OutputFormatter, err error) error {
	var le *config.LoadError
	if !errors.As(err, &le) {
		_ = f.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading configuration", err)
	}

	if f.Format == "json" {
		_ = f.Error(le.Code, le.Message, loadDetails{Path: le.Path, Violations: le.Details})
	} else {
		message := le.Message
		if le.Path != "" {
			message = le.Path + ": " + message
		}
		_ = f.Error(le.Code, message, nil)
		for _, v := range le.Details {
			fmt.Fprintf(f.Writer, "  - %s\n", v)
		}
	}

	switch le.Code {
	case config.ErrCodeParseFailed, config.ErrCodeSchema, config.ErrCodeInvalidValue:
		return WrapExitError(ExitFailure, "invalid configuration", err)
	default:
		return WrapExitError(ExitCommandError, "loading configuration", err)
	}
}
