package policy

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes policy failures.
type ErrorCode string

const (
	// ErrCodeInvalidOption indicates gesture_performer names no known backend.
	ErrCodeInvalidOption ErrorCode = "INVALID_OPTION"

	// ErrCodeIncompatibleOption indicates the requested backend is not
	// offered by the active toolchain.
	ErrCodeIncompatibleOption ErrorCode = "INCOMPATIBLE_OPTION"

	// ErrCodeIncompatibleEnvironment indicates no backend exists for the
	// toolchain and device OS pair.
	ErrCodeIncompatibleEnvironment ErrorCode = "INCOMPATIBLE_ENVIRONMENT"
)

// Messages are stable; callers and tests match on their prefixes.
const (
	msgInvalidOption           = "Invalid gesture_performer option"
	msgIncompatibleOption      = "Incompatible gesture_performer option for active toolchain version"
	msgIncompatibleEnvironment = "Invalid toolchain and device OS combination"
)

// ErrMissingFacts is returned when a rule needs a descriptor the caller did
// not supply.
var ErrMissingFacts = errors.New("policy: missing version facts")

// PolicyError is a caller-visible, non-retryable policy failure.
type PolicyError struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Message is the human-readable description, surfaced verbatim.
	Message string

	// Value is the offending gesture_performer value (InvalidOption and
	// IncompatibleOption only).
	Value string

	// Suggestion is the closest valid backend name for a misspelled
	// InvalidOption value, or empty.
	Suggestion string
}

// Error returns Message unchanged. Suggestion is left for callers to render.
func (e *PolicyError) Error() string {
	return e.Message
}

// IsInvalidOption returns true if err is an InvalidOption failure.
// Uses errors.As to handle wrapped errors.
func IsInvalidOption(err error) bool {
	return hasCode(err, ErrCodeInvalidOption)
}

// IsIncompatibleOption returns true if err is an IncompatibleOption failure.
func IsIncompatibleOption(err error) bool {
	return hasCode(err, ErrCodeIncompatibleOption)
}

// IsIncompatibleEnvironment returns true if err is an IncompatibleEnvironment failure.
func IsIncompatibleEnvironment(err error) bool {
	return hasCode(err, ErrCodeIncompatibleEnvironment)
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not a PolicyError.
func CodeOf(err error) ErrorCode {
	var pe *PolicyError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

func hasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

func newInvalidOption(value any) *PolicyError {
	v := fmt.Sprintf("%v", value)
	return &PolicyError{
		Code:       ErrCodeInvalidOption,
		Message:    fmt.Sprintf("%s: %s", msgInvalidOption, v),
		Value:      v,
		Suggestion: suggestPerformer(v),
	}
}

func newIncompatibleOption(value string) *PolicyError {
	return &PolicyError{
		Code:    ErrCodeIncompatibleOption,
		Message: fmt.Sprintf("%s: %s requires Xcode < 8", msgIncompatibleOption, value),
		Value:   value,
	}
}

func newIncompatibleEnvironment(deviceOS string) *PolicyError {
	return &PolicyError{
		Code: ErrCodeIncompatibleEnvironment,
		Message: fmt.Sprintf("%s: device_agent requires device OS >= %s, found %s",
			msgIncompatibleEnvironment, minDeviceAgentOS, deviceOS),
	}
}
