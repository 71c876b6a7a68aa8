package config

import "fmt"

// Error codes, shared with the CLI's E-code space.
const (
	ErrCodeGeneric           = "E001" // Generic/unknown error
	ErrCodeUnsupportedFormat = "E003" // Unknown file extension
	ErrCodeParseFailed       = "E004" // YAML/TOML syntax error
	ErrCodeNotFound          = "E005" // Path not found
	ErrCodeSchema            = "E006" // CUE schema violation
	ErrCodeInvalidValue      = "E104" // Value cannot become a handle
)

// LoadError represents an error that occurred while loading a configuration file.
type LoadError struct {
	Code    string
	Message string
	Path    string

	// Details lists individual schema violations (ErrCodeSchema only).
	Details []string

	Err error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
