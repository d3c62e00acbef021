// Package validator provides validation for server-configuration documents
// and mode registries.
package validator

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation failures.
var (
	// ErrNilDocument indicates a nil document was passed.
	ErrNilDocument = errors.New("document is nil")

	// ErrInvalidConnectorID indicates a connector id that does not match
	// the allowed pattern.
	ErrInvalidConnectorID = errors.New("invalid connector id")

	// ErrMissingCommand indicates a server record with no command.
	ErrMissingCommand = errors.New("server record requires command")

	// ErrNilArgs indicates a server record whose args field is absent.
	ErrNilArgs = errors.New("server record requires args array")

	// ErrNilAlwaysAllow indicates a server record whose alwaysAllow field
	// is absent.
	ErrNilAlwaysAllow = errors.New("server record requires alwaysAllow array")

	// ErrEmptyEnvKey indicates an environment variable with an empty key.
	ErrEmptyEnvKey = errors.New("environment variable key is empty")

	// ErrInvalidSlug indicates a mode slug without the required prefix.
	ErrInvalidSlug = errors.New("mode slug must start with mcp-")

	// ErrMissingModeName indicates a mode record with no name.
	ErrMissingModeName = errors.New("mode record requires name")

	// ErrMissingRoleDefinition indicates a mode record with no role definition.
	ErrMissingRoleDefinition = errors.New("mode record requires role definition")

	// ErrMissingMCPGroup indicates a mode record whose groups omit "mcp".
	ErrMissingMCPGroup = errors.New("mode groups must include mcp")

	// ErrInvalidSource indicates an unrecognized mode source value.
	ErrInvalidSource = errors.New("invalid mode source")

	// ErrUnpairedMode indicates a generated mode with no matching server.
	ErrUnpairedMode = errors.New("mode has no matching server record")
)

// Severity indicates whether a validation issue is an error or warning.
type Severity int

const (
	// SeverityError indicates an issue that makes the document invalid.
	SeverityError Severity = iota

	// SeverityWarning indicates an issue that doesn't prevent usage but may
	// indicate a configuration problem.
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// ValidationError represents a single validation issue with context.
type ValidationError struct {
	// Property is the JSON path of the offending field, for example
	// "mcpServers.github.command" or "customModes[2].slug".
	Property string

	// Message is a human-readable description of the problem.
	Message string

	// Value is the offending value, when it is useful to show.
	Value string

	// Severity indicates whether this is an error or warning.
	Severity Severity

	// Err is the underlying sentinel error, if any.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	prefix := "error"
	if e.Severity == SeverityWarning {
		prefix = "warning"
	}

	if e.Property != "" && e.Value != "" {
		return fmt.Sprintf("%s: %s: %s (got %q)", prefix, e.Property, e.Message, e.Value)
	}
	if e.Property != "" {
		return fmt.Sprintf("%s: %s: %s", prefix, e.Property, e.Message)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target.
func (e *ValidationError) Is(target error) bool {
	return e.Err != nil && errors.Is(e.Err, target)
}

// HasErrors returns true if any of the validation errors have error severity.
func HasErrors(errs []*ValidationError) bool {
	for _, err := range errs {
		if err.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings returns true if any of the validation errors have warning severity.
func HasWarnings(errs []*ValidationError) bool {
	for _, err := range errs {
		if err.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// Errors returns only the validation errors with error severity.
func Errors(errs []*ValidationError) []*ValidationError {
	var result []*ValidationError
	for _, err := range errs {
		if err.Severity == SeverityError {
			result = append(result, err)
		}
	}
	return result
}

// Warnings returns only the validation errors with warning severity.
func Warnings(errs []*ValidationError) []*ValidationError {
	var result []*ValidationError
	for _, err := range errs {
		if err.Severity == SeverityWarning {
			result = append(result, err)
		}
	}
	return result
}
