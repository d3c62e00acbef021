package config

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"
)

// Validation errors for configuration fields.
var (
	// ErrInvalidRegistryURL indicates the registry URL is not an absolute http(s) URL.
	ErrInvalidRegistryURL = errors.New("registry URL must be an absolute http(s) URL")

	// ErrNegativeRetries indicates the retry attempt count is negative.
	ErrNegativeRetries = errors.New("retry attempts must be >= 0")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")
)

// Validate checks Options for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(opts *Options) []error {
	if opts == nil {
		return []error{errors.New("options is nil")}
	}

	var errs []error

	if opts.RegistryURL != "" {
		u, err := url.Parse(opts.RegistryURL)
		if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, &FieldError{
				Field: "registry_url",
				Value: opts.RegistryURL,
				Err:   ErrInvalidRegistryURL,
			})
		}
	}

	if opts.RetryAttempts < 0 {
		errs = append(errs, &FieldError{
			Field: "retry_attempts",
			Err:   ErrNegativeRetries,
		})
	}

	for field, p := range map[string]string{
		"project_path":  opts.ProjectPath,
		"config_path":   opts.ConfigPath,
		"roomodes_path": opts.RoomodesPath,
		"backup_dir":    opts.BackupDir,
	} {
		if p == "" {
			continue
		}
		if err := validatePath(p); err != nil {
			errs = append(errs, &FieldError{
				Field: field,
				Value: p,
				Err:   err,
			})
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" {
		return ErrInvalidPath
	}

	return nil
}

// FieldError represents a validation error for a specific option field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return e.Field + ": " + e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
