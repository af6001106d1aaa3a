package errors

import (
	"fmt"
)

// MissingFieldError represents a missing required field.
type MissingFieldError struct {
	Field string
}

func (err MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", err.Field)
}

// FileNotFound represents when we were unable to access a file
// because the path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}

// ConfigurationError represents deploy configuration that is invalid or
// references local paths that don't exist. No remote action has been taken
// when it is raised.
type ConfigurationError struct {
	Reason string
}

func (err ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", err.Reason)
}

// PatternError represents a file classification pattern that failed to
// compile. Patterns are validated once at settings load time, never per file.
type PatternError struct {
	Pattern string
	Err     error
}

func (err PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %s", err.Pattern, err.Err)
}

func (err PatternError) Unwrap() error {
	return err.Err
}

// StorageError represents a failed object storage operation. Archive uploads
// recover from it exactly once by falling back to a direct payload upload.
type StorageError struct {
	Op  string
	Err error
}

func (err StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %s", err.Op, err.Err)
}

func (err StorageError) Unwrap() error {
	return err.Err
}

// RemoteError represents a failed function management call. It is fatal for
// the archive being deployed; the run never retries past it.
type RemoteError struct {
	Op  string
	Err error
}

func (err RemoteError) Error() string {
	return fmt.Sprintf("remote: %s: %s", err.Op, err.Err)
}

func (err RemoteError) Unwrap() error {
	return err.Err
}
