package errors

import (
	goerrors "errors"
	"fmt"
)

// New returns an error with the given message.
func New(message string) error {
	return goerrors.New(message)
}

// ContextError annotates an error with what was being attempted when it
// occurred. The annotations compose as errors propagate up the call stack, so
// the final message reads as a trail from the user action to the root cause.
type ContextError struct {
	Context string
	Err     error
}

// WithContext annotates err with context.
func WithContext(err error, context string) error {
	return ContextError{Context: context, Err: err}
}

func (err ContextError) Error() string {
	return fmt.Sprintf("%s: %s", err.Context, err.Err)
}

func (err ContextError) Unwrap() error {
	return err.Err
}

// FriendlyError is an error whose message is written for end users. When a
// FriendlyError reaches the top of the CLI, only its message is printed --
// no context trail.
type FriendlyError struct {
	Message string
}

// NewFriendlyError creates a FriendlyError with a formatted message.
func NewFriendlyError(format string, args ...interface{}) error {
	return FriendlyError{Message: fmt.Sprintf(format, args...)}
}

func (err FriendlyError) Error() string {
	return err.Message
}

func (err FriendlyError) FriendlyMessage() string {
	return err.Message
}

type friendlier interface {
	FriendlyMessage() string
}

// GetPrintableMessage returns the representation of err that should be shown
// to users: the friendly message if any error in the chain provides one, and
// the full context trail otherwise.
func GetPrintableMessage(err error) string {
	for unwrapped := err; unwrapped != nil; unwrapped = goerrors.Unwrap(unwrapped) {
		if friendly, ok := unwrapped.(friendlier); ok {
			return friendly.FriendlyMessage()
		}
	}
	return err.Error()
}

// As is a re-export of the standard library's errors.As so that callers don't
// need to import both error packages.
func As(err error, target interface{}) bool {
	return goerrors.As(err, target)
}
