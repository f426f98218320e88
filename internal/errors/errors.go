// Package errors contains helper functions for wrapping errors with stack traces, aggregating them, and
// attaching process exit codes.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/go-errors/errors"
)

// New creates a new error from the given value and wraps it in an Error type that contains the stack trace.
// If the given value is an error that already carries a stack trace, it is returned unchanged.
// If the given value is nil, returns nil.
func New(val any) error {
	if val == nil {
		return nil
	}

	switch v := val.(type) {
	case error:
		if ContainsStackTrace(v) {
			return v
		}

		return goerrors.Wrap(v, 1)
	case string:
		return goerrors.Wrap(errors.New(v), 1) //nolint:err113
	default:
		return goerrors.Wrap(fmt.Errorf("%v", v), 1) //nolint:err113
	}
}

// Errorf creates a new error and wraps in an Error type that contains the stack trace.
func Errorf(format string, args ...any) error {
	return goerrors.Wrap(fmt.Errorf(format, args...), 1) //nolint:err113
}

// WithStackTraceAndPrefix wraps the given error in an Error type that contains the stack trace and has the given
// message prepended as part of the error message. If the given error is nil, returns nil.
func WithStackTraceAndPrefix(err error, message string, args ...any) error {
	if err == nil {
		return nil
	}

	return goerrors.WrapPrefix(err, fmt.Sprintf(message, args...), 1)
}

// ErrorWithExitCode is a custom error that is used to specify the app exit code.
type ErrorWithExitCode struct {
	Err      error
	ExitCode int
}

// NewErrorWithExitCode wraps err so that the process exits with the given code. If err is nil, returns nil.
func NewErrorWithExitCode(err error, exitCode int) error {
	if err == nil {
		return nil
	}

	return &ErrorWithExitCode{Err: err, ExitCode: exitCode}
}

func (err *ErrorWithExitCode) Error() string {
	return err.Err.Error()
}

func (err *ErrorWithExitCode) Unwrap() error {
	return err.Err
}

// ExitCode returns the exit code carried by the first ErrorWithExitCode in the error tree, 0 for a nil error,
// and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var withCode *ErrorWithExitCode
	if As(err, &withCode) {
		return withCode.ExitCode
	}

	return 1
}

// ErrorStack returns the stack traces of all errors in the tree, if available.
func ErrorStack(err error) string {
	var stacks []string

	for _, err := range UnwrapMultiErrors(err) {
		for err != nil {
			if err, ok := err.(interface{ ErrorStack() string }); ok {
				stacks = append(stacks, err.ErrorStack())
			}

			err = errors.Unwrap(err)
		}
	}

	return strings.Join(stacks, "\n")
}

// ContainsStackTrace returns true if the given error contains a stack trace.
// Useful to avoid creating a nested stack trace.
func ContainsStackTrace(err error) bool {
	for _, err := range UnwrapMultiErrors(err) {
		for err != nil {
			if _, ok := err.(interface{ ErrorStack() string }); ok {
				return true
			}

			err = errors.Unwrap(err)
		}
	}

	return false
}

// IsContextCanceled returns `true` if error has occurred by event `context.Canceled` which is not really an error.
func IsContextCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// Recover tries to recover from panics, and if it succeeds, calls the given onPanic function with an error that
// explains the cause of the panic. This function should only be called from a defer statement.
func Recover(onPanic func(cause error)) {
	if rec := recover(); rec != nil {
		err, isError := rec.(error)
		if !isError {
			err = fmt.Errorf("%v", rec) //nolint:err113
		}

		onPanic(New(err))
	}
}

// UnwrapMultiErrors unwraps all nested multierrors into error slice.
func UnwrapMultiErrors(err error) []error {
	if err == nil {
		return nil
	}

	var (
		errs  []error
		queue = []error{err}
	)

	for len(queue) > 0 {
		err := queue[0]
		queue = queue[1:]

		if multi, ok := err.(interface{ Unwrap() []error }); ok {
			queue = append(queue, multi.Unwrap()...)
			continue
		}

		errs = append(errs, err)
	}

	return errs
}
