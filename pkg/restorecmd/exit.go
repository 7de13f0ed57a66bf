package restorecmd

import (
	"errors"
	"fmt"
)

// Exit codes for mmcif_restore.
const (
	ExitSuccess      = 0 // output written, every category dealt with
	ExitFailure      = 1 // could not read, restore or write, or a category failed
	ExitCommandError = 2 // bad arguments, config or categories
)

// ExitError is an error with the code the program should exit with.
type ExitError struct {
	Code    int
	Message string
	Err     error // optional
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Errors which are
// not ExitErrors come from cobra's own argument and flag checks.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}
