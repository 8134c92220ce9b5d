package errors

import "fmt"

// CommandError represents a failure in a CLI command, carrying the exit
// code the process should terminate with.
type CommandError struct {
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	return e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError wraps err with an exit code for the command layer.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{ExitCode: code, Err: err}
}

// NewCommandErrorf formats a new CommandError.
func NewCommandErrorf(code int, format string, args ...interface{}) *CommandError {
	return &CommandError{ExitCode: code, Err: fmt.Errorf(format, args...)}
}
