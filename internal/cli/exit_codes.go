package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/relnotes/internal/errors"
)

// Exit codes for the relnotes CLI.
// These codes support programmatic composition and CI/CD integration.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a generic failure
	ExitFailure = 1

	// ExitNotGitRepository indicates the target directory is not inside a git repository
	ExitNotGitRepository = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3
)

// ExitError carries an exit code, optionally alongside the error that caused it.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError returns an error that makes the process exit with code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// withExitCode attaches code to err.
func withExitCode(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// ExitCode returns the process exit code for err.
// Argument errors map to ExitInvalidArguments; anything unrecognized is ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil && cliErr.Category == clierrors.Argument {
		return ExitInvalidArguments
	}
	return ExitFailure
}
