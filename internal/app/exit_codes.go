package app

import (
	"errors"
	"strconv"

	"github.com/chriscorrea/campctl/internal/spintax"
)

// process exit codes
const (
	ExitOK              = 0
	ExitFailure         = 1
	ExitInvalidTemplate = 2
)

// ExitError carries an explicit exit code up to main
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit status " + strconv.Itoa(e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WithExitCode wraps err so ExitCode reports code
func WithExitCode(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error returned by a command to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if errors.Is(err, spintax.ErrInvalidTemplate) {
		return ExitInvalidTemplate
	}

	return ExitFailure
}
