package cli

import "fmt"

// Exit codes for the autorelease CLI.
// These codes support programmatic composition and CI/CD integration.
const (
	// ExitSuccess indicates success, including "nothing to release"
	ExitSuccess = 0

	// ExitFailure indicates an unclassified runtime failure
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitConfigInvalid indicates the configuration could not be loaded
	ExitConfigInvalid = 4

	// ExitTimeout indicates the history walk exceeded history.timeout
	ExitTimeout = 5

	// ExitHistoryFailed indicates tags or commits could not be read
	ExitHistoryFailed = 6

	// ExitWriteFailed indicates the changelog could not be written
	ExitWriteFailed = 7

	// ExitTagFailed indicates the release tag could not be created
	// (only with tag.fail_on_error)
	ExitTagFailed = 8
)

// ExitError carries a process exit code up to Execute. The error has
// already been reported when Err is nil.
type ExitError struct {
	Code int
	Err  error
}

// NewExitError returns an ExitError for an already reported failure.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// WithExitCode attaches an exit code to err.
func WithExitCode(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
