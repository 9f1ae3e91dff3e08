package release

import (
	"errors"
	"fmt"
)

// ErrNothingToRelease is returned when no commits exist since the last tag.
var ErrNothingToRelease = errors.New("no commits since the last release")

// Stage names the pipeline step an error came from.
type Stage string

const (
	StageHistory Stage = "history"
	StageWrite   Stage = "write"
)

// StageError wraps a fatal pipeline failure with the step that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf returns the stage of a pipeline error, or "" for other errors.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
