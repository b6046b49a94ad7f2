package backend

import (
	"errors"
	"fmt"
)

// ErrBackendNotFound indicates the backend executable could not be located
// through any resolution path.
var ErrBackendNotFound = errors.New("backend executable not found")

// SpawnError reports a failed attempt to launch the backend process. It is
// fatal for that start attempt but never for the host: callers log it and
// continue with no backend running.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("spawn %s", e.Command)
	}
	return fmt.Sprintf("spawn %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}
