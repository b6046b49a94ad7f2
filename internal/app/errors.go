package app

import (
	"errors"
	"fmt"
)

// ErrAlreadyRunning is returned when Run is called on a running
// application.
var ErrAlreadyRunning = errors.New("application already running")

// InitError reports a failure while bringing up one of the host's
// components.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initializing %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
