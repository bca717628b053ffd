package sandbox

import (
	"errors"
	"fmt"
)

// ErrUnexpectedShape means the API answered but the JSON did not carry the
// field hrs consumes.
var ErrUnexpectedShape = errors.New("unexpected response shape")

// Error is the single failure kind of the sandbox client: the remote call
// failed, whether in transport, status or response shape.
type Error struct {
	Endpoint Endpoint
	// Status is the HTTP status when a response was received, else 0.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 && e.Err == nil {
		return fmt.Sprintf("sandbox %s: status %d", e.Endpoint, e.Status)
	}
	if e.Status != 0 {
		return fmt.Sprintf("sandbox %s: status %d: %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("sandbox %s: %v", e.Endpoint, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
