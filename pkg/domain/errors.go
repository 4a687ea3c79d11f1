package domain

import (
	"errors"
	"fmt"
)

// ErrValidation matches any *ValidationError via errors.Is.
var ErrValidation = errors.New("invalid input")

// ErrRemote matches any *RemoteFailure via errors.Is.
var ErrRemote = errors.New("remote formalization failed")

// ErrSessionRequired is returned when a history operation is attempted without a session ID.
var ErrSessionRequired = errors.New("session id is required")

// ErrEntryNotFound is returned when a history entry cannot be found in the store.
var ErrEntryNotFound = errors.New("history entry not found")

// ValidationError is a user-input defect. It is terminal: no remote call and no fallback follow it.
type ValidationError struct {
	Reason ValidationReason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
}

// Is allows errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// RemoteFailure is an infrastructure defect. It is always absorbed by the fallback path.
type RemoteFailure struct {
	Reason FailureReason
	Err    error
}

func (e *RemoteFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", ErrRemote, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s (%s)", ErrRemote, e.Reason)
}

// Is allows errors.Is(err, ErrRemote).
func (e *RemoteFailure) Is(target error) bool {
	return target == ErrRemote
}

func (e *RemoteFailure) Unwrap() error {
	return e.Err
}
