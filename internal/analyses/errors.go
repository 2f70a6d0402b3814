package analyses

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a missing record and a record owned by someone
	// else; callers cannot distinguish the two.
	ErrNotFound = errors.New("analysis not found")

	// ErrStageInFlight rejects a duplicate concurrent submission of the same
	// stage for the same record.
	ErrStageInFlight = errors.New("stage already in flight")
)

// ValidationError reports a rejected request before any external call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StateError reports an operation attempted against a record in a state that
// does not permit it.
type StateError struct {
	Op     string
	Status string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s not allowed in state %s", e.Op, e.Status)
}

// PersistenceError wraps a failed record-store write, including the
// compensating revert on the Interpreting -> Completed path.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
