package coach

import (
	"errors"
	"fmt"
)

var (
	// ErrNoWeightEntry is returned by CompleteWeek when the current week has
	// no weight entry to average.
	ErrNoWeightEntry = errors.New("no weight entry this week")

	ErrNotInSetup    = errors.New("profile can only be changed during setup")
	ErrNotTracking   = errors.New("no cycle is being tracked")
	ErrEntryNotFound = errors.New("entry not found in the current week")

	// ErrStateNotFound is returned by a Store when the user has no saved state.
	ErrStateNotFound = errors.New("coach state not found")
)

// ValidationError reports input that blocked a transition. The state is left
// exactly as it was.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// PersistError wraps a Store failure that happened after a transition was
// already applied in memory. The transition is not rolled back.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
