package engine

import "fmt"

// ValidationError indicates malformed input. No engine state is mutated
// when a ValidationError is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NotFoundError indicates a reference to an unknown alert or incident ID
type NotFoundError struct {
	Kind string // "alert" or "incident"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// StateConflictError indicates a status transition that is invalid for the
// alert's current status (e.g. resolving an already-dismissed alert).
// Reported per item in bulk operations, never fatal.
type StateConflictError struct {
	ID      string
	Current Status
	Action  Action
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("cannot %s alert %s in status %s", e.Action, e.ID, e.Current)
}
