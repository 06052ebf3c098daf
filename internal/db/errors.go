package db

import "fmt"

// PersistenceError is returned when any insert of a submission fails. The
// whole submission has been rolled back.
type PersistenceError struct {
	Table string
	Cause error
}

func (e *PersistenceError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("failed to save submission: %v", e.Cause)
	}
	return fmt.Sprintf("failed to save submission: insert into %s: %v", e.Table, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}
