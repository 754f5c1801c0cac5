package ledger

import "errors"

var (
	// ErrTaskExists is returned by CreateTask when the task id is already taken.
	ErrTaskExists = errors.New("task id already exists")
	// ErrTaskNotFound is returned by UpdateTask when no task has the given id.
	ErrTaskNotFound = errors.New("task not found")
	// ErrNoFiles is returned by CreateTask when the file list is empty.
	ErrNoFiles = errors.New("task requires at least one file")
	// ErrEmptyTaskID is returned by CreateTask when the task id is blank.
	ErrEmptyTaskID = errors.New("task id must not be empty")
	// ErrInvalidUpdate is returned by UpdateTask when the proposed state would
	// break the pending/completed partition invariant.
	ErrInvalidUpdate = errors.New("update violates task invariants")
)
