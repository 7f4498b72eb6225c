package task

import "errors"

// Domain errors for the task package.
//
//	if errors.Is(err, task.ErrTaskNotFound) {
//	    // 404
//	}
var (
	// ErrTaskNotFound is returned when no live task has the requested ID.
	ErrTaskNotFound = errors.New("task: not found")

	// ErrDuplicateID is returned when seeding a task whose ID is already live.
	ErrDuplicateID = errors.New("task: duplicate id")

	// ErrInvalidID is returned when seeding a task with an empty ID.
	ErrInvalidID = errors.New("task: invalid id")
)
