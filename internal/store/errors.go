package store

import "errors"

var (
	// ErrEmailExists is returned when a user with the same email already exists
	ErrEmailExists = errors.New("email already registered")

	// ErrUserNotFound is returned when no user matches the lookup
	ErrUserNotFound = errors.New("user not found")

	// ErrTaskNotFound is returned when no task matches the lookup
	ErrTaskNotFound = errors.New("task not found")
)
