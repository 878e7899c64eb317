package services

import "errors"

var (
	// ErrNotFound is returned when a job, gateway or configuration cannot be located
	ErrNotFound = errors.New("not found")

	// ErrFolderNotFound is returned when the folder that should receive a new record cannot be located
	ErrFolderNotFound = errors.New("folder not found")

	// ErrValidation is returned when a request is rejected before any work is done
	ErrValidation = errors.New("validation failed")

	// ErrRotationFailed is returned with the uid of a stored record whose rotation registration failed
	ErrRotationFailed = errors.New("rotation registration failed")
)
