package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when trying to create a user with an existing email
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrDuplicateUsername is returned when trying to create a user with an existing username
	ErrDuplicateUsername = errors.New("user with this username already exists")

	// ErrDuplicateToken is returned when trying to create a token with an existing identifier
	ErrDuplicateToken = errors.New("token with this identifier already exists")
)
