package service

import "errors"

// Service-level errors
var (
	// ErrInvalidCredentials is the uniform login failure; it never reveals
	// whether the email was unknown or the password wrong
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInactiveAccount is returned when the account exists but is disabled
	ErrInactiveAccount = errors.New("user account is inactive")

	// ErrUnknownRefreshToken is returned when a structurally valid refresh
	// token has no matching record
	ErrUnknownRefreshToken = errors.New("refresh token is not recognized")

	// ErrPasswordMismatch is returned when a password confirmation does not match
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrWrongOldPassword is returned when the current password check fails
	// during a password change
	ErrWrongOldPassword = errors.New("wrong password")

	// ErrWeakPassword is returned when a new password fails the strength rules
	ErrWeakPassword = errors.New("password must be at least 8 characters long and contain uppercase, lowercase, and number")

	// ErrInvalidEmail is returned when an email address fails validation
	ErrInvalidEmail = errors.New("invalid email address")
)
