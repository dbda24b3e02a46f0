// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned when email or password is incorrect.
	// The same error covers both cases so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrPasswordMismatch is returned when the current password presented
	// for a password change does not match the stored hash.
	ErrPasswordMismatch = errors.New("current password is incorrect")

	// ErrResetTokenInvalid covers unknown, consumed and expired reset
	// tokens; they are indistinguishable to the caller.
	ErrResetTokenInvalid = errors.New("reset token is invalid or has expired")
)
