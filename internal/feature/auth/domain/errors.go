// Package domain defines domain-level errors for the auth feature.
package domain

import "messagely/internal/shared/apperr"

// Domain errors for authentication operations.
// These errors represent business logic failures and should be handled appropriately by upper layers.
var (
	// ErrUsernameTaken indicates that a user with the given username already exists.
	// This is returned during registration when attempting to create a duplicate user.
	ErrUsernameTaken = apperr.New(apperr.Conflict, "username already taken")

	// ErrUserNotFound indicates that no user was found with the given username.
	ErrUserNotFound = apperr.New(apperr.NotFound, "user not found")

	// ErrInvalidCredentials indicates that the provided credentials are incorrect.
	// Unknown usernames and wrong passwords both produce this error.
	ErrInvalidCredentials = apperr.New(apperr.Unauthenticated, "invalid username or password")
)

// Input validation errors raised before any persistence call.
var (
	// ErrInvalidUsername indicates an empty or over-long username.
	ErrInvalidUsername = apperr.New(apperr.Validation, "username must be 1 to 64 characters")

	// ErrInvalidPassword indicates an empty password or one bcrypt cannot hash.
	ErrInvalidPassword = apperr.New(apperr.Validation, "password must be 1 to 72 bytes")
)
