package usecase

import "errors"

// Sentinel errors returned by the auth usecase and expected from its repositories.
var (
	// ErrEmailAlreadyExists indicates that a user with the given email already exists.
	// Returned during signup when attempting to create a duplicate user.
	ErrEmailAlreadyExists = errors.New("user with this email already exists")

	// ErrUserNotFound indicates that no user was found with the given criteria.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials indicates that the provided email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
