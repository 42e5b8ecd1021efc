package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this email or username already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrTokenNotFound indicates that verification token is unknown, expired or already used
	ErrTokenNotFound = errors.New("verification token not found")

	// ErrEventNotFound indicates that event was not found
	ErrEventNotFound = errors.New("event not found")

	// ErrGuestNotFound indicates that guest was not found
	ErrGuestNotFound = errors.New("guest not found")
)
