package services

import "errors"

var (
	// ErrValidation flags a request rejected before touching storage. The
	// wrapped message is safe to show to the caller.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateUser is returned when the username or email is taken.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	// Callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
