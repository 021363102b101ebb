package storage

import "errors"

var (
	// ErrNotFound is returned when the addressed record does not exist,
	// including a second delete of the same id.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint (username, email)
	// would be violated.
	ErrDuplicate = errors.New("record already exists")
)
