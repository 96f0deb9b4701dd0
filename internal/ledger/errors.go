package ledger

import "errors"

var (
	// ErrNotFound is returned when an operation names an id that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned when input fails validation. Nothing is changed.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrKeyNotFound is returned by a Backend when nothing is stored under a key.
	ErrKeyNotFound = errors.New("key not found")
)
