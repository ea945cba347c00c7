package tree

import "errors"

var (
	// ErrNotFound is returned by New when the root does not exist.
	ErrNotFound = errors.New("root not found")

	// ErrNotADirectory is returned by New when the root is not a directory.
	ErrNotADirectory = errors.New("root is not a directory")
)
