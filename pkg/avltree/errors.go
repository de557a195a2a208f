package avltree

import "errors"

var (
	// ErrEmptyKey indicates Insert was called with an empty key.
	ErrEmptyKey = errors.New("avltree: key must not be empty")

	// ErrClosed indicates an operation was attempted on a closed or nil
	// handle.
	ErrClosed = errors.New("avltree: handle closed")
)
