package core

import "errors"

// Common errors.
var (
	ErrUnavailable  = errors.New("storage medium is not available")
	ErrNotWatchable = errors.New("storage medium does not support watching")
	ErrEmptyKey     = errors.New("key cannot be empty")
	ErrReadOnly     = errors.New("storage medium is in read-only mode")
)
