package storage

import "errors"

// Sentinel errors for storage operations.
var (
	ErrNotFound   = errors.New("blob not found")
	ErrEmptyKey   = errors.New("blob key cannot be empty")
	ErrInvalidKey = errors.New("blob key cannot contain path traversal")
)
