package reviews

import (
	"errors"
	"net/http"
)

// Domain errors for review operations.
var (
	ErrNotFound          = errors.New("review not found")
	ErrDuplicate         = errors.New("review already exists")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNoDocument        = errors.New("review has no document to process")
	ErrNotCompleted      = errors.New("review has not completed processing")
	ErrFileTooLarge      = errors.New("file exceeds maximum upload size")
	ErrInvalidFile       = errors.New("invalid file")
	ErrInvalidContext    = errors.New("invalid review context")
)

// MapHTTPStatus maps review domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrNoDocument) || errors.Is(err, ErrNotCompleted) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrInvalidFile) || errors.Is(err, ErrInvalidContext) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
