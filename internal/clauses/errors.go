package clauses

import (
	"errors"
	"net/http"
)

// Domain errors for clause operations.
var (
	ErrNotFound          = errors.New("clause not found")
	ErrDuplicate         = errors.New("clause already exists")
	ErrInvalidScope      = errors.New("scope type not in configured taxonomy")
	ErrInvalidTransition = errors.New("invalid review transition")
	ErrLinesWithoutScope = errors.New("applicable lines require line_specific scope")
	ErrEmptyBatch        = errors.New("clause batch is empty")
)

// MapHTTPStatus maps clause domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidTransition) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidScope) || errors.Is(err, ErrLinesWithoutScope) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
