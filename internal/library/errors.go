package library

import (
	"errors"
	"net/http"
)

// Domain errors for reference library operations.
var (
	ErrNotFound    = errors.New("library entry not found")
	ErrDuplicate   = errors.New("library entry already exists")
	ErrEmptyImport = errors.New("import contains no entries")
	ErrInvalidCode = errors.New("library entry requires a clause code")
	ErrInvalidText = errors.New("library entry requires clause text")
)

// MapHTTPStatus maps library domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrEmptyImport) || errors.Is(err, ErrInvalidCode) || errors.Is(err, ErrInvalidText) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
