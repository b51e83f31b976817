package documents

import (
	"errors"
	"net/http"
)

// Domain errors for document operations.
var (
	ErrNotFound        = errors.New("document not found")
	ErrDuplicate       = errors.New("document already exists")
	ErrInvalidFile     = errors.New("invalid or missing file")
	ErrFileTooLarge    = errors.New("file exceeds upload size limit")
	ErrUnsupportedType = errors.New("unsupported content type")
	ErrEmptyText       = errors.New("no text could be extracted from file")
	ErrProcessing      = errors.New("document is already being processed")
	ErrExportBlocked   = errors.New("document has unaddressed clauses")
)

// MapHTTPStatus maps document domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrProcessing):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrInvalidFile), errors.Is(err, ErrEmptyText):
		return http.StatusBadRequest
	case errors.Is(err, ErrExportBlocked):
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}
