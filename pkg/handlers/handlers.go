// Package handlers provides shared JSON response helpers for HTTP handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the uniform error payload returned by all handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PreconditionResponse reports an unmet precondition with enough detail for
// the caller to react. Detail carries operation-specific counts and
// identifiers rather than a bare denial.
type PreconditionResponse struct {
	Error  string         `json:"error"`
	Detail map[string]any `json:"detail,omitempty"`
}

// RespondJSON writes v as a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// RespondError logs the error and writes it as a JSON error response.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request rejected", "status", status, "error", err)
	}
	RespondJSON(w, status, ErrorResponse{Error: err.Error()})
}

// RespondPrecondition writes a precondition failure with structured detail.
func RespondPrecondition(w http.ResponseWriter, logger *slog.Logger, err error, detail map[string]any) {
	logger.Warn("precondition unmet", "error", err, "detail", detail)
	RespondJSON(w, http.StatusPreconditionFailed, PreconditionResponse{
		Error:  err.Error(),
		Detail: detail,
	})
}
