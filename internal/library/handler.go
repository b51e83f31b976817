package library

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/clauseflow/clauseflow/pkg/handlers"
	"github.com/clauseflow/clauseflow/pkg/pagination"
	"github.com/clauseflow/clauseflow/pkg/routes"
)

// Handler provides HTTP endpoints for reference library operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "library"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for library endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/library",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{code}", Handler: h.Find},
			{Method: "PUT", Pattern: "", Handler: h.Import},
		},
	}
}

// List returns a paginated list of cached library entries with optional
// query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single library entry by its clause code path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	entry, err := h.sys.Find(r.Context(), r.PathValue("code"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entry)
}

// Import refreshes the cache from a bulk entry payload. Existing codes are
// updated in place; new codes are created.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var cmd ImportCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Import(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
