package clauses

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/clauseflow/clauseflow/pkg/handlers"
	"github.com/clauseflow/clauseflow/pkg/routes"
)

// Handler provides HTTP endpoints for clause operations. Document-scoped
// clause listing is mounted by the documents handler.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "clauses"),
	}
}

// Routes returns the route group definition for clause endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/clauses",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "PATCH", Pattern: "/{id}", Handler: h.Update},
			{Method: "POST", Pattern: "/{id}/mark-reviewed", Handler: h.MarkReviewed},
			{Method: "POST", Pattern: "/{id}/flag", Handler: h.Flag},
		},
	}
}

// Find returns a single clause by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	c, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// Update applies a partial clause edit from an UpdateCommand JSON body.
// Scope writes are validated against the configured taxonomy and never
// touch match fields.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	var cmd UpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	c, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// MarkReviewed transitions a clause to reviewed and updates the document's
// session counters atomically.
func (h *Handler) MarkReviewed(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.sys.MarkReviewed)
}

// Flag transitions a clause to flagged and updates the document's session
// counters atomically.
func (h *Handler) Flag(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.sys.Flag)
}

func (h *Handler) review(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id uuid.UUID) (*Clause, error),
) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	c, err := op(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}
