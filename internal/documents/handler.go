package documents

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/clauseflow/clauseflow/internal/clauses"
	"github.com/clauseflow/clauseflow/internal/export"
	"github.com/clauseflow/clauseflow/internal/lineitems"
	"github.com/clauseflow/clauseflow/internal/sections"
	"github.com/clauseflow/clauseflow/internal/textindex"
	"github.com/clauseflow/clauseflow/pkg/handlers"
	"github.com/clauseflow/clauseflow/pkg/pagination"
	"github.com/clauseflow/clauseflow/pkg/routes"
)

// Handler provides HTTP endpoints for document operations, including the
// aggregate detail view, pipeline launch, and the gated export surface.
type Handler struct {
	sys           System
	sections      sections.System
	items         lineitems.System
	clauses       clauses.System
	processor     Processor
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// NewHandler creates a Handler wired to its collaborating systems.
func NewHandler(
	sys System,
	secs sections.System,
	items lineitems.System,
	cls clauses.System,
	processor Processor,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		sections:      secs,
		items:         items,
		clauses:       cls,
		processor:     processor,
		logger:        logger.With("handler", "documents"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for document endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/documents",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Upload},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/stats", Handler: h.Stats},
			{Method: "GET", Pattern: "/{id}/warnings", Handler: h.Warnings},
			{Method: "GET", Pattern: "/{id}/download", Handler: h.Download},
			{Method: "GET", Pattern: "/{id}/clauses", Handler: h.Clauses},
			{Method: "GET", Pattern: "/{id}/export", Handler: h.Export},
			{Method: "POST", Pattern: "/{id}/process", Handler: h.Process},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns a paginated list of documents with optional query parameter filters.
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

// Upload ingests a multipart file upload: extracts text, indexes lines,
// stores the blob and row, and launches the pipeline. Responds 202; the
// caller polls document status for progress.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	contentType := DetectContentType(header.Header.Get("Content-Type"), data)

	text, err := ExtractText(data, contentType)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	idx, err := textindex.Index(text)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrEmptyText, err))
		return
	}

	cmd := CreateCommand{
		Data:            data,
		Filename:        header.Filename,
		ContentType:     contentType,
		RawText:         text,
		TotalLines:      idx.TotalLines,
		PageCount:       PDFPageCount(h.logger, data, contentType),
		Customer:        r.FormValue("customer"),
		PONumber:        r.FormValue("po_number"),
		PrimeContractID: r.FormValue("prime_contract_id"),
	}

	doc, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if err := h.processor.Launch(r.Context(), doc.ID); err != nil {
		// The document row and blob are already stored; the caller can
		// retry via POST /documents/{id}/process.
		handlers.RespondError(w, h.logger, MapHTTPStatus(err),
			fmt.Errorf("document %s stored but pipeline launch failed: %w", doc.ID, err))
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, doc)
}

// Find returns the full aggregate for a document: sections, line items,
// clauses, review session, and warnings.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	doc, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	detail := Detail{Document: doc}

	if detail.Sections, err = h.sections.ListByDocument(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	if detail.LineItems, err = h.items.ListByDocument(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	if detail.Clauses, err = h.clauses.ListByDocument(r.Context(), id, clauses.Filters{}); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	if detail.Warnings, err = h.sys.ListWarnings(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	session, err := h.clauses.Session(r.Context(), id)
	if err == nil {
		detail.Session = session
	} else if !errors.Is(err, clauses.ErrNotFound) {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, detail)
}

// Stats returns clause counts for a document along each categorical axis.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if _, err := h.sys.Find(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	stats, err := h.clauses.Stats(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}

// Warnings returns the persisted input-quality warnings for a document.
func (h *Handler) Warnings(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	warnings, err := h.sys.ListWarnings(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, warnings)
}

// Download streams the originally uploaded file.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	doc, result, err := h.sys.Download(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer result.Body.Close()

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	if result.ContentLength > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", result.ContentLength))
	}

	if _, err := io.Copy(w, result.Body); err != nil {
		h.logger.Warn("download stream interrupted", "id", id, "error", err)
	}
}

// Clauses returns a document's clauses with optional query parameter filters.
func (h *Handler) Clauses(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if _, err := h.sys.Find(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	items, err := h.clauses.ListByDocument(r.Context(), id, clauses.FiltersFromQuery(r.URL.Query()))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// Export renders the clause set in the requested format. Export is gated:
// while unaddressed clauses remain and override is absent, the response is a
// precondition failure carrying the outstanding counts.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	doc, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	override := r.URL.Query().Get("override") == "true"

	gate, err := h.clauses.Gate(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	if !gate.Open() && !override {
		handlers.RespondPrecondition(w, h.logger,
			fmt.Errorf("%w: %d clause(s) unaddressed", ErrExportBlocked, gate.Unaddressed),
			map[string]any{
				"unaddressed": gate.Unaddressed,
				"unreviewed":  gate.Unreviewed,
				"unscoped":    gate.Unscoped,
			},
		)
		return
	}

	cls, err := h.clauses.ListByDocument(r.Context(), id, clauses.Filters{})
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	meta := export.Meta{
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		PONumber:   doc.PONumber,
		Customer:   doc.Customer,
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		items, err := h.items.ListByDocument(r.Context(), id)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
			return
		}
		handlers.RespondJSON(w, http.StatusOK, export.BuildStructured(meta, cls, items))

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename+".csv"))
		if err := export.WriteCSV(w, meta, cls); err != nil {
			h.logger.Warn("csv export interrupted", "id", id, "error", err)
		}

	default:
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("unknown export format %q", format))
	}
}

// Process launches a pipeline run for the document. Responds 409 while
// another run holds the lease.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.processor.Launch(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	doc, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, doc)
}

// Delete removes a document, its derived record set, and the stored blob.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}
