package api

import (
	"net/http"

	"github.com/clauseflow/clauseflow/internal/config"
	"github.com/clauseflow/clauseflow/internal/documents"
	"github.com/clauseflow/clauseflow/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	documentsHandler := documents.NewHandler(
		domain.Documents,
		domain.Sections,
		domain.LineItems,
		domain.Clauses,
		domain.Pipeline,
		runtime.Logger,
		runtime.Pagination,
		cfg.API.MaxUploadSizeBytes(),
	)

	routes.Register(
		mux,
		documentsHandler.Routes(),
		domain.Clauses.Handler().Routes(),
		domain.Library.Handler().Routes(),
	)
}
