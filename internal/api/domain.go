package api

import (
	"github.com/clauseflow/clauseflow/internal/clauses"
	"github.com/clauseflow/clauseflow/internal/documents"
	"github.com/clauseflow/clauseflow/internal/extractor"
	"github.com/clauseflow/clauseflow/internal/library"
	"github.com/clauseflow/clauseflow/internal/lineitems"
	"github.com/clauseflow/clauseflow/internal/pipeline"
	"github.com/clauseflow/clauseflow/internal/sections"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents documents.System
	Sections  sections.System
	LineItems lineitems.System
	Clauses   clauses.System
	Library   library.System
	Pipeline  *pipeline.Runtime
}

// NewDomain creates all domain systems from the API runtime. The pipeline
// runtime is registered for lifecycle shutdown so in-flight document runs
// drain before the process exits.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	docsSystem := documents.New(
		db,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	sectionsSystem := sections.New(db, runtime.Logger)
	lineItemsSystem := lineitems.New(db, runtime.Logger)
	clausesSystem := clauses.New(db, runtime.Logger, runtime.Review.ScopeTypes)

	librarySystem := library.New(
		db,
		runtime.Logger,
		runtime.Pagination,
	)

	pipelineRuntime := &pipeline.Runtime{
		Documents:   docsSystem,
		Sections:    sectionsSystem,
		LineItems:   lineItemsSystem,
		Clauses:     clausesSystem,
		Library:     librarySystem,
		Extractor:   extractor.New(runtime.Extractor, runtime.Logger),
		Logger:      runtime.Logger,
		MinGapLines: runtime.Review.MinGapLines,
	}

	runtime.Lifecycle.OnShutdown(func() {
		<-runtime.Lifecycle.Context().Done()
		pipelineRuntime.Wait()
	})

	return &Domain{
		Documents: docsSystem,
		Sections:  sectionsSystem,
		LineItems: lineItemsSystem,
		Clauses:   clausesSystem,
		Library:   librarySystem,
		Pipeline:  pipelineRuntime,
	}
}
