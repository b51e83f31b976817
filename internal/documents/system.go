package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/clauseflow/clauseflow/internal/extraction"
	"github.com/clauseflow/clauseflow/pkg/pagination"
	"github.com/clauseflow/clauseflow/pkg/storage"
)

// System defines the public contract for document domain operations.
type System interface {
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error)
	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Download(ctx context.Context, id uuid.UUID) (*Document, *storage.DownloadResult, error)

	// AcquireLease claims single-writer ownership of a document's pipeline.
	// It fails with ErrProcessing when another run holds the lease.
	AcquireLease(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	ReleaseLease(ctx context.Context, id uuid.UUID, token uuid.UUID) error

	// SetStatus advances the processing state machine. The token must match
	// the held lease.
	SetStatus(ctx context.Context, id uuid.UUID, status Status, token uuid.UUID) error

	// SetError transitions the document to error with a retained message and
	// releases the lease.
	SetError(ctx context.Context, id uuid.UUID, message string, token uuid.UUID) error

	SaveWarnings(ctx context.Context, id uuid.UUID, warnings []extraction.Warning) error
	ClearWarnings(ctx context.Context, id uuid.UUID) error
	ListWarnings(ctx context.Context, id uuid.UUID) ([]Warning, error)
}

// Processor launches a pipeline run for a document. Implemented by the
// pipeline runtime; the handler depends on this interface so the document
// package stays free of pipeline internals.
type Processor interface {
	// Launch acquires the document's lease synchronously, then runs the
	// pipeline in the background. ErrProcessing when the lease is held.
	Launch(ctx context.Context, id uuid.UUID) error
}
