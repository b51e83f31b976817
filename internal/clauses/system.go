package clauses

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for clause domain operations.
type System interface {
	Handler() *Handler

	Find(ctx context.Context, id uuid.UUID) (*Clause, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID, filters Filters) ([]Clause, error)

	// InsertBatch persists an assembled clause batch and initializes the
	// document's review session in one transaction. Partial batches are
	// never visible.
	InsertBatch(ctx context.Context, documentID uuid.UUID, batch []Clause) error

	// DeleteByDocument removes a document's clauses and review session,
	// ahead of reprocessing.
	DeleteByDocument(ctx context.Context, documentID uuid.UUID) error

	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Clause, error)
	MarkReviewed(ctx context.Context, id uuid.UUID) (*Clause, error)
	Flag(ctx context.Context, id uuid.UUID) (*Clause, error)

	Session(ctx context.Context, documentID uuid.UUID) (*ReviewSession, error)
	Stats(ctx context.Context, documentID uuid.UUID) (*Stats, error)
	Gate(ctx context.Context, documentID uuid.UUID) (*GateStatus, error)
}

// Stats aggregates clause counts for a document along each categorical axis.
type Stats struct {
	DocumentID  uuid.UUID      `json:"document_id"`
	Total       int            `json:"total"`
	ByChunkType map[string]int `json:"by_chunk_type"`
	ByScope     map[string]int `json:"by_scope"`
	ByMatch     map[string]int `json:"by_match"`
	ByReview    map[string]int `json:"by_review"`
}

// GateStatus reports the export gate for a document. A clause is unaddressed
// when it is unreviewed, or when it is a clause-type chunk whose scope is
// still unset.
type GateStatus struct {
	Unaddressed int `json:"unaddressed"`
	Unreviewed  int `json:"unreviewed"`
	Unscoped    int `json:"unscoped"`
}

// Open reports whether export may proceed without an override.
func (g GateStatus) Open() bool {
	return g.Unaddressed == 0
}
