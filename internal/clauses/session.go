package clauses

import (
	"time"

	"github.com/google/uuid"
)

// ReviewSession is the per-document review aggregate. It is derived from
// clause state and recomputed in the same transaction as any review
// transition, so the counters never disagree with the clause rows.
type ReviewSession struct {
	DocumentID      uuid.UUID `json:"document_id"`
	ReviewedCount   int       `json:"reviewed_count"`
	FlaggedCount    int       `json:"flagged_count"`
	UnreviewedCount int       `json:"unreviewed_count"`
	LastActivity    time.Time `json:"last_activity"`
}
