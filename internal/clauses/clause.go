// Package clauses implements the clause domain: assembly of validated
// references into persisted clauses, scope classification, review state
// transitions, and per-document review session aggregates.
package clauses

import (
	"time"

	"github.com/google/uuid"

	"github.com/clauseflow/clauseflow/internal/library"
)

// ChunkType is the structural category of an extracted text span.
type ChunkType string

const (
	ChunkClause         ChunkType = "clause"
	ChunkAdministrative ChunkType = "administrative"
	ChunkBoilerplate    ChunkType = "boilerplate"
	ChunkSignature      ChunkType = "signature"
	ChunkHeader         ChunkType = "header"
)

// ParseChunkType validates a chunk type label against the closed set.
func ParseChunkType(s string) (ChunkType, bool) {
	switch ChunkType(s) {
	case ChunkClause, ChunkAdministrative, ChunkBoilerplate, ChunkSignature, ChunkHeader:
		return ChunkType(s), true
	}
	return "", false
}

// ScopeType describes whether a clause applies to the whole order or to
// specific line items. ScopeUnset means no assignment has been made or
// confirmed yet; additional labels may be admitted by configuration.
type ScopeType string

const (
	ScopePOWide       ScopeType = "po_wide"
	ScopeLineSpecific ScopeType = "line_specific"
	ScopeUnset        ScopeType = "unset"
)

// ReviewStatus is the clause review state.
type ReviewStatus string

const (
	ReviewUnreviewed ReviewStatus = "unreviewed"
	ReviewReviewed   ReviewStatus = "reviewed"
	ReviewFlagged    ReviewStatus = "flagged"
)

// ParseReviewStatus validates a review status label against the closed set.
func ParseReviewStatus(s string) (ReviewStatus, bool) {
	switch ReviewStatus(s) {
	case ReviewUnreviewed, ReviewReviewed, ReviewFlagged:
		return ReviewStatus(s), true
	}
	return "", false
}

// Clause is the central entity of the pipeline. Text is owned exclusively by
// the assembler and sourced from the line index, never from collaborator
// output. Scope, match, and review fields are mutated incrementally by later
// stages and by user action.
type Clause struct {
	ID         uuid.UUID  `json:"id"`
	DocumentID uuid.UUID  `json:"document_id"`
	SectionID  *uuid.UUID `json:"section_id,omitempty"`

	ClauseCode  string `json:"clause_code,omitempty"`
	ClauseTitle string `json:"clause_title,omitempty"`
	Text        string `json:"text"`
	StartLine   int    `json:"start_line"`
	EndLine     int    `json:"end_line"`

	ChunkType       ChunkType `json:"chunk_type"`
	ScopeType       ScopeType `json:"scope_type"`
	ApplicableLines []int     `json:"applicable_lines"`
	SuggestedScope  ScopeType `json:"suggested_scope,omitempty"`
	SuggestedLines  []int     `json:"suggested_lines,omitempty"`

	IsExternalRef   bool   `json:"is_external_ref"`
	ExternalPointer string `json:"external_pointer,omitempty"`

	MatchStatus library.MatchStatus `json:"match_status"`
	MatchDetail string              `json:"match_detail,omitempty"`

	ReviewStatus ReviewStatus `json:"review_status"`
	Notes        string       `json:"notes,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
}

// Addressed reports whether the clause satisfies the export gate: it has been
// reviewed or flagged, and, when it is a clause-type chunk, its scope has
// been resolved.
func (c Clause) Addressed() bool {
	if c.ReviewStatus == ReviewUnreviewed {
		return false
	}
	if c.ChunkType == ChunkClause && c.ScopeType == ScopeUnset {
		return false
	}
	return true
}

// UpdateCommand carries a partial clause update. Nil fields are left
// untouched; the update is applied as a single atomic statement.
type UpdateCommand struct {
	ScopeType       *string `json:"scope_type,omitempty"`
	ApplicableLines *[]int  `json:"applicable_lines,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}
