// Package library implements the reference clause library domain: a
// read-mostly cache of the external ERP clause catalog, plus the matcher that
// verifies extracted clauses against it.
package library

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a cached reference library clause. Revision, EffectiveDate, and
// SourceDocument are optional; empty string means the external system carries
// no value. The external system owns entries; ClauseFlow only reads and
// refreshes this cache.
type Entry struct {
	ID             uuid.UUID `json:"id"`
	Code           string    `json:"code"`
	Text           string    `json:"text"`
	Revision       string    `json:"revision,omitempty"`
	EffectiveDate  string    `json:"effective_date,omitempty"`
	SourceDocument string    `json:"source_document,omitempty"`
	CachedAt       time.Time `json:"cached_at"`
}

// ImportCommand carries entries for a bulk cache refresh from the external
// system of record.
type ImportCommand struct {
	Entries []EntryInput `json:"entries"`
}

// EntryInput is a single entry in an import payload or seed file.
type EntryInput struct {
	Code           string `json:"code" yaml:"code"`
	Text           string `json:"text" yaml:"text"`
	Revision       string `json:"revision,omitempty" yaml:"revision,omitempty"`
	EffectiveDate  string `json:"effective_date,omitempty" yaml:"effective_date,omitempty"`
	SourceDocument string `json:"source_document,omitempty" yaml:"source_document,omitempty"`
}
