// Package documents implements the document domain for ClauseFlow: upload
// and text ingestion, blob storage, the per-document processing state
// machine with its single-writer lease, persisted extraction warnings, and
// the export surface.
package documents

import (
	"time"

	"github.com/google/uuid"

	"github.com/clauseflow/clauseflow/internal/clauses"
	"github.com/clauseflow/clauseflow/internal/lineitems"
	"github.com/clauseflow/clauseflow/internal/sections"
)

// Status is the document processing state. The pipeline advances a document
// through the stages in order; error is reachable from any stage and retains
// the failure message.
type Status string

const (
	StatusUploaded   Status = "uploaded"
	StatusSegmenting Status = "segmenting"
	StatusExtracting Status = "extracting"
	StatusMatching   Status = "matching"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

// Document represents an ingested purchase order. RawText is immutable once
// ingested; every line reference in the system resolves against it.
type Document struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	StorageKey  string    `json:"storage_key"`
	RawText     string    `json:"-"`
	TotalLines  int       `json:"total_lines"`
	PageCount   *int      `json:"page_count,omitempty"`

	Status       Status `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`

	Customer        string `json:"customer,omitempty"`
	PONumber        string `json:"po_number,omitempty"`
	PrimeContractID string `json:"prime_contract_id,omitempty"`

	ProcessingToken *uuid.UUID `json:"-"`

	UploadedAt time.Time `json:"uploaded_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to ingest a new document. Data holds
// the raw file bytes; RawText and TotalLines come from text extraction and
// line indexing before the row is written.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	RawText     string
	TotalLines  int
	PageCount   *int

	Customer        string
	PONumber        string
	PrimeContractID string
}

// Detail is the full aggregate returned for a single document.
type Detail struct {
	Document  *Document              `json:"document"`
	Sections  []sections.Section     `json:"sections"`
	LineItems []lineitems.LineItem   `json:"line_items"`
	Clauses   []clauses.Clause       `json:"clauses"`
	Session   *clauses.ReviewSession `json:"session,omitempty"`
	Warnings  []Warning              `json:"warnings"`
}

// Warning is a persisted input-quality signal from a pipeline run.
type Warning struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`
	Kind       string    `json:"kind"`
	Detail     string    `json:"detail"`
	StartLine  *int      `json:"start_line,omitempty"`
	EndLine    *int      `json:"end_line,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
