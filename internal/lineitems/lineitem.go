// Package lineitems persists the purchase order line items extracted from a
// document's header section.
package lineitems

import (
	"github.com/google/uuid"
)

// LineItem is a single ordered item on the purchase order. LineNumber is the
// item's number on the order, not a text line; clause scoping references it.
type LineItem struct {
	ID           uuid.UUID  `json:"id"`
	DocumentID   uuid.UUID  `json:"document_id"`
	SectionID    *uuid.UUID `json:"section_id,omitempty"`
	LineNumber   int        `json:"line_number"`
	PartNumber   string     `json:"part_number,omitempty"`
	Description  string     `json:"description,omitempty"`
	Quantity     string     `json:"quantity,omitempty"`
	QualityLevel string     `json:"quality_level,omitempty"`
}
