// Package sections persists the document section boundaries produced by the
// segmentation pass.
package sections

import (
	"github.com/google/uuid"
)

// Section is a contiguous, non-overlapping span of a document identified
// during segmentation. Gaps between sections are legal and reported as
// warnings upstream.
type Section struct {
	ID             uuid.UUID `json:"id"`
	DocumentID     uuid.UUID `json:"document_id"`
	Title          string    `json:"title,omitempty"`
	SectionType    string    `json:"section_type"`
	SectionNumber  string    `json:"section_number,omitempty"`
	LineItemNumber *int      `json:"line_item_number,omitempty"`
	OrderIndex     int       `json:"order_index"`
	StartLine      int       `json:"start_line"`
	EndLine        int       `json:"end_line"`
}
