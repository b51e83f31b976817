// Package extraction validates line-range references returned by the external
// chunking model before anything downstream may use them. The type split is
// deliberate: RawReference is untrusted model output, Reference is a range
// the validator has accepted against the indexed document. Only Reference
// values reach the clause assembler.
package extraction

// RawReference is a single clause reference as returned by the chunking
// model. Every field is untrusted: line ranges may be out of bounds, the
// chunk type label may be outside the known set, and scope hints are
// suggestions only.
type RawReference struct {
	StartLine       int    `json:"start_line"`
	EndLine         int    `json:"end_line"`
	ClauseCode      string `json:"clause_code,omitempty"`
	ClauseTitle     string `json:"clause_title,omitempty"`
	ChunkType       string `json:"chunk_type"`
	ScopeHint       string `json:"scope_type,omitempty"`
	ApplicableLines []int  `json:"applicable_lines,omitempty"`
	IsExternalRef   bool   `json:"is_external_reference,omitempty"`
	ExternalPointer string `json:"external_url,omitempty"`
	Revision        string `json:"revision,omitempty"`
	EffectiveDate   string `json:"effective_date,omitempty"`
}

// Reference is a clause reference that passed structural validation:
// 1 <= StartLine <= EndLine <= total lines. The chunk type label is carried
// through unparsed; the assembler owns mapping it into the closed enum.
type Reference struct {
	StartLine       int
	EndLine         int
	ClauseCode      string
	ClauseTitle     string
	ChunkType       string
	ScopeHint       string
	ApplicableLines []int
	IsExternalRef   bool
	ExternalPointer string
	Revision        string
	EffectiveDate   string
}

// RawSection is an untrusted section boundary from the segmentation pass.
type RawSection struct {
	StartLine      int    `json:"start_line"`
	EndLine        int    `json:"end_line"`
	SectionType    string `json:"section_type"`
	SectionTitle   string `json:"section_title,omitempty"`
	SectionNumber  string `json:"section_number,omitempty"`
	LineItemNumber *int   `json:"line_item_number,omitempty"`
}

// RawLineItem is an untrusted line-item row extracted from a header section.
type RawLineItem struct {
	LineNumber   int    `json:"line_number"`
	PartNumber   string `json:"part_number,omitempty"`
	Description  string `json:"description,omitempty"`
	Quantity     string `json:"quantity,omitempty"`
	QualityLevel string `json:"quality_level,omitempty"`
	StartLine    int    `json:"start_line"`
	EndLine      int    `json:"end_line"`
}
