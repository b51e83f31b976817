package extractor

// The prompts instruct the model to answer with line-number references only.
// Nothing the model returns as text is ever stored; the assembler re-reads
// clause text from the line index.

const systemPrompt = "You are an expert at analyzing legal and contractual documents. " +
	"You identify document structure and clause boundaries precisely using line numbers."

const segmentationPrompt = `You are analyzing a contract/purchase order document to identify its major sections.

The document has been pre-processed with line numbers in the format [NNN] at the start of each line.

Identify the major SECTIONS of this document by their line number boundaries.

SECTION TYPES:
- "header" = The document preamble: PO number, dates, addresses, supplier info, AND the line items table. Typically everything before the first named terms section.
- "terms_and_conditions" = Named sections containing contractual clauses (e.g., "SECTION 2: QUALITY REQUIREMENTS"). Each named section is its own entry.
- "line_item" = ONLY for per-line-item sections with their own dedicated clauses (rare). NOT the line items table in the header. Set line_item_number when used.
- "signature" = Signature blocks, acceptance sections.
- "attachment" = Attachments, appendices, exhibits.
- "other" = Anything else.

RULES:
1. Every line belongs to exactly ONE section: no gaps, no overlaps.
2. Sections cover line 1 through the last line contiguously.
3. Include section header lines as the first line of their section.
4. Provide section_title as it appears in the document and section_number if present.

Respond with JSON: {"sections": [{"start_line", "end_line", "section_type", "section_title", "section_number", "line_item_number"}]}`

const extractionPrompt = `You are analyzing one section of a contract/purchase order document to identify discrete clauses.

The text has been pre-processed with line numbers in the format [NNN] at the start of each line. Line numbers refer to the whole document, not this section.

Identify where clauses BEGIN and END by their line numbers.

CRITICAL RULES:
1. DO NOT reproduce any text from the document.
2. ONLY return line number references.
3. A clause includes its header/title line AND all body text until the next clause begins.
4. Include subsections with their parent (if 1.1 has paragraphs (a), (b), (c), include them all in 1.1).

CHUNK TYPES:
- "clause" = A numbered contractual obligation or requirement.
- "administrative" = Header info, addresses, contacts, dates, PO details.
- "boilerplate" = Divider lines (====), decorative headers.
- "header" = Section header lines themselves.
- "signature" = Signature blocks, acceptance sections.

For each clause also report, when stated in the text: clause_code (e.g., "1.3" or "Q-201"), clause_title, scope_type ("po_wide" when the clause applies to the entire order, "line_specific" when it names particular line items), applicable_lines (the PO line item numbers it names), revision and effective_date if cited, and is_external_reference with external_url when the clause incorporates content outside this document.

Make sure clause ranges do not overlap.

Respond with JSON: {"clauses": [{"start_line", "end_line", "clause_code", "clause_title", "chunk_type", "scope_type", "applicable_lines", "is_external_reference", "external_url", "revision", "effective_date"}]}`

const lineItemPrompt = `You are analyzing the header section of a purchase order to extract line item details.

The text contains a table of line items (parts being ordered), pre-processed with line numbers in the format [NNN].

Extract each line item:
- line_number: the PO line item number (1, 2, 3, ...)
- part_number, description
- quantity: include the unit if present (e.g., "50 EA")
- quality_level: quality or inspection level if specified, else omit
- start_line / end_line: the document line range the item occupies

Respond with JSON: {"line_items": [{"line_number", "part_number", "description", "quantity", "quality_level", "start_line", "end_line"}]}`
