package extraction

import "fmt"

// WarningKind identifies a category of input-quality signal. Warnings never
// block the pipeline; they accumulate per document for operator review.
type WarningKind string

const (
	WarnInvalidRange     WarningKind = "invalid_range"
	WarnOverlap          WarningKind = "overlap"
	WarnGap              WarningKind = "gap"
	WarnSectionRepair    WarningKind = "section_repair"
	WarnSectionGap       WarningKind = "section_gap"
	WarnUnknownChunkType WarningKind = "unknown_chunk_type"
	WarnMismatch         WarningKind = "mismatch"
)

// Warning is an operator-visible data-quality signal tied to a line span.
type Warning struct {
	Kind      WarningKind `json:"kind"`
	Detail    string      `json:"detail"`
	StartLine int         `json:"start_line,omitempty"`
	EndLine   int         `json:"end_line,omitempty"`
}

func warnf(kind WarningKind, start, end int, format string, args ...any) Warning {
	return Warning{
		Kind:      kind,
		Detail:    fmt.Sprintf(format, args...),
		StartLine: start,
		EndLine:   end,
	}
}

func label(code, title string) string {
	switch {
	case code != "":
		return code
	case title != "":
		return title
	default:
		return "unnamed"
	}
}
