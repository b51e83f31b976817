package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/clauseflow/clauseflow/internal/clauses"
)

// lineDelimiter separates applicable line numbers inside a single CSV cell.
const lineDelimiter = ";"

var csvHeader = []string{
	"document_id", "filename", "po_number", "customer",
	"clause_code", "clause_title", "text", "start_line", "end_line",
	"chunk_type", "scope_type", "applicable_lines",
	"is_external_ref", "external_pointer",
	"match_status", "match_detail", "review_status", "notes",
}

// WriteCSV renders the tabular export form: one row per clause, applicable
// line numbers serialized as a delimited list. The row set carries the same
// information as the structured form.
func WriteCSV(w io.Writer, meta Meta, cls []clauses.Clause) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, c := range cls {
		rec := toRecord(c)

		row := []string{
			meta.DocumentID.String(),
			meta.Filename,
			meta.PONumber,
			meta.Customer,
			rec.ClauseCode,
			rec.ClauseTitle,
			rec.Text,
			strconv.Itoa(rec.StartLine),
			strconv.Itoa(rec.EndLine),
			rec.ChunkType,
			rec.ScopeType,
			joinLines(rec.ApplicableLines),
			strconv.FormatBool(rec.IsExternalRef),
			rec.ExternalPointer,
			rec.MatchStatus,
			rec.MatchDetail,
			rec.ReviewStatus,
			rec.Notes,
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func joinLines(lines []int) string {
	if len(lines) == 0 {
		return ""
	}

	parts := make([]string, len(lines))
	for i, n := range lines {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, lineDelimiter)
}
