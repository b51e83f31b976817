package library

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/clauseflow/clauseflow/pkg/repository"
)

// Filters contains optional filtering criteria for library queries.
// Empty fields are ignored.
type Filters struct {
	Code           string `json:"code,omitempty"`
	SourceDocument string `json:"source_document,omitempty"`
	Search         string `json:"search,omitempty"`
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	return Filters{
		Code:           strings.TrimSpace(values.Get("code")),
		SourceDocument: strings.TrimSpace(values.Get("source_document")),
		Search:         strings.TrimSpace(values.Get("search")),
	}
}

// where builds the WHERE clause and arguments for the active filters.
func (f Filters) where() (string, []any) {
	var conds []string
	var args []any

	if f.Code != "" {
		args = append(args, f.Code)
		conds = append(conds, fmt.Sprintf("code = $%d", len(args)))
	}
	if f.SourceDocument != "" {
		args = append(args, f.SourceDocument)
		conds = append(conds, fmt.Sprintf("source_document = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		conds = append(conds, fmt.Sprintf("(code ILIKE $%d OR text ILIKE $%d)", len(args), len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanEntry(s repository.Scanner) (Entry, error) {
	var e Entry
	err := s.Scan(
		&e.ID,
		&e.Code,
		&e.Text,
		&e.Revision,
		&e.EffectiveDate,
		&e.SourceDocument,
		&e.CachedAt,
	)
	return e, err
}
