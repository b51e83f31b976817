package documents

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/clauseflow/clauseflow/pkg/repository"
)

const documentColumns = `id, filename, content_type, size_bytes, storage_key,
	raw_text, total_lines, page_count, status, error_message,
	customer, po_number, prime_contract_id, processing_token,
	uploaded_at, updated_at`

// listColumns omits raw_text: list responses never need the full document
// body and contracts run to hundreds of kilobytes.
const listColumns = `id, filename, content_type, size_bytes, storage_key,
	'', total_lines, page_count, status, error_message,
	customer, po_number, prime_contract_id, processing_token,
	uploaded_at, updated_at`

// Filters contains optional filtering criteria for document queries.
// Status and customer use exact matching; filename matches a substring.
type Filters struct {
	Status   string `json:"status,omitempty"`
	Filename string `json:"filename,omitempty"`
	Customer string `json:"customer,omitempty"`
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	return Filters{
		Status:   values.Get("status"),
		Filename: values.Get("filename"),
		Customer: values.Get("customer"),
	}
}

// where builds the WHERE clause and arguments for the active filters.
func (f Filters) where() (string, []any) {
	var conds []string
	var args []any

	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Filename != "" {
		args = append(args, "%"+f.Filename+"%")
		conds = append(conds, fmt.Sprintf("filename ILIKE $%d", len(args)))
	}
	if f.Customer != "" {
		args = append(args, f.Customer)
		conds = append(conds, fmt.Sprintf("customer = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.StorageKey,
		&d.RawText,
		&d.TotalLines,
		&d.PageCount,
		&d.Status,
		&d.ErrorMessage,
		&d.Customer,
		&d.PONumber,
		&d.PrimeContractID,
		&d.ProcessingToken,
		&d.UploadedAt,
		&d.UpdatedAt,
	)
	return d, err
}

func scanWarning(s repository.Scanner) (Warning, error) {
	var w Warning
	err := s.Scan(
		&w.ID,
		&w.DocumentID,
		&w.Kind,
		&w.Detail,
		&w.StartLine,
		&w.EndLine,
		&w.CreatedAt,
	)
	return w, err
}
