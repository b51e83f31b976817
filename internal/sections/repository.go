package sections

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/clauseflow/clauseflow/internal/extraction"
	"github.com/clauseflow/clauseflow/pkg/repository"
)

const sectionColumns = `id, document_id, title, section_type, section_number,
	line_item_number, order_index, start_line, end_line`

// System defines the public contract for section persistence.
type System interface {
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]Section, error)
	ReplaceBatch(ctx context.Context, documentID uuid.UUID, validated []extraction.Section) ([]Section, error)
}

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a section repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "sections"),
	}
}

func (r *repo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]Section, error) {
	q := fmt.Sprintf(
		"SELECT %s FROM sections WHERE document_id = $1 ORDER BY order_index",
		sectionColumns,
	)

	items, err := repository.QueryMany(ctx, r.db, q, []any{documentID}, scanSection)
	if err != nil {
		return nil, fmt.Errorf("query sections: %w", err)
	}
	return items, nil
}

// ReplaceBatch swaps a document's sections for the validated set from the
// segmentation pass in one transaction.
func (r *repo) ReplaceBatch(
	ctx context.Context,
	documentID uuid.UUID,
	validated []extraction.Section,
) ([]Section, error) {
	const insert = `
		INSERT INTO sections (
			id, document_id, title, section_type, section_number,
			line_item_number, order_index, start_line, end_line
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	return repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]Section, error) {
		if _, err := tx.ExecContext(ctx, "DELETE FROM sections WHERE document_id = $1", documentID); err != nil {
			return nil, fmt.Errorf("delete sections: %w", err)
		}

		out := make([]Section, 0, len(validated))
		for _, v := range validated {
			sec := Section{
				ID:             uuid.New(),
				DocumentID:     documentID,
				Title:          v.SectionTitle,
				SectionType:    v.SectionType,
				SectionNumber:  v.SectionNumber,
				LineItemNumber: v.LineItemNumber,
				OrderIndex:     v.OrderIndex,
				StartLine:      v.StartLine,
				EndLine:        v.EndLine,
			}

			_, err := tx.ExecContext(ctx, insert,
				sec.ID, sec.DocumentID, sec.Title, sec.SectionType, sec.SectionNumber,
				sec.LineItemNumber, sec.OrderIndex, sec.StartLine, sec.EndLine,
			)
			if err != nil {
				return nil, fmt.Errorf("insert section %q: %w", sec.Title, err)
			}

			out = append(out, sec)
		}

		return out, nil
	})
}

func scanSection(s repository.Scanner) (Section, error) {
	var sec Section
	err := s.Scan(
		&sec.ID,
		&sec.DocumentID,
		&sec.Title,
		&sec.SectionType,
		&sec.SectionNumber,
		&sec.LineItemNumber,
		&sec.OrderIndex,
		&sec.StartLine,
		&sec.EndLine,
	)
	return sec, err
}
