package lineitems

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/clauseflow/clauseflow/pkg/repository"
)

const lineItemColumns = `id, document_id, section_id, line_number, part_number,
	description, quantity, quality_level`

// System defines the public contract for line item persistence.
type System interface {
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]LineItem, error)
	ReplaceBatch(ctx context.Context, documentID uuid.UUID, items []LineItem) error
}

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a line item repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "lineitems"),
	}
}

func (r *repo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]LineItem, error) {
	q := fmt.Sprintf(
		"SELECT %s FROM line_items WHERE document_id = $1 ORDER BY line_number",
		lineItemColumns,
	)

	items, err := repository.QueryMany(ctx, r.db, q, []any{documentID}, scanLineItem)
	if err != nil {
		return nil, fmt.Errorf("query line items: %w", err)
	}
	return items, nil
}

// ReplaceBatch swaps a document's line items in one transaction. Duplicate
// line numbers within the batch violate the unique constraint and fail the
// whole batch.
func (r *repo) ReplaceBatch(ctx context.Context, documentID uuid.UUID, items []LineItem) error {
	const insert = `
		INSERT INTO line_items (
			id, document_id, section_id, line_number, part_number,
			description, quantity, quality_level
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		var zero struct{}

		if _, err := tx.ExecContext(ctx, "DELETE FROM line_items WHERE document_id = $1", documentID); err != nil {
			return zero, fmt.Errorf("delete line items: %w", err)
		}

		for _, item := range items {
			id := item.ID
			if id == uuid.Nil {
				id = uuid.New()
			}

			_, err := tx.ExecContext(ctx, insert,
				id, documentID, item.SectionID, item.LineNumber, item.PartNumber,
				item.Description, item.Quantity, item.QualityLevel,
			)
			if err != nil {
				return zero, fmt.Errorf("insert line item %d: %w", item.LineNumber, err)
			}
		}

		return zero, nil
	})
	return err
}

func scanLineItem(s repository.Scanner) (LineItem, error) {
	var item LineItem
	err := s.Scan(
		&item.ID,
		&item.DocumentID,
		&item.SectionID,
		&item.LineNumber,
		&item.PartNumber,
		&item.Description,
		&item.Quantity,
		&item.QualityLevel,
	)
	return item, err
}
