package documents

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/clauseflow/clauseflow/internal/extraction"
	"github.com/clauseflow/clauseflow/pkg/pagination"
	"github.com/clauseflow/clauseflow/pkg/repository"
	"github.com/clauseflow/clauseflow/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	where, args := filters.where()

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	q := fmt.Sprintf(
		"SELECT %s FROM documents%s ORDER BY uploaded_at DESC LIMIT $%d OFFSET $%d",
		listColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, page.PageSize, page.Offset())

	docs, err := repository.QueryMany(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q := fmt.Sprintf("SELECT %s FROM documents WHERE id = $1", documentColumns)

	d, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	id := uuid.New()
	key := buildStorageKey(id, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	q := fmt.Sprintf(`
		INSERT INTO documents (
			id, filename, content_type, size_bytes, storage_key,
			raw_text, total_lines, page_count, status,
			customer, po_number, prime_contract_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING %s`, documentColumns)

	args := []any{
		id,
		cmd.Filename,
		cmd.ContentType,
		int64(len(cmd.Data)),
		key,
		cmd.RawText,
		cmd.TotalLines,
		cmd.PageCount,
		StatusUploaded,
		cmd.Customer,
		cmd.PONumber,
		cmd.PrimeContractID,
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, q, args, scanDocument)
	})
	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created",
		"id", d.ID,
		"filename", d.Filename,
		"total_lines", d.TotalLines,
	)
	return &d, nil
}

// Delete removes the document row (the schema cascades to sections, line
// items, clauses, sessions, and warnings) and then the stored blob.
func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	if err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM documents WHERE id = $1", id); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, doc.StorageKey); delErr != nil {
		r.logger.Warn("blob delete failed after DB delete", "key", doc.StorageKey, "error", delErr)
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}

func (r *repo) Download(ctx context.Context, id uuid.UUID) (*Document, *storage.DownloadResult, error) {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	result, err := r.storage.Download(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("download document blob: %w", err)
	}

	return doc, result, nil
}

func (r *repo) AcquireLease(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	token := uuid.New()

	res, err := r.db.ExecContext(ctx, `
		UPDATE documents SET processing_token = $1, updated_at = $2
		WHERE id = $3 AND processing_token IS NULL`,
		token, time.Now().UTC(), id,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("acquire lease: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return uuid.Nil, err
	}
	if rows == 1 {
		return token, nil
	}

	// Distinguish a held lease from a missing document.
	if _, err := r.Find(ctx, id); err != nil {
		return uuid.Nil, err
	}
	return uuid.Nil, ErrProcessing
}

func (r *repo) ReleaseLease(ctx context.Context, id uuid.UUID, token uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE documents SET processing_token = NULL, updated_at = $1
		WHERE id = $2 AND processing_token = $3`,
		time.Now().UTC(), id, token,
	)
	if err != nil {
		return fmt.Errorf("release lease: %w", err)
	}
	return nil
}

func (r *repo) SetStatus(ctx context.Context, id uuid.UUID, status Status, token uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, r.db, `
		UPDATE documents SET status = $1, error_message = '', updated_at = $2
		WHERE id = $3 AND processing_token = $4`,
		status, time.Now().UTC(), id, token,
	)
	if err != nil {
		return fmt.Errorf("set status %s: %w", status, repository.MapError(err, ErrProcessing, ErrDuplicate))
	}

	r.logger.Info("document status", "id", id, "status", status)
	return nil
}

func (r *repo) SetError(ctx context.Context, id uuid.UUID, message string, token uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, r.db, `
		UPDATE documents SET status = $1, error_message = $2, processing_token = NULL, updated_at = $3
		WHERE id = $4 AND processing_token = $5`,
		StatusError, message, time.Now().UTC(), id, token,
	)
	if err != nil {
		return fmt.Errorf("set error status: %w", repository.MapError(err, ErrProcessing, ErrDuplicate))
	}

	r.logger.Warn("document pipeline failed", "id", id, "error", message)
	return nil
}

func (r *repo) SaveWarnings(ctx context.Context, id uuid.UUID, warnings []extraction.Warning) error {
	if len(warnings) == 0 {
		return nil
	}

	const insert = `
		INSERT INTO extraction_warnings (id, document_id, kind, detail, start_line, end_line)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		var zero struct{}

		for _, w := range warnings {
			start, end := lineOrNil(w.StartLine), lineOrNil(w.EndLine)
			if _, err := tx.ExecContext(ctx, insert, uuid.New(), id, w.Kind, w.Detail, start, end); err != nil {
				return zero, fmt.Errorf("insert warning: %w", err)
			}
		}

		return zero, nil
	})
	return err
}

func (r *repo) ClearWarnings(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM extraction_warnings WHERE document_id = $1", id); err != nil {
		return fmt.Errorf("clear warnings: %w", err)
	}
	return nil
}

func (r *repo) ListWarnings(ctx context.Context, id uuid.UUID) ([]Warning, error) {
	const q = `
		SELECT id, document_id, kind, detail, start_line, end_line, created_at
		FROM extraction_warnings WHERE document_id = $1 ORDER BY created_at, start_line`

	warnings, err := repository.QueryMany(ctx, r.db, q, []any{id}, scanWarning)
	if err != nil {
		return nil, fmt.Errorf("query warnings: %w", err)
	}
	return warnings, nil
}

func lineOrNil(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("documents/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "document"
	}
	return url.PathEscape(name)
}
