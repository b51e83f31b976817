package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clauseflow/clauseflow/pkg/pagination"
	"github.com/clauseflow/clauseflow/pkg/repository"
)

const entryColumns = "id, code, text, revision, effective_date, source_document, cached_at"

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a library repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "library"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Entry], error) {
	page.Normalize(r.pagination)

	where, args := filters.where()

	var total int
	countSQL := "SELECT COUNT(*) FROM library_entries" + where
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count library entries: %w", err)
	}

	pageSQL := fmt.Sprintf(
		"SELECT %s FROM library_entries%s ORDER BY code LIMIT $%d OFFSET $%d",
		entryColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, page.PageSize, page.Offset())

	items, err := repository.QueryMany(ctx, r.db, pageSQL, args, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query library entries: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, code string) (*Entry, error) {
	q := fmt.Sprintf("SELECT %s FROM library_entries WHERE code = $1", entryColumns)

	e, err := repository.QueryOne(ctx, r.db, q, []any{code}, scanEntry)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

// FindByCode is the matcher-facing lookup. The stored code is normalized the
// same way NormalizeCode normalizes the argument, so citation formatting
// differences ("q 001" vs "Q-001") still resolve. Unlike Find it reports an
// absent entry as a nil pointer rather than an error, since not_found is a
// normal verification outcome rather than a failure.
func (r *repo) FindByCode(ctx context.Context, code string) (*Entry, error) {
	q := fmt.Sprintf(
		"SELECT %s FROM library_entries WHERE upper(translate(code, ' -_', '')) = $1",
		entryColumns,
	)

	e, err := repository.QueryOne(ctx, r.db, q, []any{NormalizeCode(code)}, scanEntry)
	if err != nil {
		err = repository.MapError(err, ErrNotFound, ErrDuplicate)
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// ListAll returns every cached entry for full-text matching of uncoded clauses.
func (r *repo) ListAll(ctx context.Context) ([]Entry, error) {
	q := fmt.Sprintf("SELECT %s FROM library_entries ORDER BY code", entryColumns)

	entries, err := repository.QueryMany(ctx, r.db, q, nil, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("list library entries: %w", err)
	}
	return entries, nil
}

// Import upserts a batch of entries from the external system of record in a
// single transaction. The whole batch is validated before any row is written.
func (r *repo) Import(ctx context.Context, cmd ImportCommand) (ImportResult, error) {
	if len(cmd.Entries) == 0 {
		return ImportResult{}, ErrEmptyImport
	}

	for _, in := range cmd.Entries {
		if strings.TrimSpace(in.Code) == "" {
			return ImportResult{}, ErrInvalidCode
		}
		if strings.TrimSpace(in.Text) == "" {
			return ImportResult{}, fmt.Errorf("entry %q: %w", in.Code, ErrInvalidText)
		}
	}

	const upsert = `
		INSERT INTO library_entries (id, code, text, revision, effective_date, source_document, cached_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (code) DO UPDATE SET
			text = EXCLUDED.text,
			revision = EXCLUDED.revision,
			effective_date = EXCLUDED.effective_date,
			source_document = EXCLUDED.source_document,
			cached_at = EXCLUDED.cached_at
		RETURNING (xmax = 0)`

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (ImportResult, error) {
		var res ImportResult
		now := time.Now().UTC()

		for _, in := range cmd.Entries {
			var inserted bool
			err := tx.QueryRowContext(ctx, upsert,
				uuid.New(),
				strings.TrimSpace(in.Code),
				in.Text,
				in.Revision,
				in.EffectiveDate,
				in.SourceDocument,
				now,
			).Scan(&inserted)
			if err != nil {
				return res, fmt.Errorf("upsert entry %q: %w", in.Code, err)
			}

			if inserted {
				res.Created++
			} else {
				res.Updated++
			}
		}

		res.Total = res.Created + res.Updated
		return res, nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	r.logger.Info("library cache refreshed",
		"created", result.Created,
		"updated", result.Updated,
	)

	return result, nil
}
