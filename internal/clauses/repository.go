package clauses

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clauseflow/clauseflow/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
	scopes []string
}

// New creates a clause repository implementing the System interface. The
// scopes slice is the configured scope taxonomy accepted on clause updates;
// unset is always admitted as the cleared state.
func New(db *sql.DB, logger *slog.Logger, scopes []string) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "clauses"),
		scopes: scopes,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Clause, error) {
	q := fmt.Sprintf("SELECT %s FROM clauses WHERE id = $1", clauseColumns)

	c, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanClause)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) ListByDocument(ctx context.Context, documentID uuid.UUID, filters Filters) ([]Clause, error) {
	where, extra := filters.where()
	args := append([]any{documentID}, extra...)

	q := fmt.Sprintf(
		"SELECT %s FROM clauses%s ORDER BY start_line, end_line",
		clauseColumns, where,
	)

	items, err := repository.QueryMany(ctx, r.db, q, args, scanClause)
	if err != nil {
		return nil, fmt.Errorf("query clauses: %w", err)
	}
	return items, nil
}

const insertClause = `
	INSERT INTO clauses (
		id, document_id, section_id, clause_code, clause_title, text,
		start_line, end_line, chunk_type, scope_type, applicable_lines,
		suggested_scope, suggested_lines, is_external_ref, external_pointer,
		match_status, match_detail, review_status, notes, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		$12, $13, $14, $15, $16, $17, $18, $19, $20
	)`

func (r *repo) InsertBatch(ctx context.Context, documentID uuid.UUID, batch []Clause) error {
	if len(batch) == 0 {
		return ErrEmptyBatch
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		var zero struct{}

		for _, c := range batch {
			applicable, err := marshalLines(c.ApplicableLines)
			if err != nil {
				return zero, fmt.Errorf("marshal applicable_lines: %w", err)
			}
			suggested, err := marshalLines(c.SuggestedLines)
			if err != nil {
				return zero, fmt.Errorf("marshal suggested_lines: %w", err)
			}

			_, err = tx.ExecContext(ctx, insertClause,
				c.ID, documentID, c.SectionID, c.ClauseCode, c.ClauseTitle, c.Text,
				c.StartLine, c.EndLine, c.ChunkType, c.ScopeType, applicable,
				c.SuggestedScope, suggested, c.IsExternalRef, c.ExternalPointer,
				c.MatchStatus, c.MatchDetail, c.ReviewStatus, c.Notes, c.CreatedAt,
			)
			if err != nil {
				return zero, fmt.Errorf("insert clause %d-%d: %w", c.StartLine, c.EndLine, err)
			}
		}

		if err := recomputeSession(ctx, tx, documentID, time.Now().UTC()); err != nil {
			return zero, err
		}

		return zero, nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("clause batch committed", "document", documentID, "clauses", len(batch))
	return nil
}

func (r *repo) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		var zero struct{}

		if _, err := tx.ExecContext(ctx, "DELETE FROM clauses WHERE document_id = $1", documentID); err != nil {
			return zero, fmt.Errorf("delete clauses: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM review_sessions WHERE document_id = $1", documentID); err != nil {
			return zero, fmt.Errorf("delete review session: %w", err)
		}

		return zero, nil
	})
	return err
}

// Update applies a partial edit as a single UPDATE statement. Concurrent
// edits to different fields of the same clause serialize at the row; the
// last write to a field wins without partially merged field sets. Match
// fields are never touched here.
func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Clause, error) {
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	scope := current.ScopeType
	if cmd.ScopeType != nil {
		if !r.allowedScope(*cmd.ScopeType) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidScope, *cmd.ScopeType)
		}
		scope = ScopeType(*cmd.ScopeType)
	}

	if cmd.ApplicableLines != nil && len(*cmd.ApplicableLines) > 0 && scope != ScopeLineSpecific {
		return nil, ErrLinesWithoutScope
	}

	var sets []string
	var args []any

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if cmd.ScopeType != nil {
		set("scope_type", scope)
		if scope != ScopeLineSpecific && cmd.ApplicableLines == nil {
			set("applicable_lines", []byte("[]"))
		}
	}
	if cmd.ApplicableLines != nil {
		lines, err := marshalLines(normalizeLines(*cmd.ApplicableLines))
		if err != nil {
			return nil, fmt.Errorf("marshal applicable_lines: %w", err)
		}
		set("applicable_lines", lines)
	}
	if cmd.Notes != nil {
		set("notes", *cmd.Notes)
	}

	if len(sets) == 0 {
		return current, nil
	}

	args = append(args, id)
	q := fmt.Sprintf(
		"UPDATE clauses SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), clauseColumns,
	)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanClause)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) MarkReviewed(ctx context.Context, id uuid.UUID) (*Clause, error) {
	return r.transition(ctx, id, ReviewReviewed)
}

func (r *repo) Flag(ctx context.Context, id uuid.UUID) (*Clause, error) {
	return r.transition(ctx, id, ReviewFlagged)
}

// transition applies a review state change and recomputes the document's
// session counters in the same transaction.
func (r *repo) transition(ctx context.Context, id uuid.UUID, target ReviewStatus) (*Clause, error) {
	now := time.Now().UTC()

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Clause, error) {
		var zero Clause

		q := fmt.Sprintf("SELECT %s FROM clauses WHERE id = $1 FOR UPDATE", clauseColumns)
		current, err := repository.QueryOne(ctx, tx, q, []any{id}, scanClause)
		if err != nil {
			return zero, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		if !CanTransition(current.ReviewStatus, target) {
			return zero, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.ReviewStatus, target)
		}

		updated, err := repository.QueryOne(ctx, tx,
			fmt.Sprintf(
				"UPDATE clauses SET review_status = $1, reviewed_at = $2 WHERE id = $3 RETURNING %s",
				clauseColumns,
			),
			[]any{target, now, id}, scanClause,
		)
		if err != nil {
			return zero, fmt.Errorf("update review status: %w", err)
		}

		if err := recomputeSession(ctx, tx, updated.DocumentID, now); err != nil {
			return zero, err
		}

		return updated, nil
	})
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// recomputeSession derives the review session counters from the clause rows
// inside the caller's transaction.
func recomputeSession(ctx context.Context, tx *sql.Tx, documentID uuid.UUID, now time.Time) error {
	const upsert = `
		INSERT INTO review_sessions (document_id, reviewed_count, flagged_count, unreviewed_count, last_activity)
		SELECT $1,
			COUNT(*) FILTER (WHERE review_status = 'reviewed'),
			COUNT(*) FILTER (WHERE review_status = 'flagged'),
			COUNT(*) FILTER (WHERE review_status = 'unreviewed'),
			$2
		FROM clauses WHERE document_id = $1
		ON CONFLICT (document_id) DO UPDATE SET
			reviewed_count = EXCLUDED.reviewed_count,
			flagged_count = EXCLUDED.flagged_count,
			unreviewed_count = EXCLUDED.unreviewed_count,
			last_activity = EXCLUDED.last_activity`

	if _, err := tx.ExecContext(ctx, upsert, documentID, now); err != nil {
		return fmt.Errorf("recompute review session: %w", err)
	}
	return nil
}

func (r *repo) Session(ctx context.Context, documentID uuid.UUID) (*ReviewSession, error) {
	const q = `
		SELECT document_id, reviewed_count, flagged_count, unreviewed_count, last_activity
		FROM review_sessions WHERE document_id = $1`

	rs, err := repository.QueryOne(ctx, r.db, q, []any{documentID}, scanSession)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rs, nil
}

func (r *repo) Stats(ctx context.Context, documentID uuid.UUID) (*Stats, error) {
	stats := &Stats{
		DocumentID:  documentID,
		ByChunkType: map[string]int{},
		ByScope:     map[string]int{},
		ByMatch:     map[string]int{},
		ByReview:    map[string]int{},
	}

	axes := []struct {
		column string
		dest   map[string]int
	}{
		{"chunk_type", stats.ByChunkType},
		{"scope_type", stats.ByScope},
		{"match_status", stats.ByMatch},
		{"review_status", stats.ByReview},
	}

	for _, axis := range axes {
		q := fmt.Sprintf(
			"SELECT %s, COUNT(*) FROM clauses WHERE document_id = $1 GROUP BY %s",
			axis.column, axis.column,
		)

		rows, err := r.db.QueryContext(ctx, q, documentID)
		if err != nil {
			return nil, fmt.Errorf("count by %s: %w", axis.column, err)
		}

		for rows.Next() {
			var key string
			var count int
			if err := rows.Scan(&key, &count); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan %s counts: %w", axis.column, err)
			}
			axis.dest[key] = count
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	for _, n := range stats.ByReview {
		stats.Total += n
	}

	return stats, nil
}

func (r *repo) Gate(ctx context.Context, documentID uuid.UUID) (*GateStatus, error) {
	const q = `
		SELECT
			COUNT(*) FILTER (WHERE review_status = 'unreviewed'
				OR (chunk_type = 'clause' AND scope_type = 'unset')),
			COUNT(*) FILTER (WHERE review_status = 'unreviewed'),
			COUNT(*) FILTER (WHERE chunk_type = 'clause' AND scope_type = 'unset')
		FROM clauses WHERE document_id = $1`

	var g GateStatus
	if err := r.db.QueryRowContext(ctx, q, documentID).Scan(&g.Unaddressed, &g.Unreviewed, &g.Unscoped); err != nil {
		return nil, fmt.Errorf("compute export gate: %w", err)
	}
	return &g, nil
}

func (r *repo) allowedScope(s string) bool {
	if s == string(ScopeUnset) {
		return true
	}
	return slices.Contains(r.scopes, s)
}
