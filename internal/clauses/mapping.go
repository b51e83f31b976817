package clauses

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/clauseflow/clauseflow/internal/library"
	"github.com/clauseflow/clauseflow/pkg/repository"
)

const clauseColumns = `id, document_id, section_id, clause_code, clause_title, text,
	start_line, end_line, chunk_type, scope_type, applicable_lines,
	suggested_scope, suggested_lines, is_external_ref, external_pointer,
	match_status, match_detail, review_status, notes, created_at, reviewed_at`

// Filters contains optional filtering criteria for clause queries.
// Empty fields are ignored. All fields use exact matching.
type Filters struct {
	ChunkType    string     `json:"chunk_type,omitempty"`
	ScopeType    string     `json:"scope_type,omitempty"`
	MatchStatus  string     `json:"match_status,omitempty"`
	ReviewStatus string     `json:"review_status,omitempty"`
	SectionID    *uuid.UUID `json:"section_id,omitempty"`
}

// FiltersFromQuery extracts filter values from URL query parameters. Values
// outside the closed enum sets are dropped rather than passed into SQL
// comparisons; scope_type is carried as-is since the taxonomy is
// configurable.
func FiltersFromQuery(values url.Values) Filters {
	f := Filters{
		ScopeType: values.Get("scope_type"),
	}

	if v := values.Get("chunk_type"); v != "" {
		if ct, ok := ParseChunkType(v); ok {
			f.ChunkType = string(ct)
		}
	}
	if v := values.Get("match_status"); v != "" {
		if ms, ok := library.ParseMatchStatus(v); ok {
			f.MatchStatus = string(ms)
		}
	}
	if v := values.Get("review_status"); v != "" {
		if rs, ok := ParseReviewStatus(v); ok {
			f.ReviewStatus = string(rs)
		}
	}

	if s := values.Get("section_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			f.SectionID = &id
		}
	}

	return f
}

// where builds filter conditions. The document filter binds $1; additional
// placeholders continue from there.
func (f Filters) where() (string, []any) {
	conds := []string{"document_id = $1"}
	args := []any{}

	next := func() int { return len(args) + 2 }

	if f.ChunkType != "" {
		conds = append(conds, fmt.Sprintf("chunk_type = $%d", next()))
		args = append(args, f.ChunkType)
	}
	if f.ScopeType != "" {
		conds = append(conds, fmt.Sprintf("scope_type = $%d", next()))
		args = append(args, f.ScopeType)
	}
	if f.MatchStatus != "" {
		conds = append(conds, fmt.Sprintf("match_status = $%d", next()))
		args = append(args, f.MatchStatus)
	}
	if f.ReviewStatus != "" {
		conds = append(conds, fmt.Sprintf("review_status = $%d", next()))
		args = append(args, f.ReviewStatus)
	}
	if f.SectionID != nil {
		conds = append(conds, fmt.Sprintf("section_id = $%d", next()))
		args = append(args, *f.SectionID)
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanClause(s repository.Scanner) (Clause, error) {
	var c Clause
	var applicableRaw, suggestedRaw []byte

	err := s.Scan(
		&c.ID,
		&c.DocumentID,
		&c.SectionID,
		&c.ClauseCode,
		&c.ClauseTitle,
		&c.Text,
		&c.StartLine,
		&c.EndLine,
		&c.ChunkType,
		&c.ScopeType,
		&applicableRaw,
		&c.SuggestedScope,
		&suggestedRaw,
		&c.IsExternalRef,
		&c.ExternalPointer,
		&c.MatchStatus,
		&c.MatchDetail,
		&c.ReviewStatus,
		&c.Notes,
		&c.CreatedAt,
		&c.ReviewedAt,
	)
	if err != nil {
		return c, err
	}

	if len(applicableRaw) > 0 {
		if err := json.Unmarshal(applicableRaw, &c.ApplicableLines); err != nil {
			return c, fmt.Errorf("unmarshal applicable_lines: %w", err)
		}
	}
	if c.ApplicableLines == nil {
		c.ApplicableLines = []int{}
	}

	if len(suggestedRaw) > 0 {
		if err := json.Unmarshal(suggestedRaw, &c.SuggestedLines); err != nil {
			return c, fmt.Errorf("unmarshal suggested_lines: %w", err)
		}
	}

	return c, nil
}

func marshalLines(lines []int) ([]byte, error) {
	if lines == nil {
		lines = []int{}
	}
	return json.Marshal(lines)
}

func scanSession(s repository.Scanner) (ReviewSession, error) {
	var rs ReviewSession
	err := s.Scan(
		&rs.DocumentID,
		&rs.ReviewedCount,
		&rs.FlaggedCount,
		&rs.UnreviewedCount,
		&rs.LastActivity,
	)
	return rs, err
}
