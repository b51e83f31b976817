package clauses

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/clauseflow/clauseflow/internal/extraction"
	"github.com/clauseflow/clauseflow/internal/library"
	"github.com/clauseflow/clauseflow/internal/textindex"
)

// SectionSpan is the slice of section state the assembler needs to associate
// and scope clauses. The pipeline maps persisted sections into spans so the
// assembler stays decoupled from the section repository.
type SectionSpan struct {
	ID             uuid.UUID
	StartLine      int
	EndLine        int
	SectionType    string
	LineItemNumber *int
}

// Assemble builds clauses from validated references. Clause text comes only
// from the line index, byte-for-byte; nothing the chunking model returned as
// text is ever stored. Each clause is associated to the section whose range
// contains its start line, when one exists.
//
// Scope resolution follows a strict precedence: a clause inside a line-item
// section carries a structural assignment and is scoped line_specific to that
// item immediately. Anything else starts unset, with the model's scope hint
// (or a hint derived from the section type) recorded as an unconfirmed
// suggestion for the reviewer.
func Assemble(
	documentID uuid.UUID,
	refs []extraction.Reference,
	idx *textindex.Indexed,
	spans []SectionSpan,
) ([]Clause, []extraction.Warning, error) {
	if len(refs) == 0 {
		return nil, nil, ErrEmptyBatch
	}

	warnings := make([]extraction.Warning, 0)
	clauses := make([]Clause, 0, len(refs))
	now := time.Now().UTC()

	for _, ref := range refs {
		text, err := idx.TextForRange(ref.StartLine, ref.EndLine)
		if err != nil {
			return nil, nil, err
		}

		chunk, ok := ParseChunkType(ref.ChunkType)
		if !ok {
			warnings = append(warnings, extraction.Warning{
				Kind:      extraction.WarnUnknownChunkType,
				Detail:    fmt.Sprintf("unknown chunk type %q, defaulted to clause", ref.ChunkType),
				StartLine: ref.StartLine,
				EndLine:   ref.EndLine,
			})
			chunk = ChunkClause
		}

		span := containing(spans, ref.StartLine)

		c := Clause{
			ID:              uuid.New(),
			DocumentID:      documentID,
			ClauseCode:      ref.ClauseCode,
			ClauseTitle:     ref.ClauseTitle,
			Text:            text,
			StartLine:       ref.StartLine,
			EndLine:         ref.EndLine,
			ChunkType:       chunk,
			ScopeType:       ScopeUnset,
			ApplicableLines: []int{},
			IsExternalRef:   ref.IsExternalRef,
			ExternalPointer: ref.ExternalPointer,
			MatchStatus:     library.StatusUnchecked,
			ReviewStatus:    ReviewUnreviewed,
			CreatedAt:       now,
		}

		if span != nil {
			id := span.ID
			c.SectionID = &id
		}

		classifyScope(&c, ref, span)
		clauses = append(clauses, c)
	}

	return clauses, warnings, nil
}

// classifyScope applies the precedence rule from the assembly pass. The
// structural case writes scope directly; everything else only records a
// suggestion.
func classifyScope(c *Clause, ref extraction.Reference, span *SectionSpan) {
	if span != nil && span.SectionType == "line_item" && span.LineItemNumber != nil {
		c.ScopeType = ScopeLineSpecific
		c.ApplicableLines = []int{*span.LineItemNumber}
		return
	}

	switch ScopeType(ref.ScopeHint) {
	case ScopePOWide:
		c.SuggestedScope = ScopePOWide
	case ScopeLineSpecific:
		c.SuggestedScope = ScopeLineSpecific
		c.SuggestedLines = normalizeLines(ref.ApplicableLines)
	default:
		if span != nil && span.SectionType == "terms_and_conditions" {
			c.SuggestedScope = ScopePOWide
		}
	}
}

func containing(spans []SectionSpan, line int) *SectionSpan {
	for i := range spans {
		if line >= spans[i].StartLine && line <= spans[i].EndLine {
			return &spans[i]
		}
	}
	return nil
}

// normalizeLines sorts and de-duplicates line-item numbers.
func normalizeLines(lines []int) []int {
	if len(lines) == 0 {
		return nil
	}

	out := make([]int, 0, len(lines))
	seen := make(map[int]struct{}, len(lines))
	for _, n := range lines {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}

	sort.Ints(out)
	return out
}
