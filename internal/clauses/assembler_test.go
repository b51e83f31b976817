package clauses_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/clauseflow/clauseflow/internal/clauses"
	"github.com/clauseflow/clauseflow/internal/extraction"
	"github.com/clauseflow/clauseflow/internal/library"
	"github.com/clauseflow/clauseflow/internal/textindex"
)

func indexLines(t *testing.T, n int) *textindex.Indexed {
	t.Helper()

	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d content", i+1)
	}

	idx, err := textindex.Index(strings.Join(lines, "\n"))
	if err != nil {
		t.Fatalf("Index() error = %v", err)
	}
	return idx
}

func TestAssembleTextFidelity(t *testing.T) {
	idx := indexLines(t, 20)
	docID := uuid.New()

	refs := []extraction.Reference{
		{StartLine: 3, EndLine: 5, ClauseCode: "Q-001", ClauseTitle: "Quality", ChunkType: "clause"},
	}

	batch, warnings, err := clauses.Assemble(docID, refs, idx, nil)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("got %d warnings, want none", len(warnings))
	}
	if len(batch) != 1 {
		t.Fatalf("got %d clauses, want 1", len(batch))
	}

	c := batch[0]
	want := "line 3 content\nline 4 content\nline 5 content"
	if c.Text != want {
		t.Errorf("clause text = %q, want literal source lines %q", c.Text, want)
	}
	if c.ClauseCode != "Q-001" || c.ClauseTitle != "Quality" {
		t.Error("clause code and title should copy through")
	}
	if c.MatchStatus != library.StatusUnchecked {
		t.Errorf("initial match status = %q, want unchecked", c.MatchStatus)
	}
	if c.ReviewStatus != clauses.ReviewUnreviewed {
		t.Errorf("initial review status = %q, want unreviewed", c.ReviewStatus)
	}
}

func TestAssembleUnknownChunkTypeDefaults(t *testing.T) {
	idx := indexLines(t, 10)

	refs := []extraction.Reference{
		{StartLine: 1, EndLine: 2, ChunkType: "prose_fragment"},
	}

	batch, warnings, err := clauses.Assemble(uuid.New(), refs, idx, nil)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if batch[0].ChunkType != clauses.ChunkClause {
		t.Errorf("chunk type = %q, want defaulted to clause", batch[0].ChunkType)
	}

	if len(warnings) != 1 || warnings[0].Kind != extraction.WarnUnknownChunkType {
		t.Fatalf("expected one unknown_chunk_type warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0].Detail, "prose_fragment") {
		t.Errorf("warning detail %q should name the rejected label", warnings[0].Detail)
	}
}

func TestAssembleSectionAssociation(t *testing.T) {
	idx := indexLines(t, 30)
	secA, secB := uuid.New(), uuid.New()

	spans := []clauses.SectionSpan{
		{ID: secA, StartLine: 1, EndLine: 10, SectionType: "header"},
		{ID: secB, StartLine: 11, EndLine: 25, SectionType: "terms_and_conditions"},
	}

	refs := []extraction.Reference{
		{StartLine: 5, EndLine: 8, ChunkType: "administrative"},
		{StartLine: 12, EndLine: 20, ChunkType: "clause"},
		{StartLine: 27, EndLine: 30, ChunkType: "clause"},
	}

	batch, _, err := clauses.Assemble(uuid.New(), refs, idx, spans)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if batch[0].SectionID == nil || *batch[0].SectionID != secA {
		t.Error("clause starting at line 5 should associate with the first section")
	}
	if batch[1].SectionID == nil || *batch[1].SectionID != secB {
		t.Error("clause starting at line 12 should associate with the second section")
	}
	if batch[2].SectionID != nil {
		t.Error("clause outside every section should remain unsectioned")
	}
}

func TestAssembleScopePrecedence(t *testing.T) {
	idx := indexLines(t, 40)
	item := 2

	spans := []clauses.SectionSpan{
		{ID: uuid.New(), StartLine: 1, EndLine: 10, SectionType: "line_item", LineItemNumber: &item},
		{ID: uuid.New(), StartLine: 11, EndLine: 30, SectionType: "terms_and_conditions"},
	}

	refs := []extraction.Reference{
		// Structural assignment: inside a line-item section. The model's
		// contrary hint must be ignored.
		{StartLine: 2, EndLine: 6, ChunkType: "clause", ScopeHint: "po_wide"},
		// Hinted only: stays unset until the reviewer confirms.
		{StartLine: 12, EndLine: 18, ChunkType: "clause", ScopeHint: "line_specific", ApplicableLines: []int{3, 1, 3}},
		// No hint inside terms: section type suggests po_wide.
		{StartLine: 20, EndLine: 25, ChunkType: "clause"},
	}

	batch, _, err := clauses.Assemble(uuid.New(), refs, idx, spans)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	structural := batch[0]
	if structural.ScopeType != clauses.ScopeLineSpecific {
		t.Errorf("structural scope = %q, want line_specific", structural.ScopeType)
	}
	if len(structural.ApplicableLines) != 1 || structural.ApplicableLines[0] != item {
		t.Errorf("structural applicable lines = %v, want [%d]", structural.ApplicableLines, item)
	}

	hinted := batch[1]
	if hinted.ScopeType != clauses.ScopeUnset {
		t.Errorf("hinted scope = %q, want unset pending confirmation", hinted.ScopeType)
	}
	if hinted.SuggestedScope != clauses.ScopeLineSpecific {
		t.Errorf("suggested scope = %q, want line_specific", hinted.SuggestedScope)
	}
	if want := []int{1, 3}; len(hinted.SuggestedLines) != 2 || hinted.SuggestedLines[0] != want[0] || hinted.SuggestedLines[1] != want[1] {
		t.Errorf("suggested lines = %v, want sorted de-duplicated %v", hinted.SuggestedLines, want)
	}

	sectionHinted := batch[2]
	if sectionHinted.ScopeType != clauses.ScopeUnset || sectionHinted.SuggestedScope != clauses.ScopePOWide {
		t.Errorf("terms clause scope = %q/%q, want unset with po_wide suggestion",
			sectionHinted.ScopeType, sectionHinted.SuggestedScope)
	}
}

func TestAssembleEmptyBatch(t *testing.T) {
	idx := indexLines(t, 5)

	if _, _, err := clauses.Assemble(uuid.New(), nil, idx, nil); err != clauses.ErrEmptyBatch {
		t.Errorf("Assemble() error = %v, want ErrEmptyBatch", err)
	}
}
