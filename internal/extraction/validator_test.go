package extraction_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/clauseflow/clauseflow/internal/extraction"
)

func TestValidateStructural(t *testing.T) {
	tests := []struct {
		name string
		ref  extraction.RawReference
		want string
	}{
		{"start below one", extraction.RawReference{StartLine: 0, EndLine: 5, ChunkType: "clause"}, "start_line below 1"},
		{"end past document", extraction.RawReference{StartLine: 1, EndLine: 51, ChunkType: "clause"}, "end_line past end of document"},
		{"inverted range", extraction.RawReference{StartLine: 10, EndLine: 4, ChunkType: "clause"}, "start_line after end_line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs := []extraction.RawReference{
				tt.ref,
				{StartLine: 20, EndLine: 30, ChunkType: "clause"},
			}

			result, err := extraction.Validate(refs, 50, 0)
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}

			if len(result.Accepted) != 1 {
				t.Fatalf("accepted %d references, want 1", len(result.Accepted))
			}
			if len(result.Warnings) != 1 {
				t.Fatalf("got %d warnings, want 1", len(result.Warnings))
			}

			w := result.Warnings[0]
			if w.Kind != extraction.WarnInvalidRange {
				t.Errorf("warning kind = %q, want %q", w.Kind, extraction.WarnInvalidRange)
			}
			if !strings.Contains(w.Detail, tt.want) {
				t.Errorf("warning detail %q missing %q", w.Detail, tt.want)
			}
		})
	}
}

func TestValidateOverlap(t *testing.T) {
	// 50-line document with references 1-10 and 8-20: overlap on lines 8-10,
	// both references retained.
	refs := []extraction.RawReference{
		{StartLine: 1, EndLine: 10, ClauseCode: "1.1", ChunkType: "clause"},
		{StartLine: 8, EndLine: 20, ClauseCode: "1.2", ChunkType: "clause"},
	}

	result, err := extraction.Validate(refs, 50, 0)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if len(result.Accepted) != 2 {
		t.Fatalf("accepted %d references, want both retained", len(result.Accepted))
	}

	if len(result.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1 overlap warning", len(result.Warnings))
	}

	w := result.Warnings[0]
	if w.Kind != extraction.WarnOverlap {
		t.Errorf("warning kind = %q, want %q", w.Kind, extraction.WarnOverlap)
	}
	if w.StartLine != 8 || w.EndLine != 10 {
		t.Errorf("overlap span = %d-%d, want 8-10", w.StartLine, w.EndLine)
	}
	if !strings.Contains(w.Detail, "1-10") || !strings.Contains(w.Detail, "8-20") {
		t.Errorf("warning detail %q should name both line ranges", w.Detail)
	}
}

func TestValidateGaps(t *testing.T) {
	refs := []extraction.RawReference{
		{StartLine: 1, EndLine: 10, ChunkType: "clause"},
		{StartLine: 31, EndLine: 40, ChunkType: "clause"},
		{StartLine: 42, EndLine: 50, ChunkType: "clause"},
	}

	result, err := extraction.Validate(refs, 50, 10)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	// 20-line gap (11-30) reported; 1-line gap (41) below threshold.
	if len(result.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(result.Warnings))
	}

	w := result.Warnings[0]
	if w.Kind != extraction.WarnGap {
		t.Errorf("warning kind = %q, want %q", w.Kind, extraction.WarnGap)
	}
	if w.StartLine != 11 || w.EndLine != 30 {
		t.Errorf("gap span = %d-%d, want 11-30", w.StartLine, w.EndLine)
	}
}

func TestValidateDeterminism(t *testing.T) {
	refs := []extraction.RawReference{
		{StartLine: 30, EndLine: 45, ClauseCode: "3.1", ChunkType: "clause"},
		{StartLine: 1, EndLine: 12, ClauseCode: "1.1", ChunkType: "clause"},
		{StartLine: 10, EndLine: 25, ClauseCode: "2.1", ChunkType: "clause"},
		{StartLine: 0, EndLine: 4, ClauseCode: "0.1", ChunkType: "clause"},
	}

	first, err := extraction.Validate(refs, 50, 5)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	second, err := extraction.Validate(refs, 50, 5)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("identical input produced different results")
	}

	for i := 1; i < len(first.Accepted); i++ {
		if first.Accepted[i].StartLine < first.Accepted[i-1].StartLine {
			t.Error("accepted references are not sorted by start line")
		}
	}

	for _, ref := range first.Accepted {
		if ref.StartLine < 1 || ref.StartLine > ref.EndLine || ref.EndLine > 50 {
			t.Errorf("accepted reference %d-%d violates range invariant", ref.StartLine, ref.EndLine)
		}
	}
}

func TestValidateAllInvalid(t *testing.T) {
	refs := []extraction.RawReference{
		{StartLine: 0, EndLine: 5, ChunkType: "clause"},
		{StartLine: 60, EndLine: 70, ChunkType: "clause"},
	}

	_, err := extraction.Validate(refs, 50, 0)
	if !errors.Is(err, extraction.ErrNoValidReferences) {
		t.Errorf("Validate() error = %v, want ErrNoValidReferences", err)
	}
}

func TestValidateSections(t *testing.T) {
	t.Run("fills small gaps and removes overlaps", func(t *testing.T) {
		raw := []extraction.RawSection{
			{StartLine: 1, EndLine: 20, SectionType: "header", SectionTitle: "Header"},
			{StartLine: 23, EndLine: 60, SectionType: "terms_and_conditions", SectionTitle: "Section 1"},
			{StartLine: 55, EndLine: 100, SectionType: "terms_and_conditions", SectionTitle: "Section 2"},
		}

		sections, warnings := extraction.ValidateSections(raw, 100)

		if len(sections) != 3 {
			t.Fatalf("got %d sections, want 3", len(sections))
		}
		if sections[0].EndLine != 22 {
			t.Errorf("first section end = %d, want gap filled to 22", sections[0].EndLine)
		}
		if sections[1].EndLine != 54 {
			t.Errorf("second section end = %d, want shrunk to 54", sections[1].EndLine)
		}

		// Repaired boundaries must partition without overlap.
		for i := 1; i < len(sections); i++ {
			if sections[i].StartLine <= sections[i-1].EndLine {
				t.Errorf("sections %d and %d overlap after repair", i-1, i)
			}
		}

		if len(warnings) == 0 {
			t.Error("expected repair warnings")
		}
	})

	t.Run("reports large gaps without repair", func(t *testing.T) {
		raw := []extraction.RawSection{
			{StartLine: 1, EndLine: 20, SectionType: "header"},
			{StartLine: 41, EndLine: 100, SectionType: "terms_and_conditions"},
		}

		sections, warnings := extraction.ValidateSections(raw, 100)

		if sections[0].EndLine != 20 {
			t.Errorf("first section end = %d, want 20 (gap too large to fill)", sections[0].EndLine)
		}

		found := false
		for _, w := range warnings {
			if w.Kind == extraction.WarnSectionGap {
				found = true
			}
		}
		if !found {
			t.Error("expected a section_gap warning")
		}
	})

	t.Run("assigns order indexes", func(t *testing.T) {
		raw := []extraction.RawSection{
			{StartLine: 51, EndLine: 100, SectionType: "terms_and_conditions"},
			{StartLine: 1, EndLine: 50, SectionType: "header"},
		}

		sections, _ := extraction.ValidateSections(raw, 100)

		for i, sec := range sections {
			if sec.OrderIndex != i {
				t.Errorf("section %d has OrderIndex %d", i, sec.OrderIndex)
			}
		}
		if sections[0].SectionType != "header" {
			t.Error("sections not sorted by start line")
		}
	})
}
