package clauses_test

import (
	"net/url"
	"testing"

	"github.com/clauseflow/clauseflow/internal/clauses"
)

func TestFiltersFromQueryValidation(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  clauses.Filters
	}{
		{
			"valid enum values pass through",
			"chunk_type=clause&match_status=mismatched&review_status=flagged",
			clauses.Filters{ChunkType: "clause", MatchStatus: "mismatched", ReviewStatus: "flagged"},
		},
		{
			"unknown enum values are dropped",
			"chunk_type=bogus&match_status=nope&review_status='%3B DROP TABLE clauses%3B --",
			clauses.Filters{},
		},
		{
			"scope_type is carried as-is",
			"scope_type=site_specific",
			clauses.Filters{ScopeType: "site_specific"},
		},
		{
			"malformed section_id is dropped",
			"section_id=not-a-uuid",
			clauses.Filters{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values, err := url.ParseQuery(tc.query)
			if err != nil {
				t.Fatalf("ParseQuery(%q) error: %v", tc.query, err)
			}

			got := clauses.FiltersFromQuery(values)
			if got.ChunkType != tc.want.ChunkType ||
				got.ScopeType != tc.want.ScopeType ||
				got.MatchStatus != tc.want.MatchStatus ||
				got.ReviewStatus != tc.want.ReviewStatus {
				t.Errorf("clauses.FiltersFromQuery(%q) = %+v, want %+v", tc.query, got, tc.want)
			}
			if got.SectionID != nil {
				t.Errorf("SectionID = %v, want nil", got.SectionID)
			}
		})
	}
}
