package library_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/clauseflow/clauseflow/internal/library"
)

type fakeSource struct {
	entries []library.Entry
}

func (s *fakeSource) FindByCode(_ context.Context, code string) (*library.Entry, error) {
	for i := range s.entries {
		if library.NormalizeCode(s.entries[i].Code) == code {
			return &s.entries[i], nil
		}
	}
	return nil, nil
}

func (s *fakeSource) ListAll(_ context.Context) ([]library.Entry, error) {
	return s.entries, nil
}

func newFakeSource(entries ...library.Entry) *fakeSource {
	for i := range entries {
		if entries[i].ID == uuid.Nil {
			entries[i].ID = uuid.New()
		}
	}
	return &fakeSource{entries: entries}
}

func TestMatchCodeCitationFormatting(t *testing.T) {
	const text = "Seller shall maintain a quality system compliant with AS-9100."

	src := newFakeSource(
		library.Entry{Code: "Q-001", Text: text},
		library.Entry{Code: "AS-9100", Text: "Quality management systems for aviation, space, and defense."},
	)
	m := library.NewMatcher(src)

	tests := []struct {
		name string
		code string
		text string
	}{
		{"spaces for hyphens", "q 001", text},
		{"underscores for hyphens", "Q_001", text},
		{"separators dropped entirely", "AS9100", "Quality management systems for aviation, space, and defense."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := m.Match(context.Background(), library.MatchInput{
				ClauseCode: tc.code,
				Text:       tc.text,
			})
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}
			if result.Status != library.StatusMatched {
				t.Errorf("status = %q, want matched (detail: %s)", result.Status, result.Detail)
			}
		})
	}
}

func TestMatchPunctuationAndCaseDifferencesMatch(t *testing.T) {
	src := newFakeSource(library.Entry{
		Code: "Q-001",
		Text: "Seller shall maintain a quality system compliant with AS-9100.",
	})
	m := library.NewMatcher(src)

	result, err := m.Match(context.Background(), library.MatchInput{
		ClauseCode: "Q-001",
		Text:       "SELLER SHALL MAINTAIN A QUALITY SYSTEM COMPLIANT WITH AS-9100",
	})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	if result.Status != library.StatusMatched {
		t.Errorf("status = %q, want matched (detail: %s)", result.Status, result.Detail)
	}
	if result.Entry == nil || result.Entry.Code != "Q-001" {
		t.Error("matched result should carry the library entry")
	}
}

func TestMatchRevisionMismatch(t *testing.T) {
	// Document cites C003 at revision 2; library holds revision 1 of the same
	// text. Text matches, revision does not.
	src := newFakeSource(library.Entry{
		Code:          "C003",
		Text:          "Supplier shall flow down all requirements to sub-tier suppliers.",
		Revision:      "1",
		EffectiveDate: "2024-01-01",
	})
	m := library.NewMatcher(src)

	result, err := m.Match(context.Background(), library.MatchInput{
		ClauseCode:    "C003",
		Text:          "Supplier shall flow down all requirements to sub-tier suppliers.",
		Revision:      "2",
		EffectiveDate: "2024-01-01",
	})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	if result.Status != library.StatusMismatched {
		t.Fatalf("status = %q, want mismatched", result.Status)
	}
	if !strings.Contains(result.Detail, "revision") {
		t.Errorf("detail %q should name the revision field", result.Detail)
	}
	if !strings.Contains(result.Detail, "library=1") || !strings.Contains(result.Detail, "document=2") {
		t.Errorf("detail %q should carry both revision values", result.Detail)
	}
	if strings.Contains(result.Detail, "text") || strings.Contains(result.Detail, "effective_date") {
		t.Errorf("detail %q should only name disagreeing fields", result.Detail)
	}
}

func TestMatchRevisionWhitespaceInsensitive(t *testing.T) {
	src := newFakeSource(library.Entry{
		Code:     "C010",
		Text:     "Certificates of conformance required with each shipment.",
		Revision: "Rev  A ",
	})
	m := library.NewMatcher(src)

	result, err := m.Match(context.Background(), library.MatchInput{
		ClauseCode: "C010",
		Text:       "Certificates of conformance required with each shipment.",
		Revision:   "rev a",
	})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	if result.Status != library.StatusMatched {
		t.Errorf("status = %q, want matched (detail: %s)", result.Status, result.Detail)
	}
}

func TestMatchNotFound(t *testing.T) {
	m := library.NewMatcher(newFakeSource())

	result, err := m.Match(context.Background(), library.MatchInput{
		ClauseCode: "Z-999",
		Text:       "Some clause text.",
	})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	if result.Status != library.StatusNotFound {
		t.Errorf("status = %q, want not_found", result.Status)
	}
	if result.Entry != nil {
		t.Error("not_found result should carry no entry")
	}
}

func TestMatchExternalReference(t *testing.T) {
	// External references resolve before any lookup, even when the code exists.
	src := newFakeSource(library.Entry{Code: "D-100", Text: "Full drawing requirements."})
	m := library.NewMatcher(src)

	result, err := m.Match(context.Background(), library.MatchInput{
		ClauseCode:    "D-100",
		Text:          "See supplier portal for full requirements.",
		IsExternalRef: true,
	})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	if result.Status != library.StatusExternalPending {
		t.Errorf("status = %q, want external_pending", result.Status)
	}
}

func TestMatchEntryWithoutVersioning(t *testing.T) {
	// An entry carrying no revision or effective date is decided on text alone,
	// regardless of what the document cites.
	src := newFakeSource(library.Entry{
		Code: "C020",
		Text: "Packaging per best commercial practice.",
	})
	m := library.NewMatcher(src)

	result, err := m.Match(context.Background(), library.MatchInput{
		ClauseCode: "C020",
		Text:       "Packaging per best commercial practice",
		Revision:   "7",
	})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	if result.Status != library.StatusMatched {
		t.Errorf("status = %q, want matched (detail: %s)", result.Status, result.Detail)
	}
}

func TestMatchUncodedClauseByText(t *testing.T) {
	src := newFakeSource(
		library.Entry{Code: "C030", Text: "Right of entry for buyer and regulatory agencies."},
		library.Entry{Code: "C031", Text: "Record retention for ten years minimum."},
	)
	m := library.NewMatcher(src)

	result, err := m.Match(context.Background(), library.MatchInput{
		Text: "RIGHT OF ENTRY, for buyer (and regulatory agencies)!",
	})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}

	if result.Status != library.StatusMatched {
		t.Fatalf("status = %q, want matched by normalized text", result.Status)
	}
	if result.Entry == nil || result.Entry.Code != "C030" {
		t.Error("text match should resolve to the C030 entry")
	}

	miss, err := m.Match(context.Background(), library.MatchInput{
		Text: "Entirely novel clause text with no library counterpart.",
	})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if miss.Status != library.StatusNotFound {
		t.Errorf("status = %q, want not_found for unknown text", miss.Status)
	}
}
