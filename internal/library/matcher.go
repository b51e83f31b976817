package library

import (
	"context"
	"fmt"
	"strings"
)

// MatchStatus is the closed set of verification outcomes for a clause.
type MatchStatus string

const (
	StatusMatched         MatchStatus = "matched"
	StatusMismatched      MatchStatus = "mismatched"
	StatusNotFound        MatchStatus = "not_found"
	StatusExternalPending MatchStatus = "external_pending"
	StatusUnchecked       MatchStatus = "unchecked"
)

// ParseMatchStatus validates a match status label against the closed set.
func ParseMatchStatus(s string) (MatchStatus, bool) {
	switch MatchStatus(s) {
	case StatusMatched, StatusMismatched, StatusNotFound, StatusExternalPending, StatusUnchecked:
		return MatchStatus(s), true
	}
	return "", false
}

// MatchInput carries the clause fields the matcher compares. It is
// deliberately decoupled from the clause entity so the matcher stays a pure
// collaborator of the pipeline.
type MatchInput struct {
	ClauseCode    string
	Text          string
	Revision      string
	EffectiveDate string
	IsExternalRef bool
}

// MatchResult reports the verification outcome for one clause. Detail names
// exactly which fields disagreed when Status is mismatched.
type MatchResult struct {
	Status MatchStatus
	Entry  *Entry
	Detail string
}

// Source is the read-only view of the reference library the matcher consumes.
type Source interface {
	// FindByCode receives a code already normalized via NormalizeCode;
	// implementations compare it against normalized stored codes. An absent
	// entry is (nil, nil).
	FindByCode(ctx context.Context, code string) (*Entry, error)
	ListAll(ctx context.Context) ([]Entry, error)
}

// Matcher verifies clause text against the reference library. It never
// creates or updates library entries.
type Matcher struct {
	src Source
}

// NewMatcher creates a Matcher over the given library source.
func NewMatcher(src Source) *Matcher {
	return &Matcher{src: src}
}

// Match evaluates one clause against the library.
//
// External references always resolve to external_pending: their full text
// lives outside the document and cannot be normalized. Otherwise the entry is
// looked up by clause code (absent code falls back to normalized full-text
// search). When the entry carries versioning metadata, text, revision, and
// effective date must all agree for a match; the detail string names each
// disagreeing field. An entry without versioning metadata is decided on
// normalized text equality alone.
func (m *Matcher) Match(ctx context.Context, in MatchInput) (MatchResult, error) {
	if in.IsExternalRef {
		return MatchResult{Status: StatusExternalPending}, nil
	}

	if in.ClauseCode == "" {
		return m.matchByText(ctx, in)
	}

	entry, err := m.src.FindByCode(ctx, NormalizeCode(in.ClauseCode))
	if err != nil {
		return MatchResult{}, fmt.Errorf("library lookup %q: %w", in.ClauseCode, err)
	}
	if entry == nil {
		return MatchResult{Status: StatusNotFound}, nil
	}

	var mismatches []string

	if Normalize(in.Text) != Normalize(entry.Text) {
		mismatches = append(mismatches, "text: differs from library entry")
	}
	if entry.Revision != "" {
		if NormalizeRevision(in.Revision) != NormalizeRevision(entry.Revision) {
			mismatches = append(mismatches, fmt.Sprintf(
				"revision: library=%s, document=%s", entry.Revision, valueOrNone(in.Revision),
			))
		}
	}
	if entry.EffectiveDate != "" {
		if strings.TrimSpace(in.EffectiveDate) != strings.TrimSpace(entry.EffectiveDate) {
			mismatches = append(mismatches, fmt.Sprintf(
				"effective_date: library=%s, document=%s", entry.EffectiveDate, valueOrNone(in.EffectiveDate),
			))
		}
	}

	if len(mismatches) > 0 {
		return MatchResult{
			Status: StatusMismatched,
			Entry:  entry,
			Detail: strings.Join(mismatches, "; "),
		}, nil
	}

	return MatchResult{Status: StatusMatched, Entry: entry}, nil
}

func (m *Matcher) matchByText(ctx context.Context, in MatchInput) (MatchResult, error) {
	entries, err := m.src.ListAll(ctx)
	if err != nil {
		return MatchResult{}, fmt.Errorf("library list: %w", err)
	}

	normalized := Normalize(in.Text)
	for i := range entries {
		if Normalize(entries[i].Text) == normalized {
			return MatchResult{Status: StatusMatched, Entry: &entries[i]}, nil
		}
	}

	return MatchResult{Status: StatusNotFound}, nil
}

func valueOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
