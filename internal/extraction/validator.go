package extraction

import (
	"errors"
	"sort"
)

// DefaultMinGapLines is the smallest uncovered span between accepted
// references that is reported as a possible missed clause.
const DefaultMinGapLines = 10

// ErrNoValidReferences indicates an extraction in which every reference was
// structurally invalid. The document cannot proceed.
var ErrNoValidReferences = errors.New("extraction produced no valid clause references")

// Result holds the accepted references and the warnings raised while
// validating a single extraction.
type Result struct {
	Accepted []Reference
	Warnings []Warning
}

// Validate checks raw references against the document's line count.
//
// Structurally invalid references (start < 1, end > totalLines, start > end)
// are excluded and reported individually. Overlapping references are both
// retained and both reported: the model may legitimately nest sub-clauses, so
// overlap is a data-quality signal, not an error. Uncovered spans of at least
// minGap lines between accepted references are reported as possible missed
// clauses. The function is pure; identical input yields identical output.
func Validate(refs []RawReference, totalLines, minGap int) (*Result, error) {
	if minGap <= 0 {
		minGap = DefaultMinGapLines
	}

	warnings := make([]Warning, 0)
	accepted := make([]Reference, 0, len(refs))

	for _, raw := range refs {
		if reason := structuralIssue(raw, totalLines); reason != "" {
			warnings = append(warnings, warnf(
				WarnInvalidRange, raw.StartLine, raw.EndLine,
				"reference %s at lines %d-%d rejected: %s",
				label(raw.ClauseCode, raw.ClauseTitle), raw.StartLine, raw.EndLine, reason,
			))
			continue
		}

		accepted = append(accepted, Reference{
			StartLine:       raw.StartLine,
			EndLine:         raw.EndLine,
			ClauseCode:      raw.ClauseCode,
			ClauseTitle:     raw.ClauseTitle,
			ChunkType:       raw.ChunkType,
			ScopeHint:       raw.ScopeHint,
			ApplicableLines: raw.ApplicableLines,
			IsExternalRef:   raw.IsExternalRef,
			ExternalPointer: raw.ExternalPointer,
			Revision:        raw.Revision,
			EffectiveDate:   raw.EffectiveDate,
		})
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		if accepted[i].StartLine != accepted[j].StartLine {
			return accepted[i].StartLine < accepted[j].StartLine
		}
		return accepted[i].EndLine < accepted[j].EndLine
	})

	for i := 1; i < len(accepted); i++ {
		prev, cur := accepted[i-1], accepted[i]

		if cur.StartLine <= prev.EndLine {
			overlapEnd := min(prev.EndLine, cur.EndLine)
			warnings = append(warnings, warnf(
				WarnOverlap, cur.StartLine, overlapEnd,
				"%s (lines %d-%d) overlaps %s (lines %d-%d) on lines %d-%d",
				label(prev.ClauseCode, prev.ClauseTitle), prev.StartLine, prev.EndLine,
				label(cur.ClauseCode, cur.ClauseTitle), cur.StartLine, cur.EndLine,
				cur.StartLine, overlapEnd,
			))
			continue
		}

		if gap := cur.StartLine - prev.EndLine - 1; gap >= minGap {
			warnings = append(warnings, warnf(
				WarnGap, prev.EndLine+1, cur.StartLine-1,
				"%d uncovered lines between %s (ends line %d) and %s (starts line %d)",
				gap,
				label(prev.ClauseCode, prev.ClauseTitle), prev.EndLine,
				label(cur.ClauseCode, cur.ClauseTitle), cur.StartLine,
			))
		}
	}

	if len(accepted) == 0 {
		return nil, ErrNoValidReferences
	}

	return &Result{Accepted: accepted, Warnings: warnings}, nil
}

func structuralIssue(raw RawReference, totalLines int) string {
	switch {
	case raw.StartLine < 1:
		return "start_line below 1"
	case raw.EndLine > totalLines:
		return "end_line past end of document"
	case raw.StartLine > raw.EndLine:
		return "start_line after end_line"
	default:
		return ""
	}
}
