// Package export renders the two fixed projections of a document's clause
// set: a structured grouping for programmatic consumers and a flat tabular
// form for spreadsheets. Both are computed on demand from the same clause
// rows and carry the same information.
package export

import (
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/clauseflow/clauseflow/internal/clauses"
	"github.com/clauseflow/clauseflow/internal/lineitems"
)

// Meta carries the document fields stamped onto both export forms.
type Meta struct {
	DocumentID uuid.UUID `json:"document_id"`
	Filename   string    `json:"filename"`
	PONumber   string    `json:"po_number,omitempty"`
	Customer   string    `json:"customer,omitempty"`
}

// Record is one clause flattened for export.
type Record struct {
	ClauseCode      string `json:"clause_code,omitempty"`
	ClauseTitle     string `json:"clause_title,omitempty"`
	Text            string `json:"text"`
	StartLine       int    `json:"start_line"`
	EndLine         int    `json:"end_line"`
	ChunkType       string `json:"chunk_type"`
	ScopeType       string `json:"scope_type"`
	ApplicableLines []int  `json:"applicable_lines"`
	IsExternalRef   bool   `json:"is_external_ref"`
	ExternalPointer string `json:"external_pointer,omitempty"`
	MatchStatus     string `json:"match_status"`
	MatchDetail     string `json:"match_detail,omitempty"`
	ReviewStatus    string `json:"review_status"`
	Notes           string `json:"notes,omitempty"`
}

// LineGroup is the set of line-specific records sharing a clause code, with
// the union of their applicable line numbers.
type LineGroup struct {
	ClauseCode  string   `json:"clause_code"`
	ClauseTitle string   `json:"clause_title,omitempty"`
	Lines       []int    `json:"lines"`
	Records     []Record `json:"records"`
}

// LineCoverage reports whether a purchase order line item has at least one
// clause assigned to it.
type LineCoverage struct {
	LineNumber  int    `json:"line_number"`
	PartNumber  string `json:"part_number,omitempty"`
	ClauseCount int    `json:"clause_count"`
	Covered     bool   `json:"covered"`
}

// Summary is the verification rollup included in the structured form.
type Summary struct {
	ByMatch      map[string]int `json:"by_match"`
	ByScope      map[string]int `json:"by_scope"`
	LineCoverage []LineCoverage `json:"line_coverage"`
}

// Structured is the grouped export form.
type Structured struct {
	Meta
	GeneratedAt  time.Time   `json:"generated_at"`
	POWide       []Record    `json:"po_wide"`
	LineSpecific []LineGroup `json:"line_specific"`
	Other        []Record    `json:"other"`
	Summary      Summary     `json:"summary"`
}

// BuildStructured computes the structured export from a document's clause
// set and line items. Within each grouping, records keep document order.
func BuildStructured(meta Meta, cls []clauses.Clause, items []lineitems.LineItem) Structured {
	out := Structured{
		Meta:         meta,
		GeneratedAt:  time.Now().UTC(),
		POWide:       []Record{},
		LineSpecific: []LineGroup{},
		Other:        []Record{},
		Summary: Summary{
			ByMatch:      map[string]int{},
			ByScope:      map[string]int{},
			LineCoverage: []LineCoverage{},
		},
	}

	groups := map[string]*LineGroup{}
	var groupOrder []string
	perLine := map[int]int{}

	for _, c := range cls {
		rec := toRecord(c)
		out.Summary.ByMatch[rec.MatchStatus]++
		out.Summary.ByScope[rec.ScopeType]++

		switch c.ScopeType {
		case clauses.ScopePOWide:
			out.POWide = append(out.POWide, rec)
		case clauses.ScopeLineSpecific:
			key := groupKey(rec)
			g, ok := groups[key]
			if !ok {
				g = &LineGroup{ClauseCode: rec.ClauseCode, ClauseTitle: rec.ClauseTitle}
				groups[key] = g
				groupOrder = append(groupOrder, key)
			}
			g.Lines = append(g.Lines, rec.ApplicableLines...)
			g.Records = append(g.Records, rec)

			for _, n := range rec.ApplicableLines {
				perLine[n]++
			}
		default:
			out.Other = append(out.Other, rec)
		}
	}

	for _, key := range groupOrder {
		g := groups[key]
		g.Lines = dedupe(g.Lines)
		out.LineSpecific = append(out.LineSpecific, *g)
	}

	for _, item := range items {
		count := perLine[item.LineNumber]
		out.Summary.LineCoverage = append(out.Summary.LineCoverage, LineCoverage{
			LineNumber:  item.LineNumber,
			PartNumber:  item.PartNumber,
			ClauseCount: count,
			Covered:     count > 0,
		})
	}

	return out
}

func toRecord(c clauses.Clause) Record {
	lines := c.ApplicableLines
	if lines == nil {
		lines = []int{}
	}

	return Record{
		ClauseCode:      c.ClauseCode,
		ClauseTitle:     c.ClauseTitle,
		Text:            c.Text,
		StartLine:       c.StartLine,
		EndLine:         c.EndLine,
		ChunkType:       string(c.ChunkType),
		ScopeType:       string(c.ScopeType),
		ApplicableLines: dedupe(lines),
		IsExternalRef:   c.IsExternalRef,
		ExternalPointer: c.ExternalPointer,
		MatchStatus:     string(c.MatchStatus),
		MatchDetail:     c.MatchDetail,
		ReviewStatus:    string(c.ReviewStatus),
		Notes:           c.Notes,
	}
}

// groupKey distinguishes coded groups from uncoded clauses, which group by
// their line position so unrelated uncoded clauses never merge.
func groupKey(r Record) string {
	if r.ClauseCode != "" {
		return r.ClauseCode
	}
	return "@" + strconv.Itoa(r.StartLine)
}

func dedupe(lines []int) []int {
	if len(lines) == 0 {
		return []int{}
	}

	seen := make(map[int]struct{}, len(lines))
	out := make([]int, 0, len(lines))
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
