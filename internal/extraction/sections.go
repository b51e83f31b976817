package extraction

import "sort"

// Section is a validated, repaired section boundary from the segmentation pass.
type Section struct {
	StartLine      int
	EndLine        int
	SectionType    string
	SectionTitle   string
	SectionNumber  string
	LineItemNumber *int
	OrderIndex     int
}

const (
	// Section gaps and end misalignments up to this size are repaired by
	// extending the neighboring section.
	sectionRepairLimit = 5
	sectionGapFillMax  = 3
)

// ValidateSections sorts and repairs section boundaries from the segmentation
// pass. Small gaps are filled by extending the preceding section; overlaps
// are removed by shrinking it. Larger gaps are reported without repair.
// Structurally invalid sections are dropped. Unlike clause references,
// sections must end up non-overlapping: they partition the document for the
// per-section extraction pass.
func ValidateSections(raw []RawSection, totalLines int) ([]Section, []Warning) {
	warnings := make([]Warning, 0)
	sections := make([]Section, 0, len(raw))

	for _, rs := range raw {
		if rs.StartLine < 1 || rs.EndLine > totalLines || rs.StartLine > rs.EndLine {
			warnings = append(warnings, warnf(
				WarnInvalidRange, rs.StartLine, rs.EndLine,
				"section %q at lines %d-%d rejected: out of bounds",
				sectionLabel(rs), rs.StartLine, rs.EndLine,
			))
			continue
		}
		sections = append(sections, Section{
			StartLine:      rs.StartLine,
			EndLine:        rs.EndLine,
			SectionType:    rs.SectionType,
			SectionTitle:   rs.SectionTitle,
			SectionNumber:  rs.SectionNumber,
			LineItemNumber: rs.LineItemNumber,
		})
	}

	if len(sections) == 0 {
		return sections, warnings
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].StartLine < sections[j].StartLine
	})

	if first := sections[0].StartLine; first != 1 {
		if first-1 <= sectionRepairLimit {
			warnings = append(warnings, warnf(
				WarnSectionRepair, 1, first-1,
				"extended first section to start at line 1 (was %d)", first,
			))
			sections[0].StartLine = 1
		} else {
			warnings = append(warnings, warnf(
				WarnSectionGap, 1, first-1,
				"first section starts at line %d, expected line 1", first,
			))
		}
	}

	for i := 0; i < len(sections)-1; i++ {
		cur, next := &sections[i], &sections[i+1]

		if gap := next.StartLine - cur.EndLine - 1; gap > 0 {
			if gap <= sectionGapFillMax {
				warnings = append(warnings, warnf(
					WarnSectionRepair, cur.EndLine+1, next.StartLine-1,
					"extended section %q to line %d to fill %d-line gap",
					cur.SectionTitle, next.StartLine-1, gap,
				))
				cur.EndLine = next.StartLine - 1
			} else {
				warnings = append(warnings, warnf(
					WarnSectionGap, cur.EndLine+1, next.StartLine-1,
					"%d lines between section %q (ends line %d) and %q (starts line %d) belong to no section",
					gap, cur.SectionTitle, cur.EndLine, next.SectionTitle, next.StartLine,
				))
			}
		}

		if overlap := cur.EndLine - next.StartLine + 1; overlap > 0 {
			warnings = append(warnings, warnf(
				WarnSectionRepair, next.StartLine, cur.EndLine,
				"shrunk section %q to line %d to remove %d-line overlap",
				cur.SectionTitle, next.StartLine-1, overlap,
			))
			cur.EndLine = next.StartLine - 1
		}
	}

	if last := &sections[len(sections)-1]; last.EndLine != totalLines {
		diff := totalLines - last.EndLine
		if diff > 0 && diff <= sectionRepairLimit {
			warnings = append(warnings, warnf(
				WarnSectionRepair, last.EndLine+1, totalLines,
				"extended last section to end at line %d (was %d)", totalLines, last.EndLine,
			))
			last.EndLine = totalLines
		} else if diff > 0 {
			warnings = append(warnings, warnf(
				WarnSectionGap, last.EndLine+1, totalLines,
				"last section ends at line %d, document has %d lines", last.EndLine, totalLines,
			))
		}
	}

	// A shrink can empty a section that was fully contained in its successor.
	kept := sections[:0]
	for _, sec := range sections {
		if sec.EndLine < sec.StartLine {
			warnings = append(warnings, warnf(
				WarnSectionRepair, sec.StartLine, sec.EndLine,
				"dropped section %q emptied by overlap repair", sec.SectionTitle,
			))
			continue
		}
		kept = append(kept, sec)
	}
	sections = kept

	for i := range sections {
		sections[i].OrderIndex = i
	}

	return sections, warnings
}

func sectionLabel(rs RawSection) string {
	if rs.SectionTitle != "" {
		return rs.SectionTitle
	}
	return rs.SectionType
}
