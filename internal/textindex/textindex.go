// Package textindex assigns stable 1-based line numbers to document text and
// resolves line ranges back to the literal source text. It is the only
// sanctioned source of clause text: downstream components reference lines,
// they never copy text returned by the extraction model.
package textindex

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyDocument indicates that indexing produced zero lines.
var ErrEmptyDocument = errors.New("document contains no lines")

// Indexed is a document with line numbers assigned. Lines holds the literal
// content of each physical line (Lines[i] is line i+1). NumberedText is the
// same content with a bracketed zero-padded line-number prefix on every line,
// a format that cannot occur at the start of contract source lines, so the
// extraction model can reference lines unambiguously.
type Indexed struct {
	NumberedText string
	Lines        []string
	TotalLines   int
}

// Index splits text into physical lines and produces the numbered rendition.
// The prefix width is fixed by the total line count so all prefixes align.
func Index(text string) (*Indexed, error) {
	if text == "" {
		return nil, ErrEmptyDocument
	}

	lines := strings.Split(text, "\n")
	total := len(lines)

	width := len(fmt.Sprintf("%d", total))

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%0*d] %s", width, i+1, line)
	}

	return &Indexed{
		NumberedText: b.String(),
		Lines:        lines,
		TotalLines:   total,
	}, nil
}

// TextForRange returns lines start..end (1-based, inclusive on both ends)
// joined by the original line separator. This reconstructs the literal source
// text byte for byte.
func (d *Indexed) TextForRange(start, end int) (string, error) {
	if start < 1 || end > d.TotalLines || start > end {
		return "", fmt.Errorf("invalid line range %d-%d (document has %d lines)", start, end, d.TotalLines)
	}
	return strings.Join(d.Lines[start-1:end], "\n"), nil
}

// NumberedRange returns the numbered rendition of lines start..end, preserving
// the original document's line numbers. Used to hand a section slice to the
// extraction model without any offset bookkeeping.
func (d *Indexed) NumberedRange(start, end int) (string, error) {
	if start < 1 || end > d.TotalLines || start > end {
		return "", fmt.Errorf("invalid line range %d-%d (document has %d lines)", start, end, d.TotalLines)
	}
	numbered := strings.Split(d.NumberedText, "\n")
	return strings.Join(numbered[start-1:end], "\n"), nil
}
