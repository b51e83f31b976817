package textindex_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/clauseflow/clauseflow/internal/textindex"
)

func TestIndex(t *testing.T) {
	t.Run("assigns 1-based numbers with fixed width", func(t *testing.T) {
		lines := make([]string, 12)
		for i := range lines {
			lines[i] = "line"
		}

		doc, err := textindex.Index(strings.Join(lines, "\n"))
		if err != nil {
			t.Fatalf("Index() error = %v", err)
		}

		if doc.TotalLines != 12 {
			t.Errorf("TotalLines = %d, want 12", doc.TotalLines)
		}

		numbered := strings.Split(doc.NumberedText, "\n")
		if numbered[0] != "[01] line" {
			t.Errorf("first numbered line = %q, want %q", numbered[0], "[01] line")
		}
		if numbered[11] != "[12] line" {
			t.Errorf("last numbered line = %q, want %q", numbered[11], "[12] line")
		}
	})

	t.Run("preserves literal line content", func(t *testing.T) {
		text := "first\n  indented\t\n\nlast"
		doc, err := textindex.Index(text)
		if err != nil {
			t.Fatalf("Index() error = %v", err)
		}

		want := []string{"first", "  indented\t", "", "last"}
		for i, w := range want {
			if doc.Lines[i] != w {
				t.Errorf("Lines[%d] = %q, want %q", i, doc.Lines[i], w)
			}
		}
	})

	t.Run("empty document fails", func(t *testing.T) {
		_, err := textindex.Index("")
		if !errors.Is(err, textindex.ErrEmptyDocument) {
			t.Errorf("Index(\"\") error = %v, want ErrEmptyDocument", err)
		}
	})
}

func TestTextForRange(t *testing.T) {
	text := "alpha\nbravo\ncharlie\ndelta\necho"
	doc, err := textindex.Index(text)
	if err != nil {
		t.Fatalf("Index() error = %v", err)
	}

	t.Run("round-trips any valid range", func(t *testing.T) {
		lines := strings.Split(text, "\n")
		for start := 1; start <= doc.TotalLines; start++ {
			for end := start; end <= doc.TotalLines; end++ {
				got, err := doc.TextForRange(start, end)
				if err != nil {
					t.Fatalf("TextForRange(%d, %d) error = %v", start, end, err)
				}
				want := strings.Join(lines[start-1:end], "\n")
				if got != want {
					t.Errorf("TextForRange(%d, %d) = %q, want %q", start, end, got, want)
				}
			}
		}
	})

	t.Run("full range reconstructs the document", func(t *testing.T) {
		got, err := doc.TextForRange(1, doc.TotalLines)
		if err != nil {
			t.Fatalf("TextForRange() error = %v", err)
		}
		if got != text {
			t.Errorf("full range = %q, want original text", got)
		}
	})

	t.Run("rejects invalid ranges", func(t *testing.T) {
		tests := []struct {
			name       string
			start, end int
		}{
			{"start below one", 0, 3},
			{"end past document", 2, 6},
			{"start after end", 4, 2},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := doc.TextForRange(tt.start, tt.end); err == nil {
					t.Errorf("TextForRange(%d, %d) expected error", tt.start, tt.end)
				}
			})
		}
	})
}

func TestNumberedRange(t *testing.T) {
	doc, err := textindex.Index("one\ntwo\nthree")
	if err != nil {
		t.Fatalf("Index() error = %v", err)
	}

	got, err := doc.NumberedRange(2, 3)
	if err != nil {
		t.Fatalf("NumberedRange() error = %v", err)
	}

	want := "[2] two\n[3] three"
	if got != want {
		t.Errorf("NumberedRange(2, 3) = %q, want %q", got, want)
	}
}
