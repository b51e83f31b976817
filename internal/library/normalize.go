package library

import (
	"strings"
	"unicode"
)

// Normalize prepares clause text for comparison: lowercase, punctuation
// stripped (internal hyphens retained), whitespace runs collapsed to a single
// space, leading and trailing whitespace removed. Idempotent:
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(s string) string {
	s = strings.ToLower(s)
	runes := []rune(s)

	var b strings.Builder
	b.Grow(len(s))

	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case r == '-' && i > 0 && i < len(runes)-1 &&
			isAlnum(runes[i-1]) && isAlnum(runes[i+1]):
			// Internal hyphens are semantic (spec identifiers like AS-9100).
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeCode prepares a clause code for library lookup: upper-case with
// spaces, hyphens, and underscores removed. "q 001", "Q-001", and "Q_001"
// all resolve to the same entry. Idempotent.
func NormalizeCode(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range strings.ToUpper(s) {
		switch {
		case unicode.IsSpace(r), r == '-', r == '_':
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// NormalizeRevision prepares a revision label for comparison.
func NormalizeRevision(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
