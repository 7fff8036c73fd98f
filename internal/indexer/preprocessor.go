package indexer

import (
	"strings"
	"unicode"
)

// Preprocess normalizes names and captions for storage (trim, collapse whitespace,
// drop control characters).
func Preprocess(text string) string {
	text = strings.TrimSpace(text)
	var b strings.Builder
	wasSpace := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			if !wasSpace {
				b.WriteRune(' ')
				wasSpace = true
			}
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
			wasSpace = false
		}
	}
	return b.String()
}
