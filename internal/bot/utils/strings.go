package utils

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Snippet returns the first maxChars user-perceived characters of s.
// Grapheme clusters are never split, so emoji and combining marks stay intact.
func Snippet(s string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}

	var (
		b     strings.Builder
		count int
	)

	graphemes := uniseg.NewGraphemes(s)
	for graphemes.Next() {
		if count == maxChars {
			break
		}
		b.WriteString(graphemes.Str())
		count++
	}

	return b.String()
}

// FirstNonEmpty returns the first argument that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
