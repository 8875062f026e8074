package faq

import (
	"strings"
	"unicode"
)

// NormalizeQuestion lowercases the text, turns punctuation into spaces and collapses
// whitespace, giving a canonical key for statistics and token-based embedders.
func NormalizeQuestion(q string) string {
	lowered := strings.ToLower(strings.TrimSpace(q))
	var builder strings.Builder
	builder.Grow(len(lowered))
	lastSpace := true
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			builder.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.Join(strings.Fields(builder.String()), " ")
}
