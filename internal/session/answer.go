package session

import "strings"

// Normalize lowercases s and drops every rune outside [a-z0-9], so case,
// punctuation and all whitespace are ignored.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CheckAnswer compares a submitted answer with the expected one after
// normalization.
func CheckAnswer(given, expected string) bool {
	return Normalize(given) == Normalize(expected)
}
