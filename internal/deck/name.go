package deck

import (
	"regexp"
	"strings"
	"unicode"
)

var deckExt = regexp.MustCompile(`(?i)\.(csv|xlsx)$`)

// GenerateName derives a display name from an imported file name:
// "world_capitals-2024.csv" becomes "World Capitals 2024".
func GenerateName(fileName string) string {
	base := deckExt.ReplaceAllString(fileName, "")
	base = strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return ' '
		}
		return r
	}, base)

	var b strings.Builder
	prevWord := false
	for _, r := range base {
		word := r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
		if word && !prevWord {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
		prevWord = word
	}
	return strings.TrimSpace(b.String())
}
