package util

import (
	"strings"
	"unicode"
)

// Slugify turns a product name into a URL-safe slug: lower-cased, spaces
// collapsed to single hyphens, everything outside [a-z0-9-] dropped.
func Slugify(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))

	var b strings.Builder
	lastHyphen := false
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r) && r < 128:
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
