package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackSlug is used when a name has no ASCII letters or digits
const fallbackSlug = "website"

// Slugify turns a business name into a lowercase, hyphen separated URL segment.
// Accents are stripped, apostrophes dropped and every other run of
// non-alphanumeric characters collapses into one hyphen.
func Slugify(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	pendingDash := false
	for _, r := range folded {
		switch {
		case r == '\'' || r == '’':
			continue
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}

	if b.Len() == 0 {
		return fallbackSlug
	}
	return b.String()
}
