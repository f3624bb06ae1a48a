// Package match resolves human-typed film titles against known titles.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize prepares a film title for comparison: lowercase, accents
// folded, leading articles stripped per colon-separated part, punctuation
// reduced, whitespace collapsed.
func Normalize(title string) string {
	s := strings.ToLower(title)
	s = foldAccents(s)

	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "'", "")

	// Subtitled films ("Dune: Part Two") drop the article of each part.
	parts := strings.Split(s, ":")
	for i, part := range parts {
		parts[i] = stripArticle(strings.TrimSpace(part))
	}
	s = strings.Join(parts, " ")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

func stripArticle(s string) string {
	for _, article := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(s, article) {
			return strings.TrimPrefix(s, article)
		}
	}
	return s
}
