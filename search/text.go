package search

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var repeatedSpaceRegex = regexp.MustCompile(`\s+`)

// Fold normalises text for matching: lowercased, diacritics stripped and
// runs of whitespace collapsed to single spaces. Matching is therefore both
// case-insensitive and diacritic-insensitive ("José" matches "jose").
func Fold(s string) string {
	folder := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)

	if folded, _, err := transform.String(folder, s); err == nil {
		s = folded
	}

	s = strings.ToLower(s)
	s = repeatedSpaceRegex.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}

// Tokenize splits folded text into lowercase word tokens.
func Tokenize(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// unescapeAndFold undoes HTML entity escaping before folding so sanitised
// user text compares cleanly against plain queries.
func unescapeAndFold(s string) string {
	return Fold(html.UnescapeString(s))
}
