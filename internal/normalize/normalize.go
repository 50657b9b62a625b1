// Package normalize canonicalizes catalog names and queries before matching.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFKD, drops combining marks (so "Beyoncé"
// matches "beyonce"), and recomposes.
var stripMarks = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Name lowercases, strips diacritics, and collapses runs of whitespace.
// Matching on both sides of the index happens in this normalized space.
func Name(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		// Transform only fails on malformed input; fall back to the raw text.
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
