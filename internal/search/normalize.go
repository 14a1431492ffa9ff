// Package search implements the query side of the catalog: text
// normalization, query compilation (substring and SQL-style wildcard
// matching) and haystack construction for solution records.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases s and strips combining diacritical marks so that
// accented and unaccented variants compare equal ("Café" == "cafe").
// Idempotent; empty input stays empty.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	// NFD decomposition, drop combining marks, recompose. The chain carries
	// state, so build it per call rather than sharing one transformer.
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(chain, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
