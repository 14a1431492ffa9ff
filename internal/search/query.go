package search

import (
	"regexp"
	"strings"
)

// Matcher is a compiled predicate over a record's haystack.
type Matcher interface {
	Match(haystack string) bool
}

// Compile turns a user search string into a Matcher.
//
// Without wildcard markers the query is a case/diacritic-insensitive
// substring test. With `%` (any run of characters) or `_` (exactly one
// character) anywhere in the query it becomes an unanchored pattern search,
// with every other regexp metacharacter treated literally. Empty or
// whitespace-only queries match everything.
func Compile(query string) Matcher {
	q := strings.TrimSpace(query)
	if q == "" {
		return matchAll{}
	}
	if !strings.ContainsAny(q, "%_") {
		return substringMatcher{needle: Normalize(q)}
	}

	// Normalize first: the wildcard markers are ASCII and survive it, the
	// literals end up in the same form as the haystack.
	q = Normalize(q)

	var b strings.Builder
	// (?s) so `_` and `%` cross line breaks inside multi-line content.
	b.WriteString("(?s)")
	for _, r := range q {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			// escape before substitution, so `.` `(` `)` etc. stay literal
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	re, err := regexp.Compile(b.String())
	if err != nil {
		// QuoteMeta makes this unreachable in practice; degrade to substring
		return substringMatcher{needle: Normalize(query)}
	}
	return patternMatcher{re: re}
}

type matchAll struct{}

func (matchAll) Match(string) bool { return true }

type substringMatcher struct {
	needle string
}

func (m substringMatcher) Match(haystack string) bool {
	return strings.Contains(Normalize(haystack), m.needle)
}

type patternMatcher struct {
	re *regexp.Regexp
}

func (m patternMatcher) Match(haystack string) bool {
	return m.re.MatchString(Normalize(haystack))
}
