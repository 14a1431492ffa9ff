package search

import (
	"strings"

	"fixhub/pkg/models"
)

// Haystack joins a record's searchable text into one space-separated string:
// title, module, the flattened content fields, then tags. Absent fields
// contribute nothing; adjacent fields never concatenate without a separator.
func Haystack(sol models.Solution) string {
	parts := make([]string, 0, 8)
	parts = appendPart(parts, sol.Title)
	parts = appendPart(parts, sol.Module)
	parts = appendList(parts, sol.RootCause)
	parts = appendList(parts, sol.PreChecks)
	parts = appendList(parts, sol.Steps)
	parts = appendList(parts, sol.PostValidation)
	for _, tag := range sol.Tags {
		parts = appendPart(parts, tag)
	}
	return strings.Join(parts, " ")
}

// Matches reports whether the record's haystack satisfies the matcher.
func Matches(sol models.Solution, m Matcher) bool {
	return m.Match(Haystack(sol))
}

func appendPart(parts []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		parts = append(parts, s)
	}
	return parts
}

func appendList(parts []string, list models.TextList) []string {
	for _, s := range list {
		parts = appendPart(parts, s)
	}
	return parts
}
