package models

import "strings"

// Solution is the normalized, internal form of a finance-fix entry.
//
// External data (the bundled solutions.json as well as user imports) is
// mapped into this structure first; everything downstream (search, grouping,
// export) works on this representation.
type Solution struct {
	ID             string   `json:"id"`                       // canonical ID (opaque string)
	Title          string   `json:"title"`                    // issue title, part of the dedupe key
	Module         string   `json:"module"`                   // categorical label, e.g. "AP", "GL"
	Severity       string   `json:"severity,omitempty"`       // optional severity label
	RootCause      TextList `json:"rootCause,omitempty"`      // root cause description
	PreChecks      TextList `json:"preChecks,omitempty"`      // checks before applying the fix
	Steps          TextList `json:"steps,omitempty"`          // fix steps
	PostValidation TextList `json:"postValidation,omitempty"` // validation after the fix
	Tags           []string `json:"tags,omitempty"`           // short labels, display order preserved
	LastUpdated    string   `json:"lastUpdated,omitempty"`    // timestamp string
	Links          []Link   `json:"links,omitempty"`          // reference links
}

type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// TextList is a content field that arrives either as a single string
// (possibly multi-line) or as an ordered list of strings.
type TextList []string

// Lines flattens the list into display lines: multi-line entries are split,
// bullet and number prefixes stripped, empty lines dropped.
func (t TextList) Lines() []string {
	var out []string
	for _, entry := range t {
		for _, line := range strings.Split(entry, "\n") {
			line = stripBullet(strings.TrimSpace(line))
			if line != "" {
				out = append(out, line)
			}
		}
	}
	return out
}

func stripBullet(line string) string {
	for _, prefix := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):])
		}
	}
	// numbered prefixes: "1. ", "12) "
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return strings.TrimSpace(line[i+1:])
	}
	return line
}
