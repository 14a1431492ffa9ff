package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotArray is returned when imported content decodes fine but the
// top-level value is not a JSON array.
var ErrNotArray = errors.New("top-level JSON value is not an array")

// DecodeList decodes a JSON array of solution records, accepting the union
// of canonical and legacy field names (issue/cause/checks/resolution/
// validation/updated/references). Elements that are not JSON objects are
// skipped and counted instead of failing the whole batch. Decoded records
// may still lack an id or timestamp; the caller assigns those.
func DecodeList(data []byte) ([]Solution, int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, 0, ErrNotArray
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		if trimmed[0] != '[' {
			return nil, 0, ErrNotArray
		}
		return nil, 0, fmt.Errorf("decode array: %w", err)
	}

	out := make([]Solution, 0, len(elems))
	skipped := 0
	for _, raw := range elems {
		var w wireSolution
		if err := json.Unmarshal(raw, &w); err != nil {
			skipped++
			continue
		}
		out = append(out, w.coalesce())
	}
	return out, skipped, nil
}

// MarshalPretty renders records in the catalog's canonical on-disk form:
// a JSON array, 2-space indent.
func MarshalPretty(records []Solution) ([]byte, error) {
	return json.MarshalIndent(records, "", "  ")
}

// SplitTags turns a comma-separated tag string into a clean list.
func SplitTags(s string) []string {
	var out []string
	for _, piece := range strings.Split(s, ",") {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

// SplitLines turns newline-separated form input into a clean list.
func SplitLines(s string) TextList {
	var out TextList
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// wireSolution is the tolerant wire shape: every known alias of every field,
// with flexible scalar/list decoding per field.
type wireSolution struct {
	ID             flexID   `json:"id"`
	Title          string   `json:"title"`
	Issue          string   `json:"issue"` // legacy
	Module         string   `json:"module"`
	Severity       string   `json:"severity"`
	RootCause      TextList `json:"rootCause"`
	Cause          TextList `json:"cause"` // legacy
	PreChecks      TextList `json:"preChecks"`
	Checks         TextList `json:"checks"` // legacy
	Steps          TextList `json:"steps"`
	Resolution     TextList `json:"resolution"` // legacy
	PostValidation TextList `json:"postValidation"`
	Validation     TextList `json:"validation"` // legacy
	Tags           tagList  `json:"tags"`
	LastUpdated    string   `json:"lastUpdated"`
	Updated        string   `json:"updated"` // legacy
	Links          linkList `json:"links"`
	References     linkList `json:"references"` // legacy
}

func (w wireSolution) coalesce() Solution {
	title := strings.TrimSpace(firstNonEmpty(w.Title, w.Issue))
	if title == "" {
		title = "Untitled"
	}
	module := strings.TrimSpace(w.Module)
	if module == "" {
		module = "General"
	}

	return Solution{
		ID:             string(w.ID),
		Title:          title,
		Module:         module,
		Severity:       strings.TrimSpace(w.Severity),
		RootCause:      firstText(w.RootCause, w.Cause),
		PreChecks:      firstText(w.PreChecks, w.Checks),
		Steps:          firstText(w.Steps, w.Resolution),
		PostValidation: firstText(w.PostValidation, w.Validation),
		Tags:           w.Tags,
		LastUpdated:    strings.TrimSpace(firstNonEmpty(w.LastUpdated, w.Updated)),
		Links:          firstLinks(w.Links, w.References),
	}
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

func firstText(a, b TextList) TextList {
	if len(a) > 0 {
		return a
	}
	return b
}

func firstLinks(a, b linkList) []Link {
	if len(a) > 0 {
		return a
	}
	return b
}

// UnmarshalJSON accepts a single string or a list of strings; non-string
// and empty entries are dropped.
func (t *TextList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*t = nil
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*t = nil
		} else {
			*t = TextList{s}
		}
		return nil
	}

	if data[0] != '[' {
		// any other shape degrades to "not shown"
		*t = nil
		return nil
	}
	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(TextList, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		out = nil
	}
	*t = out
	return nil
}

// flexID accepts a string or numeric id and normalizes it to a string.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		// unusable id, let the caller generate one
		*f = ""
		return nil
	}
	*f = flexID(n.String())
	return nil
}

// tagList accepts a list of tags or a comma-separated string.
type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*t = nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = SplitTags(s)
	case data[0] == '[':
		var items []any
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make(tagList, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				s = strings.TrimSpace(s)
				if s != "" {
					out = append(out, s)
				}
			}
		}
		if len(out) == 0 {
			out = nil
		}
		*t = out
	default:
		// any other shape degrades to "no tags"
		*t = nil
	}
	return nil
}

// linkList degrades to empty on any malformed value instead of failing the
// record.
type linkList []Link

func (l *linkList) UnmarshalJSON(data []byte) error {
	var links []Link
	if err := json.Unmarshal(data, &links); err != nil {
		*l = nil
		return nil
	}
	out := make(linkList, 0, len(links))
	for _, link := range links {
		if strings.TrimSpace(link.Label) == "" && strings.TrimSpace(link.URL) == "" {
			continue
		}
		out = append(out, link)
	}
	if len(out) == 0 {
		out = nil
	}
	*l = out
	return nil
}
