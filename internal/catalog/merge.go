package catalog

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"fixhub/pkg/models"
)

// CanonicalKey is the soft uniqueness key for duplicate detection:
// lower-cased `title + " " + module` with every run of non-alphanumeric
// characters collapsed to a single space and outer whitespace trimmed.
func CanonicalKey(title, module string) string {
	raw := strings.ToLower(title + " " + module)
	var b strings.Builder
	pendingSpace := false
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		} else {
			pendingSpace = true
		}
	}
	return b.String()
}

// NewID returns a fresh collision-resistant record id.
func NewID() string {
	return uuid.NewString()
}

type MergeResult struct {
	Merged    []models.Solution
	Added     int // incoming records appended
	Skipped   int // incoming records dropped as duplicates
	Malformed int // incoming elements that were not objects
}

// Merge decodes raw as a JSON array of records and appends those whose
// canonical key is absent both from existing and from earlier survivors of
// the same batch (first occurrence wins). Existing order is preserved, as is
// the incoming order among survivors. Records lacking an id or timestamp
// get one. Returns a ParseError and leaves existing untouched when raw is
// not an array.
func Merge(existing []models.Solution, raw []byte, now time.Time) (MergeResult, error) {
	incoming, malformed, err := models.DecodeList(raw)
	if err != nil {
		return MergeResult{}, &ParseError{Err: err}
	}

	seen := make(map[string]struct{}, len(existing))
	for _, sol := range existing {
		seen[CanonicalKey(sol.Title, sol.Module)] = struct{}{}
	}

	merged := make([]models.Solution, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	result := MergeResult{Malformed: malformed}
	for _, sol := range incoming {
		key := CanonicalKey(sol.Title, sol.Module)
		if _, dup := seen[key]; dup {
			result.Skipped++
			continue
		}
		seen[key] = struct{}{}
		ensureIdentity(&sol, now)
		merged = append(merged, sol)
		result.Added++
	}
	result.Merged = merged
	return result, nil
}

func ensureIdentity(sol *models.Solution, now time.Time) {
	if strings.TrimSpace(sol.ID) == "" {
		sol.ID = NewID()
	}
	if strings.TrimSpace(sol.LastUpdated) == "" {
		sol.LastUpdated = now.UTC().Format(time.RFC3339)
	}
}
