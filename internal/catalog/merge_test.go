package catalog

import (
	"errors"
	"testing"
	"time"

	"fixhub/pkg/models"
)

func TestCanonicalKey(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		module string
		want   string
	}{
		{"simple", "Invoice error", "AP", "invoice error ap"},
		{"case folded", "Invoice Error", "ap", "invoice error ap"},
		{"punctuation collapsed", "Invoice -- error!!", "A/P", "invoice error a p"},
		{"outer whitespace trimmed", "  Invoice error  ", " AP ", "invoice error ap"},
		{"digits kept", "Batch 42 stuck", "GL", "batch 42 stuck gl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalKey(tt.title, tt.module); got != tt.want {
				t.Errorf("CanonicalKey(%q, %q) = %q, want %q", tt.title, tt.module, got, tt.want)
			}
		})
	}
}

func TestMerge_DropsExistingDuplicates(t *testing.T) {
	existing := []models.Solution{
		{ID: "1", Title: "Invoice Error", Module: "ap"},
	}
	incoming := []byte(`[{"title":"Invoice error","module":"AP"}]`)

	result, err := Merge(existing, incoming, time.Now())
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}
	if result.Added != 0 || result.Skipped != 1 {
		t.Errorf("Added/Skipped = %d/%d, want 0/1", result.Added, result.Skipped)
	}
	if len(result.Merged) != 1 {
		t.Errorf("len(Merged) = %d, want 1", len(result.Merged))
	}
}

func TestMerge_AppendsNewRecords(t *testing.T) {
	existing := []models.Solution{
		{ID: "1", Title: "Invoice error", Module: "AP"},
	}
	incoming := []byte(`[
		{"title":"GL mismatch","module":"GL"},
		{"title":"Vendor hold","module":"AP"}
	]`)

	result, err := Merge(existing, incoming, time.Now())
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}
	if result.Added != 2 {
		t.Fatalf("Added = %d, want 2", result.Added)
	}
	// existing order preserved, survivors appended in incoming order
	if result.Merged[0].ID != "1" {
		t.Errorf("existing record moved: %+v", result.Merged[0])
	}
	if result.Merged[1].Title != "GL mismatch" || result.Merged[2].Title != "Vendor hold" {
		t.Errorf("incoming order not preserved: %+v", result.Merged[1:])
	}
}

func TestMerge_WithinBatchDuplicatesSuppressed(t *testing.T) {
	incoming := []byte(`[
		{"title":"Same thing","module":"AP"},
		{"title":"same THING","module":"ap"}
	]`)

	result, err := Merge(nil, incoming, time.Now())
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}
	if result.Added != 1 || result.Skipped != 1 {
		t.Errorf("Added/Skipped = %d/%d, want 1/1 (first occurrence wins)", result.Added, result.Skipped)
	}
}

func TestMerge_GeneratesIdentity(t *testing.T) {
	incoming := []byte(`[{"title":"No id here","module":"GL"}]`)

	result, err := Merge(nil, incoming, time.Now())
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}
	got := result.Merged[0]
	if got.ID == "" {
		t.Error("expected a generated id")
	}
	if got.LastUpdated == "" {
		t.Error("expected a default lastUpdated timestamp")
	}
	if _, err := time.Parse(time.RFC3339, got.LastUpdated); err != nil {
		t.Errorf("lastUpdated not RFC3339: %q", got.LastUpdated)
	}
}

func TestMerge_LegacyAliases(t *testing.T) {
	incoming := []byte(`[{
		"issue":"Old style record",
		"module":"AR",
		"cause":"stale cache",
		"checks":["one","two"],
		"resolution":"flush it",
		"validation":"verify totals",
		"updated":"2024-03-01T00:00:00Z",
		"references":[{"label":"KB","url":"https://example.com/kb"}]
	}]`)

	result, err := Merge(nil, incoming, time.Now())
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}
	got := result.Merged[0]
	if got.Title != "Old style record" {
		t.Errorf("Title = %q", got.Title)
	}
	if len(got.RootCause) != 1 || got.RootCause[0] != "stale cache" {
		t.Errorf("RootCause = %+v", got.RootCause)
	}
	if len(got.PreChecks) != 2 {
		t.Errorf("PreChecks = %+v", got.PreChecks)
	}
	if len(got.Steps) != 1 || got.Steps[0] != "flush it" {
		t.Errorf("Steps = %+v", got.Steps)
	}
	if len(got.PostValidation) != 1 {
		t.Errorf("PostValidation = %+v", got.PostValidation)
	}
	if got.LastUpdated != "2024-03-01T00:00:00Z" {
		t.Errorf("LastUpdated = %q", got.LastUpdated)
	}
	if len(got.Links) != 1 || got.Links[0].Label != "KB" {
		t.Errorf("Links = %+v", got.Links)
	}
}

func TestMerge_Fallbacks(t *testing.T) {
	incoming := []byte(`[{}]`)

	result, err := Merge(nil, incoming, time.Now())
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}
	got := result.Merged[0]
	if got.Title != "Untitled" {
		t.Errorf("Title = %q, want Untitled", got.Title)
	}
	if got.Module != "General" {
		t.Errorf("Module = %q, want General", got.Module)
	}
}

func TestMerge_ParseErrors(t *testing.T) {
	existing := []models.Solution{{ID: "1", Title: "Keep me", Module: "AP"}}

	for _, raw := range [][]byte{
		[]byte(`{"title":"not an array"}`),
		[]byte(`"just a string"`),
		[]byte(`not json at all`),
		[]byte(``),
	} {
		_, err := Merge(existing, raw, time.Now())
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("Merge(%q): got %v, want ParseError", raw, err)
		}
	}

	// the caller keeps its slice; nothing was touched
	if len(existing) != 1 || existing[0].Title != "Keep me" {
		t.Errorf("existing mutated: %+v", existing)
	}
}

func TestMerge_NeverShrinks(t *testing.T) {
	existing := []models.Solution{
		{ID: "1", Title: "One", Module: "AP"},
		{ID: "2", Title: "Two", Module: "GL"},
	}
	incoming := []byte(`[{"title":"One","module":"AP"},{"title":"Three","module":"FA"}]`)

	result, err := Merge(existing, incoming, time.Now())
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}
	if len(result.Merged) < len(existing) {
		t.Errorf("merge shrank the collection: %d -> %d", len(existing), len(result.Merged))
	}
}

func TestMerge_SkipsNonObjectElements(t *testing.T) {
	incoming := []byte(`[42, "noise", {"title":"Real","module":"AP"}]`)

	result, err := Merge(nil, incoming, time.Now())
	if err != nil {
		t.Fatalf("Merge error: %v", err)
	}
	if result.Malformed != 2 || result.Added != 1 {
		t.Errorf("Malformed/Added = %d/%d, want 2/1", result.Malformed, result.Added)
	}
}
