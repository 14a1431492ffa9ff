package catalog

import (
	"strings"
	"time"

	"fixhub/pkg/models"
)

// AddForm is the raw manual-add input: tags comma-separated, the check/step
// fields newline-separated, everything else free text.
type AddForm struct {
	Title          string `json:"title"`
	Module         string `json:"module"`
	Severity       string `json:"severity"`
	RootCause      string `json:"rootCause"`
	Tags           string `json:"tags"`
	PreChecks      string `json:"preChecks"`
	Steps          string `json:"steps"`
	PostValidation string `json:"postValidation"`
}

type AddStatus string

const (
	// AddCommitted: the record was inserted at the front of the collection.
	AddCommitted AddStatus = "committed"
	// AddPending: a canonical-key collision parked the record; the caller
	// must resolve it with the returned token.
	AddPending AddStatus = "pending"
	// AddAborted: a pending proposal was cancelled, no state change.
	AddAborted AddStatus = "aborted"
)

type AddOutcome struct {
	Status   AddStatus
	Solution models.Solution
	Token    string           // set when Status == AddPending
	Conflict *models.Solution // the existing record the proposal collides with
}

// buildSolution validates and constructs the record for a manual add.
func buildSolution(form AddForm, now time.Time) (models.Solution, error) {
	title := strings.TrimSpace(form.Title)
	if title == "" {
		return models.Solution{}, &ValidationError{Field: "title"}
	}
	module := strings.TrimSpace(form.Module)
	if module == "" {
		return models.Solution{}, &ValidationError{Field: "module"}
	}

	sol := models.Solution{
		ID:             NewID(),
		Title:          title,
		Module:         module,
		Severity:       strings.TrimSpace(form.Severity),
		Tags:           models.SplitTags(form.Tags),
		PreChecks:      models.SplitLines(form.PreChecks),
		Steps:          models.SplitLines(form.Steps),
		PostValidation: models.SplitLines(form.PostValidation),
		LastUpdated:    now.UTC().Format(time.RFC3339),
	}
	if cause := strings.TrimSpace(form.RootCause); cause != "" {
		sol.RootCause = models.TextList{cause}
	}
	return sol, nil
}
