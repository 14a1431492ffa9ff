package sync

import "time"

const (
	EventAdd    = "catalog.add"
	EventImport = "catalog.import"
)

// CatalogEvent is broadcast to feed clients after a successful mutation.
type CatalogEvent struct {
	Type    string    `json:"type"` // "catalog.add" or "catalog.import"
	ID      string    `json:"id,omitempty"`
	Title   string    `json:"title,omitempty"`
	Module  string    `json:"module,omitempty"`
	Added   int       `json:"added,omitempty"`   // import only
	Skipped int       `json:"skipped,omitempty"` // import only
	Total   int       `json:"total"`             // collection size after the mutation
	At      time.Time `json:"at"`
}
