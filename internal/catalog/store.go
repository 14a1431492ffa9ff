package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"fixhub/internal/logger"
	"fixhub/pkg/models"
)

// Store is the single owner of the in-memory solution collection. All
// mutation goes through it; reads work on snapshots so the pipeline stays a
// pure derivation.
type Store struct {
	mu        sync.RWMutex
	solutions []models.Solution
	pending   map[string]models.Solution // token -> parked manual add
	loadErr   error
	log       *logger.Logger
}

func NewStore(log *logger.Logger) *Store {
	if log == nil {
		log = logger.New("info")
	}
	return &Store{
		pending: make(map[string]models.Solution),
		log:     log,
	}
}

// LoadFile replaces the collection with the contents of the data file. On
// failure the collection stays empty and the error is recorded; there is no
// retry (the caller surfaces the persistent error state).
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return s.failLoad(path, err)
	}

	records, skipped, err := models.DecodeList(data)
	if err != nil {
		return s.failLoad(path, err)
	}

	now := time.Now()
	for i := range records {
		ensureIdentity(&records[i], now)
	}

	s.mu.Lock()
	s.solutions = records
	s.loadErr = nil
	s.mu.Unlock()

	s.log.Info("catalog loaded", "path", path, "records", len(records), "skipped", skipped)
	return nil
}

func (s *Store) failLoad(path string, err error) error {
	lerr := &LoadError{Path: path, Err: err}
	s.mu.Lock()
	s.solutions = nil
	s.loadErr = lerr
	s.mu.Unlock()
	s.log.Error("catalog load failed", "path", path, "err", err)
	return lerr
}

// LoadErr returns the recorded startup load failure, if any.
func (s *Store) LoadErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.solutions)
}

// Snapshot returns a copy of the full collection in its current order.
func (s *Store) Snapshot() []models.Solution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Solution, len(s.solutions))
	copy(out, s.solutions)
	return out
}

func (s *Store) Get(id string) (models.Solution, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sol := range s.solutions {
		if sol.ID == id {
			return sol, true
		}
	}
	return models.Solution{}, false
}

// Modules returns the distinct module labels, sorted.
func (s *Store) Modules() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, sol := range s.solutions {
		if _, ok := seen[sol.Module]; !ok {
			seen[sol.Module] = struct{}{}
			out = append(out, sol.Module)
		}
	}
	sort.Strings(out)
	return out
}

// Search runs the filter/aggregate pipeline over the current collection.
func (s *Store) Search(moduleFilter, query string) View {
	return FilterAndAggregate(s.Snapshot(), moduleFilter, query)
}

// Import merges a JSON array into the collection. A ParseError leaves the
// collection unchanged.
func (s *Store) Import(raw []byte) (MergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := Merge(s.solutions, raw, time.Now())
	if err != nil {
		return MergeResult{}, err
	}
	s.solutions = result.Merged
	s.log.Info("catalog import",
		"added", result.Added, "skipped", result.Skipped, "malformed", result.Malformed)
	return result, nil
}

// ProposeAdd validates the form and either commits the new record
// (prepended, most-recent-first) or, when its canonical key collides with an
// existing record, parks it behind a token for an explicit confirm/cancel.
func (s *Store) ProposeAdd(form AddForm) (AddOutcome, error) {
	sol, err := buildSolution(form, time.Now())
	if err != nil {
		return AddOutcome{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := CanonicalKey(sol.Title, sol.Module)
	for i := range s.solutions {
		if CanonicalKey(s.solutions[i].Title, s.solutions[i].Module) == key {
			token := NewID()
			s.pending[token] = sol
			conflict := s.solutions[i]
			return AddOutcome{
				Status:   AddPending,
				Solution: sol,
				Token:    token,
				Conflict: &conflict,
			}, nil
		}
	}

	s.prependLocked(sol)
	return AddOutcome{Status: AddCommitted, Solution: sol}, nil
}

// ResolveAdd completes or aborts a parked proposal. Aborting leaves the
// collection untouched. Unknown tokens return ErrNoPending.
func (s *Store) ResolveAdd(token string, accept bool) (AddOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sol, ok := s.pending[token]
	if !ok {
		return AddOutcome{}, fmt.Errorf("resolve %q: %w", token, ErrNoPending)
	}
	delete(s.pending, token)

	if !accept {
		return AddOutcome{Status: AddAborted, Solution: sol}, nil
	}
	s.prependLocked(sol)
	return AddOutcome{Status: AddCommitted, Solution: sol}, nil
}

func (s *Store) prependLocked(sol models.Solution) {
	s.solutions = append([]models.Solution{sol}, s.solutions...)
	s.log.Info("catalog add", "id", sol.ID, "module", sol.Module)
}

// Export serializes the full unfiltered collection, pretty-printed with
// 2-space indent, together with the timestamped download filename.
func (s *Store) Export(at time.Time) ([]byte, string, error) {
	snapshot := s.Snapshot()
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("marshal export: %w", err)
	}
	name := ExportFilename(at)
	return data, name, nil
}

// ExportFilename embeds an ISO 8601 timestamp truncated to seconds.
func ExportFilename(at time.Time) string {
	return "solutions-export-" + at.UTC().Format("2006-01-02T15:04:05") + ".json"
}

// ExportFile writes an export snapshot next to the given directory and
// returns the path written.
func (s *Store) ExportFile(dir string, at time.Time) (string, error) {
	data, name, err := s.Export(at)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// PendingCount reports parked manual-add proposals (for /debug).
func (s *Store) PendingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending)
}

// WriteFile persists the current collection back to the data file path,
// pretty-printed. Used by the offline import tool, not by the server.
func (s *Store) WriteFile(path string) error {
	snapshot := s.Snapshot()
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// DescribeLoadErr renders the persistent load failure for status endpoints.
func (s *Store) DescribeLoadErr() string {
	if err := s.LoadErr(); err != nil {
		return err.Error()
	}
	return ""
}
