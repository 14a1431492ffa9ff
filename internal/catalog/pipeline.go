// Package catalog owns the in-memory solution collection and every
// operation over it: the filter/aggregate pipeline, JSON import with
// dedupe, the two-phase manual add, and export snapshots.
package catalog

import (
	"math"
	"sort"

	"fixhub/internal/search"
	"fixhub/pkg/models"
)

// AllModules is the module filter value that disables module filtering.
const AllModules = "All"

type ModuleCount struct {
	Module  string `json:"module"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"` // share of the filtered total, rounded
}

type Group struct {
	Module string            `json:"module"`
	Items  []models.Solution `json:"items"`
}

// View is the derived read model for one (records, moduleFilter, query)
// input: the filtered records, per-module counts, and module groupings.
type View struct {
	Total  int               `json:"total"`
	Items  []models.Solution `json:"items"`
	Counts []ModuleCount     `json:"counts"`
	Groups []Group           `json:"groups"`
}

// FilterAndAggregate runs the full pipeline in one linear pass plus two
// small sorts. The module check runs before the matcher since it is the
// cheaper predicate. Counts are ordered by descending count, ties broken
// alphabetically; groups are ordered by module name, members keep the
// filtered order. Inputs are never mutated.
func FilterAndAggregate(records []models.Solution, moduleFilter, query string) View {
	matcher := search.Compile(query)
	allModules := moduleFilter == "" || moduleFilter == AllModules

	inView := make([]models.Solution, 0, len(records))
	for _, rec := range records {
		if !allModules && rec.Module != moduleFilter {
			continue
		}
		if !search.Matches(rec, matcher) {
			continue
		}
		inView = append(inView, rec)
	}
	total := len(inView)

	tally := make(map[string]int)
	grouped := make(map[string][]models.Solution)
	var moduleNames []string
	for _, rec := range inView {
		if _, seen := tally[rec.Module]; !seen {
			moduleNames = append(moduleNames, rec.Module)
		}
		tally[rec.Module]++
		grouped[rec.Module] = append(grouped[rec.Module], rec)
	}

	counts := make([]ModuleCount, 0, len(moduleNames))
	for _, name := range moduleNames {
		counts = append(counts, ModuleCount{
			Module:  name,
			Count:   tally[name],
			Percent: percentOf(tally[name], total),
		})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Module < counts[j].Module
	})

	sort.Strings(moduleNames)
	groups := make([]Group, 0, len(moduleNames))
	for _, name := range moduleNames {
		groups = append(groups, Group{Module: name, Items: grouped[name]})
	}

	return View{Total: total, Items: inView, Counts: counts, Groups: groups}
}

func percentOf(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}
