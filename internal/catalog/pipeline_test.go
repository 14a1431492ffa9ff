package catalog

import (
	"reflect"
	"testing"

	"fixhub/pkg/models"
)

func fixtureRecords() []models.Solution {
	return []models.Solution{
		{ID: "1", Title: "Invoice error", Module: "AP"},
		{ID: "2", Title: "GL mismatch", Module: "GL"},
	}
}

func TestFilterAndAggregate_EmptyQueryAllModules(t *testing.T) {
	view := FilterAndAggregate(fixtureRecords(), AllModules, "")

	if view.Total != 2 {
		t.Fatalf("Total = %d, want 2", view.Total)
	}
	if len(view.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(view.Items))
	}

	// equal counts tie-break alphabetically: AP before GL, both at 50%
	want := []ModuleCount{
		{Module: "AP", Count: 1, Percent: 50},
		{Module: "GL", Count: 1, Percent: 50},
	}
	if !reflect.DeepEqual(view.Counts, want) {
		t.Errorf("Counts = %+v, want %+v", view.Counts, want)
	}
}

func TestFilterAndAggregate_WildcardQuery(t *testing.T) {
	view := FilterAndAggregate(fixtureRecords(), AllModules, "%invoi%err%")

	if view.Total != 1 {
		t.Fatalf("Total = %d, want 1", view.Total)
	}
	if view.Items[0].ID != "1" {
		t.Errorf("Items[0].ID = %q, want %q", view.Items[0].ID, "1")
	}
	want := []ModuleCount{{Module: "AP", Count: 1, Percent: 100}}
	if !reflect.DeepEqual(view.Counts, want) {
		t.Errorf("Counts = %+v, want %+v", view.Counts, want)
	}
}

func TestFilterAndAggregate_ModuleFilter(t *testing.T) {
	records := append(fixtureRecords(), models.Solution{ID: "3", Title: "Vendor hold", Module: "AP"})

	view := FilterAndAggregate(records, "AP", "")
	if view.Total != 2 {
		t.Fatalf("Total = %d, want 2", view.Total)
	}
	for _, item := range view.Items {
		if item.Module != "AP" {
			t.Errorf("unexpected module %q in filtered view", item.Module)
		}
	}

	// empty filter behaves like All
	if got := FilterAndAggregate(records, "", "").Total; got != 3 {
		t.Errorf("empty filter Total = %d, want 3", got)
	}
}

func TestFilterAndAggregate_CountOrdering(t *testing.T) {
	records := []models.Solution{
		{ID: "1", Title: "a", Module: "GL"},
		{ID: "2", Title: "b", Module: "AP"},
		{ID: "3", Title: "c", Module: "GL"},
		{ID: "4", Title: "d", Module: "AR"},
	}

	view := FilterAndAggregate(records, AllModules, "")

	// GL leads on count; AP and AR tie at 1 and sort alphabetically
	wantOrder := []string{"GL", "AP", "AR"}
	for i, mc := range view.Counts {
		if mc.Module != wantOrder[i] {
			t.Fatalf("Counts order = %v, want %v", view.Counts, wantOrder)
		}
	}
}

func TestFilterAndAggregate_Percentages(t *testing.T) {
	records := []models.Solution{
		{ID: "1", Title: "a", Module: "GL"},
		{ID: "2", Title: "b", Module: "GL"},
		{ID: "3", Title: "c", Module: "AP"},
	}

	view := FilterAndAggregate(records, AllModules, "")

	sum := 0
	for _, mc := range view.Counts {
		sum += mc.Percent
	}
	// 67 + 33 with rounding
	if sum < 99 || sum > 101 {
		t.Errorf("percent sum = %d, want 100±1", sum)
	}
}

func TestFilterAndAggregate_EmptyResult(t *testing.T) {
	view := FilterAndAggregate(fixtureRecords(), AllModules, "no such record anywhere")

	if view.Total != 0 {
		t.Fatalf("Total = %d, want 0", view.Total)
	}
	if len(view.Counts) != 0 || len(view.Groups) != 0 {
		t.Errorf("expected empty counts and groups, got %+v / %+v", view.Counts, view.Groups)
	}
}

func TestFilterAndAggregate_Groups(t *testing.T) {
	records := []models.Solution{
		{ID: "1", Title: "a", Module: "GL"},
		{ID: "2", Title: "b", Module: "AP"},
		{ID: "3", Title: "c", Module: "GL"},
	}

	view := FilterAndAggregate(records, AllModules, "")

	if len(view.Groups) != 2 {
		t.Fatalf("len(Groups) = %d, want 2", len(view.Groups))
	}
	// buckets alphabetical by module
	if view.Groups[0].Module != "AP" || view.Groups[1].Module != "GL" {
		t.Fatalf("group order = [%s %s], want [AP GL]", view.Groups[0].Module, view.Groups[1].Module)
	}
	// members keep filtered order
	gl := view.Groups[1].Items
	if len(gl) != 2 || gl[0].ID != "1" || gl[1].ID != "3" {
		t.Errorf("GL group order wrong: %+v", gl)
	}
}

// The pipeline is a pure derivation: same inputs, same outputs, inputs
// untouched.
func TestFilterAndAggregate_Pure(t *testing.T) {
	records := fixtureRecords()
	before := make([]models.Solution, len(records))
	copy(before, records)

	first := FilterAndAggregate(records, "AP", "invoice")
	second := FilterAndAggregate(records, "AP", "invoice")

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different views")
	}
	if !reflect.DeepEqual(records, before) {
		t.Error("pipeline mutated its input")
	}
}
