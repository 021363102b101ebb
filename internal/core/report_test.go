package core

import (
	"reflect"
	"testing"
)

func sampleExpenses() []Expense {
	return []Expense{
		{ID: 1, Date: NewDate(2024, 3, 1), Description: "Groceries", Amount: Money{Cents: 1000}, Category: "Food"},
		{ID: 2, Date: NewDate(2024, 3, 2), Description: "Dinner", Amount: Money{Cents: 2000}, Category: "Food"},
		{ID: 3, Date: NewDate(2024, 3, 3), Description: "Bus", Amount: Money{Cents: 500}, Category: "Transport"},
	}
}

func TestGenerateReport(t *testing.T) {
	r := GenerateReport(sampleExpenses())

	if r.Total.Cents != 3500 {
		t.Fatalf("expected total 3500, got %d", r.Total.Cents)
	}
	if r.Count != 3 {
		t.Fatalf("expected count 3, got %d", r.Count)
	}
	if r.ByCategory["Food"].Cents != 3000 {
		t.Fatalf("expected Food 3000, got %d", r.ByCategory["Food"].Cents)
	}
	if r.ByCategory["Transport"].Cents != 500 {
		t.Fatalf("expected Transport 500, got %d", r.ByCategory["Transport"].Cents)
	}
}

func TestGenerateReportIdempotent(t *testing.T) {
	set := sampleExpenses()
	first := GenerateReport(set)
	second := GenerateReport(set)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical reports, got %+v vs %+v", first, second)
	}
}

func TestGenerateReportEmpty(t *testing.T) {
	r := GenerateReport(nil)
	if r.Total.Cents != 0 || r.Count != 0 || len(r.ByCategory) != 0 {
		t.Fatalf("expected zero report, got %+v", r)
	}
}

func TestMatchExpenses(t *testing.T) {
	set := []Expense{
		{ID: 1, Description: "Coffee", Amount: Money{Cents: 300}, Category: "Food"},
		{ID: 2, Description: "Bus", Amount: Money{Cents: 200}, Category: "Transport"},
	}

	got := MatchExpenses(set, "co", "")
	if len(got) != 1 || got[0].Description != "Coffee" {
		t.Fatalf("search 'co' expected only Coffee, got %+v", got)
	}

	got = MatchExpenses(set, "", "Transport")
	if len(got) != 1 || got[0].Description != "Bus" {
		t.Fatalf("filter Transport expected only Bus, got %+v", got)
	}

	got = MatchExpenses(set, "", "")
	if len(got) != 2 {
		t.Fatalf("empty search+filter expected all, got %+v", got)
	}

	// Case-insensitive substring, exact category match
	got = MatchExpenses(set, "COFF", "Food")
	if len(got) != 1 {
		t.Fatalf("expected case-insensitive match, got %+v", got)
	}
	got = MatchExpenses(set, "", "food")
	if len(got) != 0 {
		t.Fatalf("category match is exact, got %+v", got)
	}
}

func TestMatchExpensesPreservesOrder(t *testing.T) {
	set := sampleExpenses()
	got := MatchExpenses(set, "", "Food")
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("expected store order preserved, got %+v", got)
	}
}
