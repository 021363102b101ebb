package core

import "strings"

// Report is a derived, non-persisted aggregate over an in-memory expense set.
type Report struct {
	Total      Money
	Count      int
	ByCategory map[string]Money
}

// GenerateReport folds the given expense set into totals and a per-category
// breakdown. It is pure and idempotent: calling it twice on the same set
// yields identical output. Callers pass the full unfiltered set; the report
// reflects whatever was last loaded, not necessarily the server's current
// truth.
func GenerateReport(expenses []Expense) Report {
	r := Report{ByCategory: make(map[string]Money)}
	for _, e := range expenses {
		r.Total.Cents += e.Amount.Cents
		r.Count++
		c := r.ByCategory[e.Category]
		c.Cents += e.Amount.Cents
		r.ByCategory[e.Category] = c
	}
	return r
}

// MatchExpenses returns the expenses whose description case-insensitively
// contains search and whose category equals category exactly. The empty
// category is the "all categories" sentinel. Order is preserved.
func MatchExpenses(expenses []Expense, search, category string) []Expense {
	search = strings.ToLower(search)
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if !strings.Contains(strings.ToLower(e.Description), search) {
			continue
		}
		if category != "" && e.Category != category {
			continue
		}
		out = append(out, e)
	}
	return out
}
