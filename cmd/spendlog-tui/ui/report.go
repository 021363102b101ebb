package ui

import (
	"fmt"
	"sort"
	"strings"

	"spendlog/internal/core"
)

// renderReport shows totals over the last-loaded expense set.
func renderReport(expenses []core.Expense) string {
	report := core.GenerateReport(expenses)

	var b strings.Builder
	b.WriteString(titleStyle.Render("spendlog - report"))
	b.WriteString("\n\n")

	b.WriteString(rowStyle.Render(fmt.Sprintf("Expenses: %d", report.Count)))
	b.WriteString("\n")
	b.WriteString(rowStyle.Render(fmt.Sprintf("Total:    %s", report.Total.DecimalString())))
	b.WriteString("\n\n")

	categories := make([]string, 0, len(report.ByCategory))
	for c := range report.ByCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, c := range categories {
		b.WriteString(rowStyle.Render(fmt.Sprintf("  %-20s %10s", c, report.ByCategory[c].DecimalString())))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("esc back"))
	return boxStyle.Render(b.String())
}
