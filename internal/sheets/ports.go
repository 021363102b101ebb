package sheets

import (
	"context"

	"spendlog/internal/core"
)

// ExpenseExporter mirrors expenses into an external spreadsheet. Rows are
// keyed by expense id, so append and delete stay idempotent per id.
type ExpenseExporter interface {
	// AppendRow writes one expense row and returns a backend reference.
	AppendRow(ctx context.Context, userID int64, e core.Expense) (rowRef string, err error)

	// DeleteRow removes the row for the given expense id. Deleting an id
	// with no row is not an error.
	DeleteRow(ctx context.Context, expenseID int64) error
}
