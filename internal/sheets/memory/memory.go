package memory

import (
	"context"
	"fmt"
	"sync"

	"spendlog/internal/core"
	ports "spendlog/internal/sheets"
)

// Row is one exported expense line.
type Row struct {
	UserID  int64
	Expense core.Expense
}

// Exporter is an in-memory spreadsheet stand-in for tests and local runs.
type Exporter struct {
	mu   sync.Mutex
	rows []Row

	// FailAppend makes AppendRow return an error, for failure-path tests.
	FailAppend error
}

var _ ports.ExpenseExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

// AppendRow stores the expense and returns a synthetic row reference.
func (e *Exporter) AppendRow(_ context.Context, userID int64, exp core.Expense) (string, error) {
	if e.FailAppend != nil {
		return "", e.FailAppend
	}
	if err := exp.Validate(); err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows = append(e.rows, Row{UserID: userID, Expense: exp})
	return fmt.Sprintf("mem:%d", len(e.rows)), nil
}

// DeleteRow removes the row matching the expense id. Unknown ids are a no-op.
func (e *Exporter) DeleteRow(_ context.Context, expenseID int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, row := range e.rows {
		if row.Expense.ID == expenseID {
			e.rows = append(e.rows[:i], e.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// Rows returns a copy of the exported rows.
func (e *Exporter) Rows() []Row {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Row, len(e.rows))
	copy(out, e.rows)
	return out
}
