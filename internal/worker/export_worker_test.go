package worker

import (
	"context"
	"errors"
	"testing"

	"spendlog/internal/core"
	"spendlog/internal/events"
	"spendlog/internal/sheets/memory"
	"spendlog/internal/storage"
)

func seedExpense(t *testing.T, repo *storage.MemoryRepository, userID int64, desc string) core.Expense {
	t.Helper()
	d, _ := core.ParseDate("2024-03-01")
	e, err := repo.CreateExpense(context.Background(), userID, core.Expense{
		Description: desc,
		Amount:      core.Money{Cents: 1000},
		Date:        d,
		Category:    "Food",
	})
	if err != nil {
		t.Fatalf("seed expense: %v", err)
	}
	return e
}

func TestHandleCreatedMessage(t *testing.T) {
	repo := storage.NewMemoryRepository()
	exporter := memory.New()
	w := NewExportWorker(repo, exporter, 10)

	e := seedExpense(t, repo, 1, "Lunch")

	msg := events.NewExpenseChangeMessage(e.ID, 1, events.ActionCreated)
	if err := w.HandleChangeMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleChangeMessage() error = %v", err)
	}

	rows := exporter.Rows()
	if len(rows) != 1 {
		t.Fatalf("exported %d rows, want 1", len(rows))
	}
	if rows[0].Expense.ID != e.ID || rows[0].UserID != 1 {
		t.Errorf("row = %+v, want expense %d user 1", rows[0], e.ID)
	}
}

// An update must replace the existing row, never add a second one.
func TestHandleUpdatedMessageReplacesRow(t *testing.T) {
	repo := storage.NewMemoryRepository()
	exporter := memory.New()
	w := NewExportWorker(repo, exporter, 10)
	ctx := context.Background()

	e := seedExpense(t, repo, 1, "Lunch")

	if err := w.HandleChangeMessage(ctx, events.NewExpenseChangeMessage(e.ID, 1, events.ActionCreated)); err != nil {
		t.Fatal(err)
	}

	e.Description = "Dinner"
	if _, err := repo.UpdateExpense(ctx, 1, e); err != nil {
		t.Fatal(err)
	}
	if err := w.HandleChangeMessage(ctx, events.NewExpenseChangeMessage(e.ID, 1, events.ActionUpdated)); err != nil {
		t.Fatal(err)
	}

	rows := exporter.Rows()
	if len(rows) != 1 {
		t.Fatalf("exported %d rows, want 1 after update", len(rows))
	}
	if rows[0].Expense.Description != "Dinner" {
		t.Errorf("row description = %q, want %q", rows[0].Expense.Description, "Dinner")
	}
}

func TestHandleDeletedMessage(t *testing.T) {
	repo := storage.NewMemoryRepository()
	exporter := memory.New()
	w := NewExportWorker(repo, exporter, 10)
	ctx := context.Background()

	e := seedExpense(t, repo, 1, "Lunch")
	if err := w.HandleChangeMessage(ctx, events.NewExpenseChangeMessage(e.ID, 1, events.ActionCreated)); err != nil {
		t.Fatal(err)
	}

	if err := w.HandleChangeMessage(ctx, events.NewExpenseChangeMessage(e.ID, 1, events.ActionDeleted)); err != nil {
		t.Fatal(err)
	}

	if rows := exporter.Rows(); len(rows) != 0 {
		t.Errorf("exported rows = %d, want 0 after delete", len(rows))
	}
}

// A message for a record that was deleted before the worker got to it is
// dropped without error; the matching delete message cleans up the sheet.
func TestHandleMessageForMissingExpense(t *testing.T) {
	repo := storage.NewMemoryRepository()
	exporter := memory.New()
	w := NewExportWorker(repo, exporter, 10)

	msg := events.NewExpenseChangeMessage(999, 1, events.ActionCreated)
	if err := w.HandleChangeMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleChangeMessage() error = %v, want nil", err)
	}
	if rows := exporter.Rows(); len(rows) != 0 {
		t.Errorf("exported rows = %d, want 0", len(rows))
	}
}

func TestProcessPendingExpenses(t *testing.T) {
	repo := storage.NewMemoryRepository()
	exporter := memory.New()
	w := NewExportWorker(repo, exporter, 10)
	ctx := context.Background()

	seedExpense(t, repo, 1, "Lunch")
	seedExpense(t, repo, 1, "Coffee")

	if err := w.ProcessPendingExpenses(ctx); err != nil {
		t.Fatalf("ProcessPendingExpenses() error = %v", err)
	}
	if rows := exporter.Rows(); len(rows) != 2 {
		t.Fatalf("exported %d rows, want 2", len(rows))
	}

	// Everything is marked synced, a second pass exports nothing new
	if err := w.ProcessPendingExpenses(ctx); err != nil {
		t.Fatal(err)
	}
	if rows := exporter.Rows(); len(rows) != 2 {
		t.Errorf("exported %d rows after second pass, want still 2", len(rows))
	}
}

// A failed append leaves the record pending so the next pass retries it.
func TestProcessPendingRetriesAfterFailure(t *testing.T) {
	repo := storage.NewMemoryRepository()
	exporter := memory.New()
	w := NewExportWorker(repo, exporter, 10)
	ctx := context.Background()

	seedExpense(t, repo, 1, "Lunch")

	exporter.FailAppend = errors.New("sheets unavailable")
	if err := w.ProcessPendingExpenses(ctx); err != nil {
		t.Fatalf("ProcessPendingExpenses() error = %v, per-item failures are logged", err)
	}
	if rows := exporter.Rows(); len(rows) != 0 {
		t.Fatalf("exported %d rows, want 0 while failing", len(rows))
	}

	exporter.FailAppend = nil
	if err := w.ProcessPendingExpenses(ctx); err != nil {
		t.Fatal(err)
	}
	if rows := exporter.Rows(); len(rows) != 1 {
		t.Errorf("exported %d rows after retry, want 1", len(rows))
	}
}
