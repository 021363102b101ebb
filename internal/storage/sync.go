package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"spendlog/internal/core"
)

// Export states for the spreadsheet mirror.
const (
	SyncStatusPending = "pending"
	SyncStatusSynced  = "synced"
	SyncStatusError   = "error"
)

// OwnedExpense pairs an expense with its owner, for consumers that operate
// across users (the export worker).
type OwnedExpense struct {
	UserID  int64
	Expense core.Expense
}

// GetPendingSyncExpenses returns up to limit expenses that have not been
// exported yet, oldest first. Rows in the error state are retried too.
func (r *SQLiteRepository) GetPendingSyncExpenses(ctx context.Context, limit int) ([]OwnedExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, description, amount_cents, date, category FROM expenses WHERE sync_status != ? ORDER BY id LIMIT ?",
		SyncStatusSynced, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending expenses: %w", err)
	}
	defer rows.Close()

	var pending []OwnedExpense
	for rows.Next() {
		var oe OwnedExpense
		var dateStr string
		if err := rows.Scan(&oe.Expense.ID, &oe.UserID, &oe.Expense.Description, &oe.Expense.Amount.Cents, &dateStr, &oe.Expense.Category); err != nil {
			return nil, fmt.Errorf("scan pending expense: %w", err)
		}
		d, err := core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("stored date %q: %w", dateStr, err)
		}
		oe.Expense.Date = d
		pending = append(pending, oe)
	}
	return pending, rows.Err()
}

// MarkSynced records a successful export.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	return r.setSyncStatus(ctx, id, SyncStatusSynced, true)
}

// MarkSyncError records a failed export so the catch-up pass retries it.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	return r.setSyncStatus(ctx, id, SyncStatusError, false)
}

func (r *SQLiteRepository) setSyncStatus(ctx context.Context, id int64, status string, stampTime bool) error {
	var query string
	if stampTime {
		query = "UPDATE expenses SET sync_status = ?, synced_at = CURRENT_TIMESTAMP WHERE id = ?"
	} else {
		query = "UPDATE expenses SET sync_status = ?, synced_at = NULL WHERE id = ?"
	}
	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("set sync status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetExpenseAnyUser fetches an expense regardless of owner. Only for the
// export worker, which acts on behalf of change messages, never for request
// handlers.
func (r *SQLiteRepository) GetExpenseAnyUser(ctx context.Context, id int64) (OwnedExpense, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, description, amount_cents, date, category FROM expenses WHERE id = ?", id)

	var oe OwnedExpense
	var dateStr string
	err := row.Scan(&oe.Expense.ID, &oe.UserID, &oe.Expense.Description, &oe.Expense.Amount.Cents, &dateStr, &oe.Expense.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return OwnedExpense{}, ErrNotFound
	}
	if err != nil {
		return OwnedExpense{}, fmt.Errorf("scan expense: %w", err)
	}
	d, err := core.ParseDate(dateStr)
	if err != nil {
		return OwnedExpense{}, fmt.Errorf("stored date %q: %w", dateStr, err)
	}
	oe.Expense.Date = d
	return oe, nil
}
