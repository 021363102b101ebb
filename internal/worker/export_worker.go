package worker

import (
	"context"
	"errors"
	"fmt"

	"spendlog/internal/events"
	applog "spendlog/internal/log"
	"spendlog/internal/sheets"
	"spendlog/internal/storage"
)

// ExportStore is the storage surface the export worker needs. It crosses
// user boundaries because change messages arrive for every account.
type ExportStore interface {
	GetExpenseAnyUser(ctx context.Context, id int64) (storage.OwnedExpense, error)
	GetPendingSyncExpenses(ctx context.Context, limit int) ([]storage.OwnedExpense, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

// ExportWorker mirrors expense changes into the spreadsheet. The database is
// the source of truth: messages only carry ids and the worker re-reads the
// record, so a delayed message can never export stale data.
type ExportWorker struct {
	store     ExportStore
	exporter  sheets.ExpenseExporter
	batchSize int
	logger    *applog.Logger
}

func NewExportWorker(store ExportStore, exporter sheets.ExpenseExporter, batchSize int) *ExportWorker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &ExportWorker{
		store:     store,
		exporter:  exporter,
		batchSize: batchSize,
		logger:    applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker),
	}
}

// HandleChangeMessage processes one expense change message from AMQP.
func (w *ExportWorker) HandleChangeMessage(ctx context.Context, msg *events.ExpenseChangeMessage) error {
	w.logger.InfoContext(ctx, "Processing change message",
		"expense_id", msg.ExpenseID,
		"user_id", msg.UserID,
		"action", msg.Action)

	switch msg.Action {
	case events.ActionDeleted:
		if err := w.exporter.DeleteRow(ctx, msg.ExpenseID); err != nil {
			return fmt.Errorf("delete exported row: %w", err)
		}
		return nil

	case events.ActionCreated, events.ActionUpdated:
		owned, err := w.store.GetExpenseAnyUser(ctx, msg.ExpenseID)
		if errors.Is(err, storage.ErrNotFound) {
			// Deleted between publish and consume; the delete message
			// will clean up the sheet
			w.logger.InfoContext(ctx, "Expense gone before export, skipping", "expense_id", msg.ExpenseID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("load expense: %w", err)
		}
		return w.export(ctx, owned)

	default:
		w.logger.WarnContext(ctx, "Unknown change action, dropping message",
			"action", msg.Action, "expense_id", msg.ExpenseID)
		return nil
	}
}

// ProcessPendingExpenses exports records the message path missed. This is
// the backup mechanism in case AMQP messages are lost.
func (w *ExportWorker) ProcessPendingExpenses(ctx context.Context) error {
	return w.processPending(ctx, w.batchSize, "catch-up")
}

// StartupSyncCheck drains a larger pending backlog once at worker startup,
// recovering from downtime.
func (w *ExportWorker) StartupSyncCheck(ctx context.Context) error {
	return w.processPending(ctx, w.batchSize*5, "startup")
}

func (w *ExportWorker) processPending(ctx context.Context, limit int, phase string) error {
	pending, err := w.store.GetPendingSyncExpenses(ctx, limit)
	if err != nil {
		return fmt.Errorf("get pending expenses: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	w.logger.InfoContext(ctx, "Processing pending expenses", "count", len(pending), "phase", phase)

	successCount := 0
	errorCount := 0
	for _, owned := range pending {
		if err := w.export(ctx, owned); err != nil {
			w.logger.ErrorContext(ctx, "Failed to export expense",
				"expense_id", owned.Expense.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	w.logger.InfoContext(ctx, "Pending export pass completed",
		"phase", phase,
		"total", len(pending),
		"exported", successCount,
		"errors", errorCount)

	return nil
}

// export replaces the expense's sheet row. Removing any previous row first
// keeps updates and retries from producing duplicates.
func (w *ExportWorker) export(ctx context.Context, owned storage.OwnedExpense) error {
	if err := w.exporter.DeleteRow(ctx, owned.Expense.ID); err != nil {
		return fmt.Errorf("remove stale row: %w", err)
	}

	ref, err := w.exporter.AppendRow(ctx, owned.UserID, owned.Expense)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, owned.Expense.ID); markErr != nil {
			w.logger.ErrorContext(ctx, "Failed to mark sync error",
				"expense_id", owned.Expense.ID, "error", markErr)
		}
		return fmt.Errorf("append row: %w", err)
	}

	if err := w.store.MarkSynced(ctx, owned.Expense.ID); err != nil {
		// The export itself worked, only the bookkeeping failed
		w.logger.ErrorContext(ctx, "Failed to mark as synced",
			"expense_id", owned.Expense.ID, "error", err)
	}

	w.logger.InfoContext(ctx, "Exported expense",
		applog.FieldOperation, applog.OpExport,
		"expense_id", owned.Expense.ID,
		"user_id", owned.UserID,
		"row_ref", ref)

	return nil
}
