package services

import (
	"context"
	"fmt"
	"log/slog"

	"spendlog/internal/core"
	"spendlog/internal/events"
)

// ExpenseService orchestrates expense operations across storage and AMQP.
// Records are written first; a failed publish is logged and never fails the
// request, the export worker catches up from the database.
type ExpenseService struct {
	store     ExpenseStore
	publisher ChangePublisher
}

func NewExpenseService(store ExpenseStore, publisher ChangePublisher) *ExpenseService {
	return &ExpenseService{
		store:     store,
		publisher: publisher,
	}
}

func (s *ExpenseService) CreateExpense(ctx context.Context, userID int64, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	saved, err := s.store.CreateExpense(ctx, userID, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.publishChange(ctx, saved.ID, userID, events.ActionCreated)

	return saved, nil
}

func (s *ExpenseService) ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	expenses, err := s.store.ListExpenses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

func (s *ExpenseService) GetExpense(ctx context.Context, userID, id int64) (core.Expense, error) {
	return s.store.GetExpense(ctx, userID, id)
}

// UpdateExpense replaces the stored record. Last write wins.
func (s *ExpenseService) UpdateExpense(ctx context.Context, userID int64, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	updated, err := s.store.UpdateExpense(ctx, userID, e)
	if err != nil {
		return core.Expense{}, err
	}

	s.publishChange(ctx, updated.ID, userID, events.ActionUpdated)

	return updated, nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, id int64) error {
	if err := s.store.DeleteExpense(ctx, userID, id); err != nil {
		return err
	}

	s.publishChange(ctx, id, userID, events.ActionDeleted)

	return nil
}

func (s *ExpenseService) publishChange(ctx context.Context, expenseID, userID int64, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseChange(ctx, expenseID, userID, action); err != nil {
		// Record is already persisted, the worker reconciles later
		slog.ErrorContext(ctx, "Failed to publish expense change",
			"expense_id", expenseID,
			"user_id", userID,
			"action", action,
			"error", err)
	}
}
