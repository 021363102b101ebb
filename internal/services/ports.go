package services

import (
	"context"

	"spendlog/internal/core"
)

// UserStore is the account persistence surface the auth service needs.
// Both SQLiteRepository and MemoryRepository satisfy it.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (core.User, error)
	GetUserByID(ctx context.Context, id int64) (core.User, error)
	GetUserByEmail(ctx context.Context, email string) (core.User, error)
}

// ExpenseStore is the expense persistence surface. All operations are scoped
// to the owning user.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, userID int64, e core.Expense) (core.Expense, error)
	ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error)
	GetExpense(ctx context.Context, userID, id int64) (core.Expense, error)
	UpdateExpense(ctx context.Context, userID int64, e core.Expense) (core.Expense, error)
	DeleteExpense(ctx context.Context, userID, id int64) error
}

// ChangePublisher emits expense change notifications. A nil publisher is
// valid and disables publishing.
type ChangePublisher interface {
	PublishExpenseChange(ctx context.Context, expenseID, userID int64, action string) error
}
