package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"spendlog/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists users and expenses. Expense rows are scoped to
// their owner: every expense query filters by user id.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateUser inserts an account record. Username and email are unique;
// violating either yields ErrDuplicate.
func (r *SQLiteRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (core.User, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
		username, email, passwordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return core.User{}, ErrDuplicate
		}
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "User created", "user_id", id, "username", username)

	return r.GetUserByID(ctx, id)
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?", id)
	return scanUser(row)
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?", email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

// CreateExpense inserts an expense for the given owner and returns the
// stored record with its freshly assigned id.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, userID int64, e core.Expense) (core.Expense, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO expenses (user_id, description, amount_cents, date, category) VALUES (?, ?, ?, ?, ?)",
		userID, e.Description, e.Amount.Cents, e.Date.String(), e.Category,
	)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"expense_id", id,
		"user_id", userID,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)

	return r.GetExpense(ctx, userID, id)
}

// ListExpenses returns the owner's expenses in store (insertion) order.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, description, amount_cents, date, category FROM expenses WHERE user_id = ? ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, userID, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, description, amount_cents, date, category FROM expenses WHERE id = ? AND user_id = ?",
		id, userID,
	)
	var e core.Expense
	var dateStr string
	err := row.Scan(&e.ID, &e.Description, &e.Amount.Cents, &dateStr, &e.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	e.Date, err = core.ParseDate(dateStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("stored date %q: %w", dateStr, err)
	}
	return e, nil
}

// UpdateExpense replaces the full record addressed by e.ID. Last write wins:
// there is no version check, a concurrent update is silently overwritten.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, userID int64, e core.Expense) (core.Expense, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE expenses SET description = ?, amount_cents = ?, date = ?, category = ?, sync_status = 'pending', synced_at = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?",
		e.Description, e.Amount.Cents, e.Date.String(), e.Category, e.ID, userID,
	)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Expense{}, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.Expense{}, ErrNotFound
	}
	return r.GetExpense(ctx, userID, e.ID)
}

// DeleteExpense removes the record permanently. Deleting an id that does not
// exist (including a second delete) returns ErrNotFound.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Expense deleted", "expense_id", id, "user_id", userID)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(s scanner) (core.Expense, error) {
	var e core.Expense
	var dateStr string
	if err := s.Scan(&e.ID, &e.Description, &e.Amount.Cents, &dateStr, &e.Category); err != nil {
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	d, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("stored date %q: %w", dateStr, err)
	}
	e.Date = d
	return e, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
