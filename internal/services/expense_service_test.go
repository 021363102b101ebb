package services

import (
	"context"
	"errors"
	"testing"

	"spendlog/internal/core"
	"spendlog/internal/events"
	"spendlog/internal/storage"
)

type recordedChange struct {
	expenseID int64
	userID    int64
	action    string
}

type fakePublisher struct {
	changes []recordedChange
	err     error
}

func (f *fakePublisher) PublishExpenseChange(ctx context.Context, expenseID, userID int64, action string) error {
	if f.err != nil {
		return f.err
	}
	f.changes = append(f.changes, recordedChange{expenseID, userID, action})
	return nil
}

func validExpense() core.Expense {
	d, _ := core.ParseDate("2024-03-01")
	return core.Expense{
		Description: "Lunch",
		Amount:      core.Money{Cents: 1250},
		Date:        d,
		Category:    "Food",
	}
}

func TestCreateExpensePublishesChange(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewExpenseService(storage.NewMemoryRepository(), pub)

	saved, err := svc.CreateExpense(context.Background(), 1, validExpense())
	if err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}
	if saved.ID == 0 {
		t.Error("CreateExpense() should assign an ID")
	}

	if len(pub.changes) != 1 {
		t.Fatalf("published %d changes, want 1", len(pub.changes))
	}
	got := pub.changes[0]
	if got.action != events.ActionCreated || got.expenseID != saved.ID || got.userID != 1 {
		t.Errorf("published change = %+v, want created for expense %d user 1", got, saved.ID)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewExpenseService(storage.NewMemoryRepository(), pub)

	e := validExpense()
	e.Description = "   "

	_, err := svc.CreateExpense(context.Background(), 1, e)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("CreateExpense() error = %v, want ErrValidation", err)
	}
	if len(pub.changes) != 0 {
		t.Error("rejected expense must not be published")
	}
}

// A broker outage must not fail the write; the record is persisted and the
// worker reconciles from the database later.
func TestCreateExpenseSurvivesPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	repo := storage.NewMemoryRepository()
	svc := NewExpenseService(repo, pub)

	saved, err := svc.CreateExpense(context.Background(), 1, validExpense())
	if err != nil {
		t.Fatalf("CreateExpense() error = %v, want nil despite publish failure", err)
	}

	if _, err := repo.GetExpense(context.Background(), 1, saved.ID); err != nil {
		t.Errorf("expense should be persisted: %v", err)
	}
}

func TestCreateExpenseNilPublisher(t *testing.T) {
	svc := NewExpenseService(storage.NewMemoryRepository(), nil)

	if _, err := svc.CreateExpense(context.Background(), 1, validExpense()); err != nil {
		t.Fatalf("CreateExpense() with nil publisher error = %v", err)
	}
}

func TestUpdateExpense(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewExpenseService(storage.NewMemoryRepository(), pub)
	ctx := context.Background()

	saved, err := svc.CreateExpense(ctx, 1, validExpense())
	if err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}

	saved.Description = "Dinner"
	updated, err := svc.UpdateExpense(ctx, 1, saved)
	if err != nil {
		t.Fatalf("UpdateExpense() error = %v", err)
	}
	if updated.Description != "Dinner" {
		t.Errorf("UpdateExpense() description = %q, want %q", updated.Description, "Dinner")
	}

	last := pub.changes[len(pub.changes)-1]
	if last.action != events.ActionUpdated {
		t.Errorf("last published action = %q, want %q", last.action, events.ActionUpdated)
	}
}

func TestUpdateExpenseNotFound(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewExpenseService(storage.NewMemoryRepository(), pub)

	e := validExpense()
	e.ID = 42
	_, err := svc.UpdateExpense(context.Background(), 1, e)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateExpense() error = %v, want ErrNotFound", err)
	}
	if len(pub.changes) != 0 {
		t.Error("failed update must not be published")
	}
}

func TestDeleteExpense(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewExpenseService(storage.NewMemoryRepository(), pub)
	ctx := context.Background()

	saved, err := svc.CreateExpense(ctx, 1, validExpense())
	if err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}

	if err := svc.DeleteExpense(ctx, 1, saved.ID); err != nil {
		t.Fatalf("DeleteExpense() error = %v", err)
	}

	last := pub.changes[len(pub.changes)-1]
	if last.action != events.ActionDeleted {
		t.Errorf("last published action = %q, want %q", last.action, events.ActionDeleted)
	}

	if err := svc.DeleteExpense(ctx, 1, saved.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second DeleteExpense() error = %v, want ErrNotFound", err)
	}
}
