package storage

import (
	"context"
	"sync"

	"spendlog/internal/core"
)

// MemoryRepository is an in-memory implementation of the same store surface
// as SQLiteRepository. It backs the "memory" data backend and tests; nothing
// survives a restart.
type MemoryRepository struct {
	mu         sync.Mutex
	users      map[int64]core.User
	expenses   map[int64]memExpense
	nextUserID int64
	nextExpID  int64
	order      []int64 // expense insertion order
}

type memExpense struct {
	userID     int64
	e          core.Expense
	syncStatus string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:      make(map[int64]core.User),
		expenses:   make(map[int64]memExpense),
		nextUserID: 1,
		nextExpID:  1,
	}
}

func (r *MemoryRepository) Close() error { return nil }

func (r *MemoryRepository) Ping(ctx context.Context) error { return nil }

func (r *MemoryRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (core.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return core.User{}, ErrDuplicate
		}
	}

	u := core.User{
		ID:           r.nextUserID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	r.users[u.ID] = u
	r.nextUserID++
	return u, nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id int64) (core.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return core.User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return core.User{}, ErrNotFound
}

func (r *MemoryRepository) CreateExpense(ctx context.Context, userID int64, e core.Expense) (core.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.ID = r.nextExpID
	r.nextExpID++
	r.expenses[e.ID] = memExpense{userID: userID, e: e, syncStatus: SyncStatusPending}
	r.order = append(r.order, e.ID)
	return e, nil
}

func (r *MemoryRepository) ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []core.Expense
	for _, id := range r.order {
		if me, ok := r.expenses[id]; ok && me.userID == userID {
			out = append(out, me.e)
		}
	}
	return out, nil
}

func (r *MemoryRepository) GetExpense(ctx context.Context, userID, id int64) (core.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	me, ok := r.expenses[id]
	if !ok || me.userID != userID {
		return core.Expense{}, ErrNotFound
	}
	return me.e, nil
}

func (r *MemoryRepository) UpdateExpense(ctx context.Context, userID int64, e core.Expense) (core.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	me, ok := r.expenses[e.ID]
	if !ok || me.userID != userID {
		return core.Expense{}, ErrNotFound
	}
	me.e = e
	me.syncStatus = SyncStatusPending
	r.expenses[e.ID] = me
	return e, nil
}

func (r *MemoryRepository) DeleteExpense(ctx context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	me, ok := r.expenses[id]
	if !ok || me.userID != userID {
		return ErrNotFound
	}
	delete(r.expenses, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRepository) GetExpenseAnyUser(ctx context.Context, id int64) (OwnedExpense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	me, ok := r.expenses[id]
	if !ok {
		return OwnedExpense{}, ErrNotFound
	}
	return OwnedExpense{UserID: me.userID, Expense: me.e}, nil
}

func (r *MemoryRepository) GetPendingSyncExpenses(ctx context.Context, limit int) ([]OwnedExpense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var pending []OwnedExpense
	for _, id := range r.order {
		if len(pending) >= limit {
			break
		}
		me := r.expenses[id]
		if me.syncStatus != SyncStatusSynced {
			pending = append(pending, OwnedExpense{UserID: me.userID, Expense: me.e})
		}
	}
	return pending, nil
}

func (r *MemoryRepository) MarkSynced(ctx context.Context, id int64) error {
	return r.setSyncStatus(id, SyncStatusSynced)
}

func (r *MemoryRepository) MarkSyncError(ctx context.Context, id int64) error {
	return r.setSyncStatus(id, SyncStatusError)
}

func (r *MemoryRepository) setSyncStatus(id int64, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	me, ok := r.expenses[id]
	if !ok {
		return ErrNotFound
	}
	me.syncStatus = status
	r.expenses[id] = me
	return nil
}
