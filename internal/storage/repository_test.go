package storage

import (
	"context"
	"path/filepath"
	"testing"

	"spendlog/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RepositoryTestSuite exercises the SQLite repository against a throwaway
// database file (migrations open their own connection, so ":memory:" would
// migrate a different database).
type RepositoryTestSuite struct {
	suite.Suite
	repo *SQLiteRepository
	ctx  context.Context
}

func (s *RepositoryTestSuite) SetupTest() {
	dbPath := filepath.Join(s.T().TempDir(), "test.db")
	repo, err := NewSQLiteRepository(dbPath)
	require.NoError(s.T(), err, "failed to create test database")
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RepositoryTestSuite) TearDownTest() {
	if s.repo != nil {
		s.repo.Close()
	}
}

func (s *RepositoryTestSuite) mustCreateUser(username, email string) core.User {
	u, err := s.repo.CreateUser(s.ctx, username, email, "$2a$10$fakehashfakehashfakehash")
	require.NoError(s.T(), err)
	return u
}

func expense(desc string, cents int64, date, category string) core.Expense {
	d, _ := core.ParseDate(date)
	return core.Expense{Description: desc, Amount: core.Money{Cents: cents}, Date: d, Category: category}
}

func (s *RepositoryTestSuite) TestCreateUser() {
	u := s.mustCreateUser("alice", "alice@example.com")
	assert.NotZero(s.T(), u.ID)
	assert.Equal(s.T(), "alice", u.Username)
	assert.Equal(s.T(), "alice@example.com", u.Email)
}

func (s *RepositoryTestSuite) TestCreateUserDuplicateEmail() {
	s.mustCreateUser("alice", "alice@example.com")

	_, err := s.repo.CreateUser(s.ctx, "alice2", "alice@example.com", "hash")
	assert.ErrorIs(s.T(), err, ErrDuplicate)

	_, err = s.repo.CreateUser(s.ctx, "alice", "other@example.com", "hash")
	assert.ErrorIs(s.T(), err, ErrDuplicate, "duplicate username should also conflict")
}

func (s *RepositoryTestSuite) TestGetUserByEmail() {
	created := s.mustCreateUser("bob", "bob@example.com")

	u, err := s.repo.GetUserByEmail(s.ctx, "bob@example.com")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, u.ID)

	_, err = s.repo.GetUserByEmail(s.ctx, "nobody@example.com")
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *RepositoryTestSuite) TestCreateExpenseAssignsID() {
	u := s.mustCreateUser("alice", "alice@example.com")

	e, err := s.repo.CreateExpense(s.ctx, u.ID, expense("Lunch", 1250, "2024-03-01", "Food"))
	require.NoError(s.T(), err)
	assert.NotZero(s.T(), e.ID)
	assert.Equal(s.T(), "Lunch", e.Description)
	assert.Equal(s.T(), int64(1250), e.Amount.Cents)
	assert.Equal(s.T(), "2024-03-01", e.Date.String())
	assert.Equal(s.T(), "Food", e.Category)
}

func (s *RepositoryTestSuite) TestListExpensesStoreOrder() {
	u := s.mustCreateUser("alice", "alice@example.com")

	first, err := s.repo.CreateExpense(s.ctx, u.ID, expense("Coffee", 300, "2024-03-02", "Food"))
	require.NoError(s.T(), err)
	second, err := s.repo.CreateExpense(s.ctx, u.ID, expense("Bus", 200, "2024-03-01", "Transport"))
	require.NoError(s.T(), err)

	list, err := s.repo.ListExpenses(s.ctx, u.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 2)
	// Store order is insertion order, not date order
	assert.Equal(s.T(), first.ID, list[0].ID)
	assert.Equal(s.T(), second.ID, list[1].ID)
}

func (s *RepositoryTestSuite) TestExpensesScopedToOwner() {
	alice := s.mustCreateUser("alice", "alice@example.com")
	bob := s.mustCreateUser("bob", "bob@example.com")

	e, err := s.repo.CreateExpense(s.ctx, alice.ID, expense("Lunch", 1000, "2024-03-01", "Food"))
	require.NoError(s.T(), err)

	list, err := s.repo.ListExpenses(s.ctx, bob.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), list, "bob should not see alice's expenses")

	_, err = s.repo.GetExpense(s.ctx, bob.ID, e.ID)
	assert.ErrorIs(s.T(), err, ErrNotFound)

	err = s.repo.DeleteExpense(s.ctx, bob.ID, e.ID)
	assert.ErrorIs(s.T(), err, ErrNotFound, "cross-user delete must look like a missing record")
}

func (s *RepositoryTestSuite) TestUpdateExpense() {
	u := s.mustCreateUser("alice", "alice@example.com")
	e, err := s.repo.CreateExpense(s.ctx, u.ID, expense("Lunch", 1000, "2024-03-01", "Food"))
	require.NoError(s.T(), err)

	e.Description = "Dinner"
	e.Amount.Cents = 2500
	updated, err := s.repo.UpdateExpense(s.ctx, u.ID, e)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Dinner", updated.Description)
	assert.Equal(s.T(), int64(2500), updated.Amount.Cents)
}

func (s *RepositoryTestSuite) TestUpdateUnknownID() {
	u := s.mustCreateUser("alice", "alice@example.com")

	missing := expense("Ghost", 100, "2024-03-01", "Food")
	missing.ID = 9999
	_, err := s.repo.UpdateExpense(s.ctx, u.ID, missing)
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

// Two sequential full-record updates to the same id: the second silently
// overwrites the first. Last-write-wins is the accepted model, there is no
// conflict signal to assert on.
func (s *RepositoryTestSuite) TestUpdateLastWriteWins() {
	u := s.mustCreateUser("alice", "alice@example.com")
	e, err := s.repo.CreateExpense(s.ctx, u.ID, expense("Lunch", 1000, "2024-03-01", "Food"))
	require.NoError(s.T(), err)

	first := e
	first.Description = "Writer A"
	second := e
	second.Description = "Writer B"

	_, err = s.repo.UpdateExpense(s.ctx, u.ID, first)
	require.NoError(s.T(), err)
	_, err = s.repo.UpdateExpense(s.ctx, u.ID, second)
	require.NoError(s.T(), err)

	got, err := s.repo.GetExpense(s.ctx, u.ID, e.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Writer B", got.Description)
}

func (s *RepositoryTestSuite) TestDeleteIdempotentToError() {
	u := s.mustCreateUser("alice", "alice@example.com")
	e, err := s.repo.CreateExpense(s.ctx, u.ID, expense("Lunch", 1000, "2024-03-01", "Food"))
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.repo.DeleteExpense(s.ctx, u.ID, e.ID))

	err = s.repo.DeleteExpense(s.ctx, u.ID, e.ID)
	assert.ErrorIs(s.T(), err, ErrNotFound, "second delete is not-found, never double-success")
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
