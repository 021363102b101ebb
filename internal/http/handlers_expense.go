package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"spendlog/internal/core"
)

// expensePayload is the request shape for create and update. Amount arrives
// as a JSON number or numeric string and is parsed into cents without going
// through float64.
type expensePayload struct {
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Date        string      `json:"date"`
	Category    string      `json:"category"`
}

type expenseJSON struct {
	ID          int64       `json:"id"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Date        string      `json:"date"`
	Category    string      `json:"category"`
}

func toExpenseJSON(e core.Expense) expenseJSON {
	return expenseJSON{
		ID:          e.ID,
		Description: e.Description,
		Amount:      json.Number(e.Amount.DecimalString()),
		Date:        e.Date.String(),
		Category:    e.Category,
	}
}

func (p expensePayload) toExpense() (core.Expense, error) {
	cents, err := core.ParseDecimalToCents(p.Amount.String())
	if err != nil {
		return core.Expense{}, err
	}

	date, err := core.ParseDate(p.Date)
	if err != nil {
		return core.Expense{}, err
	}

	return core.Expense{
		Description: strings.TrimSpace(p.Description),
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Category:    strings.TrimSpace(p.Category),
	}, nil
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid token"})
		return
	}

	expenses, err := s.expenses.ListExpenses(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]expenseJSON, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseJSON(e))
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid token"})
		return
	}

	var payload expensePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	expense, err := payload.toExpense()
	if err != nil {
		writeError(w, r, err)
		return
	}

	saved, err := s.expenses.CreateExpense(r.Context(), userID, expense)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseJSON(saved))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid token"})
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid expense id")
		return
	}

	var payload expensePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	expense, err := payload.toExpense()
	if err != nil {
		writeError(w, r, err)
		return
	}
	expense.ID = id

	updated, err := s.expenses.UpdateExpense(r.Context(), userID, expense)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toExpenseJSON(updated))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid token"})
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid expense id")
		return
	}

	if err := s.expenses.DeleteExpense(r.Context(), userID, id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
