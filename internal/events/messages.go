package events

import (
	"encoding/json"
	"time"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ExpenseChangeMessage is a lightweight change notification. It carries only
// the identifiers; consumers fetch the full record from the database, so a
// stale message body can never overwrite newer data.
type ExpenseChangeMessage struct {
	ExpenseID int64     `json:"expense_id"`
	UserID    int64     `json:"user_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseChangeMessage(expenseID, userID int64, action string) *ExpenseChangeMessage {
	return &ExpenseChangeMessage{
		ExpenseID: expenseID,
		UserID:    userID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func (m *ExpenseChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseChangeMessageFromJSON(data []byte) (*ExpenseChangeMessage, error) {
	var msg ExpenseChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
