package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar date with no time component, normalized to UTC midnight.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Expense is one dated, categorized monetary line item owned by one user.
	Expense struct {
		ID          int64
		Date        Date
		Description string
		Amount      Money
		Category    string
	}

	// User is an account record. PasswordHash is the bcrypt credential,
	// never the plaintext.
	User struct {
		ID           int64
		Username     string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
)

// SuggestedCategories are offered to clients as a starting set.
// Category remains free-form; anything non-empty is accepted.
var SuggestedCategories = []string{"Food", "Transport", "Entertainment", "Utilities", "Other"}

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String returns the normalized YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}
