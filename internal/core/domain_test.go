package core

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.String() != "2024-03-01" {
		t.Fatalf("expected normalized form, got %q", d.String())
	}

	if _, err := ParseDate(" 2024-03-01 "); err != nil {
		t.Fatalf("expected trimmed input to parse, got %v", err)
	}

	bads := []string{"", "03/01/2024", "2024-13-01", "2024-03-01T10:00:00Z", "yesterday"}
	for _, s := range bads {
		if _, err := ParseDate(s); err == nil {
			t.Fatalf("%q expected error", s)
		}
	}
}

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -50}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Date:        NewDate(2025, 1, 1),
		Description: "ok",
		Amount:      Money{Cents: 100},
		Category:    "Food",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Date: Date{Time: time.Time{}}, Description: "a", Amount: Money{Cents: 1}, Category: "c"}, // zero date
		{Date: NewDate(2025, 1, 1), Description: "", Amount: Money{Cents: 1}, Category: "c"},
		{Date: NewDate(2025, 1, 1), Description: "   ", Amount: Money{Cents: 1}, Category: "c"},
		{Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 0}, Category: "c"},
		{Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 1}, Category: ""},
		{Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 1}, Category: "  "},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
