package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"spendlog/cmd/spendlog-tui/client"
	"spendlog/internal/core"
)

type mode int

const (
	modeIdle mode = iota
	modeAdding
	modeEditing
)

// draft is the form state for adding or editing one expense. Fields stay as
// raw strings until submit so partial input never fails midway.
type draft struct {
	description string
	amount      string
	date        string
	category    string
	focused     int
}

const draftFields = 4

func newDraft() draft {
	return draft{
		date:     time.Now().Format("2006-01-02"),
		category: core.SuggestedCategories[0],
	}
}

func draftFromExpense(e core.Expense) draft {
	return draft{
		description: e.Description,
		amount:      e.Amount.DecimalString(),
		date:        e.Date.String(),
		category:    e.Category,
	}
}

func (d *draft) field(i int) *string {
	switch i {
	case 0:
		return &d.description
	case 1:
		return &d.amount
	case 2:
		return &d.date
	default:
		return &d.category
	}
}

// validate is the local gate before any network call.
func (d draft) validate() (core.Expense, error) {
	if strings.TrimSpace(d.description) == "" {
		return core.Expense{}, errors.New("description is required")
	}
	cents, err := core.ParseDecimalToCents(strings.TrimSpace(d.amount))
	if err != nil {
		return core.Expense{}, err
	}
	date, err := core.ParseDate(strings.TrimSpace(d.date))
	if err != nil {
		return core.Expense{}, err
	}
	if strings.TrimSpace(d.category) == "" {
		return core.Expense{}, errors.New("category is required")
	}

	e := core.Expense{
		Description: strings.TrimSpace(d.description),
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Category:    strings.TrimSpace(d.category),
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

// Tracker messages
type expensesLoadedMsg struct{ expenses []core.Expense }
type expenseSavedMsg struct {
	expense core.Expense
	created bool
}
type expenseDeletedMsg struct{ id int64 }
type trackerErrMsg struct{ err error }

type TrackerModel struct {
	api API

	// Last confirmed server state; mutated only on success messages
	expenses []core.Expense

	// Derived view state
	filtered []core.Expense
	cursor   int

	search      string
	searching   bool
	categoryIdx int // 0 = all, 1.. indexes SuggestedCategories

	mode    mode
	editID  int64
	draft   draft
	formErr error

	loading bool
	status  string
	err     error
}

func NewTrackerModel(api API) *TrackerModel {
	return &TrackerModel{api: api}
}

// Expenses returns the full unfiltered set, for the report view.
func (m *TrackerModel) Expenses() []core.Expense {
	return m.expenses
}

func (m *TrackerModel) categoryFilter() string {
	if m.categoryIdx == 0 {
		return ""
	}
	return core.SuggestedCategories[m.categoryIdx-1]
}

func (m *TrackerModel) applyFilter() {
	m.filtered = core.MatchExpenses(m.expenses, m.search, m.categoryFilter())
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *TrackerModel) reloadCmd() tea.Cmd {
	m.loading = true
	api := m.api
	return func() tea.Msg {
		expenses, err := api.ListExpenses()
		if err != nil {
			return toTrackerErr(err)
		}
		return expensesLoadedMsg{expenses: expenses}
	}
}

func saveCmd(api API, e core.Expense, editing bool) tea.Cmd {
	return func() tea.Msg {
		if editing {
			saved, err := api.UpdateExpense(e)
			if err != nil {
				return toTrackerErr(err)
			}
			return expenseSavedMsg{expense: saved}
		}
		saved, err := api.CreateExpense(e)
		if err != nil {
			return toTrackerErr(err)
		}
		return expenseSavedMsg{expense: saved, created: true}
	}
}

func deleteCmd(api API, id int64) tea.Cmd {
	return func() tea.Msg {
		if err := api.DeleteExpense(id); err != nil {
			return toTrackerErr(err)
		}
		return expenseDeletedMsg{id: id}
	}
}

func toTrackerErr(err error) tea.Msg {
	if client.IsUnauthorized(err) {
		return sessionExpiredMsg{}
	}
	return trackerErrMsg{err: err}
}

func (m *TrackerModel) Update(msg tea.Msg) (*TrackerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case expensesLoadedMsg:
		m.loading = false
		m.err = nil
		m.expenses = msg.expenses
		m.applyFilter()
		return m, nil

	case expenseSavedMsg:
		m.loading = false
		m.err = nil
		if msg.created {
			m.expenses = append(m.expenses, msg.expense)
			m.status = "Expense added"
		} else {
			for i := range m.expenses {
				if m.expenses[i].ID == msg.expense.ID {
					m.expenses[i] = msg.expense
					break
				}
			}
			m.status = "Expense updated"
		}
		m.mode = modeIdle
		m.draft = draft{}
		m.formErr = nil
		m.applyFilter()
		return m, nil

	case expenseDeletedMsg:
		m.loading = false
		m.err = nil
		for i := range m.expenses {
			if m.expenses[i].ID == msg.id {
				m.expenses = append(m.expenses[:i], m.expenses[i+1:]...)
				break
			}
		}
		m.status = "Expense deleted"
		m.applyFilter()
		return m, nil

	case trackerErrMsg:
		// Failure leaves the confirmed state intact
		m.loading = false
		if m.mode != modeIdle {
			m.formErr = msg.err
		} else {
			m.err = msg.err
		}
		return m, nil

	case tea.KeyMsg:
		// Keys are never gated on in-flight requests: the UI stays
		// interactive and overlapping requests are an accepted race
		if m.mode != modeIdle {
			return m.updateForm(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateIdle(msg)
	}
	return m, nil
}

func (m *TrackerModel) updateIdle(msg tea.KeyMsg) (*TrackerModel, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
	case "/":
		m.searching = true
	case "f":
		m.categoryIdx = (m.categoryIdx + 1) % (len(core.SuggestedCategories) + 1)
		m.applyFilter()
	case "a":
		m.mode = modeAdding
		m.editID = 0
		m.draft = newDraft()
		m.formErr = nil
	case "e":
		if len(m.filtered) > 0 {
			e := m.filtered[m.cursor]
			m.mode = modeEditing
			m.editID = e.ID
			m.draft = draftFromExpense(e)
			m.formErr = nil
		}
	case "d":
		if len(m.filtered) > 0 {
			m.loading = true
			return m, deleteCmd(m.api, m.filtered[m.cursor].ID)
		}
	case "r":
		return m, m.reloadCmd()
	case "v":
		return m, func() tea.Msg { return showReportMsg{} }
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *TrackerModel) updateSearch(msg tea.KeyMsg) (*TrackerModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search = ""
		m.searching = false
		m.applyFilter()
	case "enter":
		m.searching = false
	case "backspace":
		if len(m.search) > 0 {
			m.search = m.search[:len(m.search)-1]
			m.applyFilter()
		}
	default:
		if len(msg.Runes) == 1 {
			m.search += msg.String()
			m.applyFilter()
		}
	}
	return m, nil
}

func (m *TrackerModel) updateForm(msg tea.KeyMsg) (*TrackerModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeIdle
		m.draft = draft{}
		m.formErr = nil
	case "tab", "down":
		m.draft.focused = (m.draft.focused + 1) % draftFields
	case "shift+tab", "up":
		m.draft.focused = (m.draft.focused + draftFields - 1) % draftFields
	case "enter":
		expense, err := m.draft.validate()
		if err != nil {
			m.formErr = err
			return m, nil
		}
		editing := m.mode == modeEditing
		if editing {
			expense.ID = m.editID
		}
		m.loading = true
		m.formErr = nil
		return m, saveCmd(m.api, expense, editing)
	case "backspace":
		f := m.draft.field(m.draft.focused)
		if len(*f) > 0 {
			*f = (*f)[:len(*f)-1]
		}
	default:
		if len(msg.Runes) == 1 {
			*m.draft.field(m.draft.focused) += msg.String()
		}
	}
	return m, nil
}

func (m *TrackerModel) View() string {
	if m.mode != modeIdle {
		return m.formView()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("spendlog - expenses"))
	b.WriteString("\n\n")

	searchLabel := "search: " + m.search
	if m.searching {
		searchLabel += "_"
	}
	filterLabel := "category: all"
	if c := m.categoryFilter(); c != "" {
		filterLabel = "category: " + c
	}
	b.WriteString(helpStyle.Render(searchLabel + "   " + filterLabel))
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(helpStyle.Render("No expenses match."))
		b.WriteString("\n")
	}
	for i, e := range m.filtered {
		line := fmt.Sprintf("%s  %-30s %10s  %s",
			e.Date.String(), e.Description, e.Amount.DecimalString(), e.Category)
		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render("> " + line))
		} else {
			b.WriteString(rowStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.loading {
		b.WriteString(helpStyle.Render("Working..."))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("a add - e edit - d delete - / search - f filter - v report - r reload - q quit"))
	return boxStyle.Render(b.String())
}

func (m *TrackerModel) formView() string {
	var b strings.Builder
	if m.mode == modeEditing {
		b.WriteString(titleStyle.Render("spendlog - edit expense"))
	} else {
		b.WriteString(titleStyle.Render("spendlog - add expense"))
	}
	b.WriteString("\n\n")

	b.WriteString(renderField("Description", m.draft.description, m.draft.focused == 0))
	b.WriteString("\n")
	b.WriteString(renderField("Amount", m.draft.amount, m.draft.focused == 1))
	b.WriteString("\n")
	b.WriteString(renderField("Date", m.draft.date, m.draft.focused == 2))
	b.WriteString("\n")
	b.WriteString(renderField("Category", m.draft.category, m.draft.focused == 3))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(helpStyle.Render("Saving..."))
		b.WriteString("\n")
	}
	if m.formErr != nil {
		b.WriteString(errorStyle.Render(m.formErr.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab switch field - enter save - esc cancel"))
	return boxStyle.Render(b.String())
}
