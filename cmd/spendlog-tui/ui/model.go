package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"spendlog/cmd/spendlog-tui/client"
	"spendlog/internal/core"
)

// API is the server surface the views call. *client.Client satisfies it;
// tests substitute a fake.
type API interface {
	Register(username, email, password string) error
	Login(email, password string) (client.Session, error)
	Logout()
	ListExpenses() ([]core.Expense, error)
	CreateExpense(e core.Expense) (core.Expense, error)
	UpdateExpense(e core.Expense) (core.Expense, error)
	DeleteExpense(id int64) error
}

type View int

const (
	LoginView View = iota
	RegisterView
	TrackerView
	ReportView
)

// Messages crossing view boundaries.
type loginSuccessMsg struct{ session client.Session }
type registeredMsg struct{}
type sessionExpiredMsg struct{}
type showReportMsg struct{}

type Model struct {
	currentView View
	login       *LoginModel
	register    *RegisterModel
	tracker     *TrackerModel

	api     API
	session client.Session

	width  int
	height int
}

func NewModel(api API) Model {
	return Model{
		currentView: LoginView,
		login:       NewLoginModel(api),
		register:    NewRegisterModel(api),
		tracker:     NewTrackerModel(api),
		api:         api,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loginSuccessMsg:
		m.session = msg.session
		m.currentView = TrackerView
		return m, m.tracker.reloadCmd()

	case registeredMsg:
		m.currentView = LoginView
		m.login.status = "Account created, log in to continue"
		return m, nil

	case sessionExpiredMsg:
		// Any 401 drops the session and returns to login
		m.api.Logout()
		m.session = client.Session{}
		m.currentView = LoginView
		m.login.err = errSessionExpired
		return m, nil

	case showReportMsg:
		m.currentView = ReportView
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "ctrl+s":
			// Toggle between login and register
			if m.currentView == LoginView {
				m.currentView = RegisterView
				return m, nil
			}
			if m.currentView == RegisterView {
				m.currentView = LoginView
				return m, nil
			}
		}

		if m.currentView == ReportView {
			switch msg.String() {
			case "esc", "q", "v":
				m.currentView = TrackerView
				return m, nil
			}
			return m, nil
		}
	}

	switch m.currentView {
	case LoginView:
		updated, cmd := m.login.Update(msg)
		m.login = updated
		return m, cmd

	case RegisterView:
		updated, cmd := m.register.Update(msg)
		m.register = updated
		return m, cmd

	case TrackerView:
		updated, cmd := m.tracker.Update(msg)
		m.tracker = updated
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	switch m.currentView {
	case LoginView:
		return m.login.View()
	case RegisterView:
		return m.register.View()
	case TrackerView:
		return m.tracker.View()
	case ReportView:
		return renderReport(m.tracker.Expenses())
	}
	return ""
}
