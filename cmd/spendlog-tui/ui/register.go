package ui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type registerErrMsg struct{ err error }

type RegisterModel struct {
	api API

	username string
	email    string
	password string
	focused  int

	loading bool
	err     error
}

func NewRegisterModel(api API) *RegisterModel {
	return &RegisterModel{api: api}
}

func registerCmd(api API, username, email, password string) tea.Cmd {
	return func() tea.Msg {
		if err := api.Register(username, email, password); err != nil {
			return registerErrMsg{err: err}
		}
		return registeredMsg{}
	}
}

func (m *RegisterModel) field(i int) *string {
	switch i {
	case 0:
		return &m.username
	case 1:
		return &m.email
	default:
		return &m.password
	}
}

func (m *RegisterModel) Update(msg tea.Msg) (*RegisterModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registerErrMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			m.focused = (m.focused + 1) % 3
		case "shift+tab", "up":
			m.focused = (m.focused + 2) % 3
		case "enter":
			if strings.TrimSpace(m.username) == "" || strings.TrimSpace(m.email) == "" || m.password == "" {
				m.err = errors.New("all fields are required")
				return m, nil
			}
			m.loading = true
			m.err = nil
			return m, registerCmd(m.api, strings.TrimSpace(m.username), strings.TrimSpace(m.email), m.password)
		case "backspace":
			f := m.field(m.focused)
			if len(*f) > 0 {
				*f = (*f)[:len(*f)-1]
			}
		default:
			if len(msg.Runes) == 1 {
				*m.field(m.focused) += msg.String()
			}
		}
	}
	return m, nil
}

func (m *RegisterModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("spendlog - register"))
	b.WriteString("\n\n")

	b.WriteString(renderField("Username", m.username, m.focused == 0))
	b.WriteString("\n")
	b.WriteString(renderField("Email", m.email, m.focused == 1))
	b.WriteString("\n")
	b.WriteString(renderField("Password", strings.Repeat("*", len(m.password)), m.focused == 2))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(helpStyle.Render("Creating account..."))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab switch field - enter register - ctrl+s back to login - ctrl+c quit"))

	return boxStyle.Render(b.String())
}
