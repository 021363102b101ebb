package ui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var errSessionExpired = errors.New("session expired, log in again")

type loginErrMsg struct{ err error }

type LoginModel struct {
	api API

	email    string
	password string
	focused  int

	loading bool
	err     error
	status  string
}

func NewLoginModel(api API) *LoginModel {
	return &LoginModel{api: api}
}

func loginCmd(api API, email, password string) tea.Cmd {
	return func() tea.Msg {
		session, err := api.Login(email, password)
		if err != nil {
			return loginErrMsg{err: err}
		}
		return loginSuccessMsg{session: session}
	}
}

func (m *LoginModel) Update(msg tea.Msg) (*LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginErrMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.focused = (m.focused + 1) % 2
		case "enter":
			if strings.TrimSpace(m.email) == "" || m.password == "" {
				m.err = errors.New("email and password are required")
				return m, nil
			}
			m.loading = true
			m.err = nil
			m.status = ""
			return m, loginCmd(m.api, strings.TrimSpace(m.email), m.password)
		case "backspace":
			if m.focused == 0 && len(m.email) > 0 {
				m.email = m.email[:len(m.email)-1]
			} else if m.focused == 1 && len(m.password) > 0 {
				m.password = m.password[:len(m.password)-1]
			}
		default:
			if len(msg.Runes) == 1 {
				if m.focused == 0 {
					m.email += msg.String()
				} else {
					m.password += msg.String()
				}
			}
		}
	}
	return m, nil
}

func (m *LoginModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("spendlog - login"))
	b.WriteString("\n\n")

	b.WriteString(renderField("Email", m.email, m.focused == 0))
	b.WriteString("\n")
	b.WriteString(renderField("Password", strings.Repeat("*", len(m.password)), m.focused == 1))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(helpStyle.Render("Logging in..."))
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

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab switch field - enter login - ctrl+s register - ctrl+c quit"))

	return boxStyle.Render(b.String())
}

func renderField(label, value string, focused bool) string {
	style := inputStyle
	if focused {
		style = focusedInputStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		labelStyle.Render(label+":"),
		style.Width(40).Render(value))
}
