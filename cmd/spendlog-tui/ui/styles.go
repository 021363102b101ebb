package ui

import "github.com/charmbracelet/lipgloss"

var (
	colPrimary = lipgloss.Color("#00ADD8")
	colAccent  = lipgloss.Color("#CE3262")
	colSuccess = lipgloss.Color("#00D9A5")
	colError   = lipgloss.Color("#FF5A87")
	colMuted   = lipgloss.Color("#6B7B8C")
	colText    = lipgloss.Color("#E3F2FD")

	titleStyle = lipgloss.NewStyle().
			Foreground(colPrimary).
			Bold(true).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colPrimary).
			Padding(1, 2)

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(colAccent).
				Bold(true)

	rowStyle = lipgloss.NewStyle().
			Foreground(colText)

	labelStyle = lipgloss.NewStyle().
			Foreground(colPrimary).
			Width(14)

	inputStyle = lipgloss.NewStyle().
			Foreground(colText).
			Border(lipgloss.NormalBorder()).
			BorderForeground(colMuted).
			Padding(0, 1)

	focusedInputStyle = lipgloss.NewStyle().
				Foreground(colText).
				Border(lipgloss.NormalBorder()).
				BorderForeground(colAccent).
				Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(colSuccess)

	errorStyle = lipgloss.NewStyle().
			Foreground(colError).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colMuted).
			Italic(true)
)
