package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"spendlog/cmd/spendlog-tui/client"
	"spendlog/cmd/spendlog-tui/ui"
)

func main() {
	baseURL := os.Getenv("SPENDLOG_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	apiClient := client.New(baseURL)

	p := tea.NewProgram(
		ui.NewModel(apiClient),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
