package shared

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true)
	LoadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	EmptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	HintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	LabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	ValueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
)

// TableStyles are the bubbles table styles shared by every resource table.
func TableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("51")).
		Bold(true)
	return s
}

// StatusStyle colours a resource status word.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "ok", "enabled", "public":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "pending", "disabled", "private":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case "problem":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	}
}
