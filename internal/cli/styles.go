package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
)

// Colors used in command output.
var (
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorSuccess = lipgloss.Color("#10B981") // Green
	colorWarning = lipgloss.Color("#F59E0B") // Amber
	colorError   = lipgloss.Color("#EF4444") // Red
	colorMuted   = lipgloss.Color("#9CA3AF") // Light gray
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	doneStyle    = lipgloss.NewStyle().Foreground(colorSuccess)
	overdueStyle = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(colorWarning)
)

// laneStyles colors the priority column.
var laneStyles = map[domain.Priority]lipgloss.Style{
	domain.PriorityCritical:  lipgloss.NewStyle().Foreground(colorError).Bold(true),
	domain.PriorityImportant: lipgloss.NewStyle().Foreground(colorWarning),
	domain.PrioritySomeday:   lipgloss.NewStyle().Foreground(colorMuted),
}

func laneLabel(p domain.Priority) string {
	if s, ok := laneStyles[p]; ok {
		return s.Render(string(p))
	}
	return string(p)
}

func checkbox(done bool) string {
	if done {
		return doneStyle.Render("[x]")
	}
	return "[ ]"
}
