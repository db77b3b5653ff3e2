package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/go-quote-sync/models"
)

var (
	appStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleStyle      = lipgloss.NewStyle().Bold(true)
	helpStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	selectedStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	categoryStyle   = lipgloss.NewStyle().Faint(true).Italic(true)
	markedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	overlayBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)

	logLevelStyles = map[models.LogLevel]lipgloss.Style{
		models.LogInfo:    lipgloss.NewStyle(),
		models.LogSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		models.LogWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		models.LogError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)
