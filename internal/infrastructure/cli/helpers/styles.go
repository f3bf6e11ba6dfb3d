package helpers

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/doeshing/tunemate-go/internal/domain"
)

var (
	ColorPrimary = lipgloss.Color("#7C3AED")
	ColorSuccess = lipgloss.Color("#10B981")
	ColorWarn    = lipgloss.Color("#F59E0B")
	ColorError   = lipgloss.Color("#EF4444")
	ColorMuted   = lipgloss.Color("#6B7280")

	Title = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	Muted = lipgloss.NewStyle().
		Foreground(ColorMuted)

	Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted).
		Padding(0, 1)

	statusStyles = map[domain.HealthStatus]lipgloss.Style{
		domain.HealthOK:    lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
		domain.HealthWarn:  lipgloss.NewStyle().Foreground(ColorWarn).Bold(true),
		domain.HealthError: lipgloss.NewStyle().Foreground(ColorError).Bold(true),
	}
)

// StatusStyle colors a doctor check status.
func StatusStyle(status domain.HealthStatus) lipgloss.Style {
	if style, ok := statusStyles[status]; ok {
		return style
	}
	return Muted
}

// OutcomeStyle colors a result outcome.
func OutcomeStyle(outcome domain.Outcome) lipgloss.Style {
	switch outcome {
	case domain.OutcomeParsed:
		return statusStyles[domain.HealthOK]
	case domain.OutcomeDegraded:
		return statusStyles[domain.HealthWarn]
	default:
		return statusStyles[domain.HealthError]
	}
}
