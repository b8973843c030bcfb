package commands

import (
	"github.com/cardsvc-io/cardctl/pkg/cardapi"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Terminal colors for status badges and forms.
var (
	colorGreen  = lipgloss.Color("#34D399")
	colorYellow = lipgloss.Color("#FBBF24")
	colorBlue   = lipgloss.Color("#60A5FA")
	colorGray   = lipgloss.Color("#9CA3AF")
	colorRed    = lipgloss.Color("#F87171")
	colorCyan   = lipgloss.Color("#06B6D4")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(colorGray)

	statusStyles = map[cardapi.Status]lipgloss.Style{
		cardapi.StatusCreated:    lipgloss.NewStyle().Foreground(colorBlue).Bold(true),
		cardapi.StatusInProgress: lipgloss.NewStyle().Foreground(colorYellow).Bold(true),
		cardapi.StatusReady:      lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
		cardapi.StatusDelivered:  lipgloss.NewStyle().Foreground(colorGray).Bold(true),
		cardapi.StatusCancelled:  lipgloss.NewStyle().Foreground(colorRed).Bold(true),
	}
)

// statusBadge renders a status as a colored, localized label.
func statusBadge(status cardapi.Status) string {
	label := messages().StatusLabel(language(), status)

	if style, ok := statusStyles[status]; ok {
		return style.Render(label)
	}

	return label
}

// formTheme returns the huh theme shared by the interactive forms.
func formTheme() *huh.Theme {
	theme := huh.ThemeBase()

	theme.Focused.Title = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	theme.Focused.Description = lipgloss.NewStyle().Foreground(colorGray)
	theme.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(colorRed).SetString(" *")
	theme.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(colorRed)
	theme.Focused.SelectSelector = lipgloss.NewStyle().Foreground(colorCyan).SetString("> ")
	theme.Blurred.Title = lipgloss.NewStyle().Foreground(colorGray)

	return theme
}
