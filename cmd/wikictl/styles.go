package main

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent  = lipgloss.Color("#22c55e")
	colorInfo    = lipgloss.Color("#06B6D4")
	colorMuted   = lipgloss.Color("#6C7086")
	colorWarning = lipgloss.Color("#F9E2AF")
	colorError   = lipgloss.Color("#F38BA8")

	titleStyle   = lipgloss.NewStyle().Bold(true)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorError)

	badgeStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true)

	// Badge colours per match type
	badgeColors = map[string]lipgloss.Color{
		"title":       colorAccent,
		"description": colorInfo,
		"heading":     colorWarning,
		"content":     colorMuted,
	}
)

// badge renders a match type label, e.g. [title]
func badge(matchType string) string {
	style := badgeStyle
	if c, ok := badgeColors[matchType]; ok {
		style = style.Foreground(c)
	}
	return style.Render(matchType)
}
