package main

import "github.com/charmbracelet/lipgloss"

var (
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e53935"))
	styleWarning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFC107"))
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8f98"))
	styleOk      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	styleHeading = lipgloss.NewStyle().Bold(true).Underline(true)
)
