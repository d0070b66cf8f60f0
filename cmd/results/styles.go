package main

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true)

	// LabelStyle for summary labels.
	LabelStyle = lipgloss.NewStyle().Faint(true).Width(16)
)

// FormatReturn marks a return cell as up or down. Empty cells (undefined returns) stay empty.
func FormatReturn(value string) string {
	if value == "" {
		return value
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}

	if v > 0 {
		return value + " ▲"
	} else if v < 0 {
		return value + " ▼"
	}

	return value
}
