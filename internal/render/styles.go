// Package render turns posts and engagement data into terminal output.
package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))
)

func Title(s string) string   { return titleStyle.Render(s) }
func Heading(s string) string { return headingStyle.Render(s) }
func Help(s string) string    { return helpStyle.Render(s) }
func Status(s string) string  { return statusStyle.Render(s) }

func Error(err error) string {
	return errorStyle.Render(fmt.Sprintf("Error: %v", err))
}

// Failure renders a failed business outcome, which carries a message but
// not necessarily an error.
func Failure(msg string) string {
	return errorStyle.Render(msg)
}
