// Package ui holds the terminal styles shared by the commands.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Header    = lipgloss.NewStyle().Bold(true)
	Warn      = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	OK        = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	Muted     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	Animated  = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	barFilled = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	barEmpty  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Toast prints a transient, non-blocking warning to stderr. It is the CLI
// stand-in for the web client's toast notification.
func Toast(message string) {
	fmt.Fprintln(os.Stderr, Warn.Render("! "+message))
}

// Bar renders a progress bar of the given width for seen/total.
func Bar(seen, total, width int) string {
	if total <= 0 || width <= 0 {
		return barEmpty.Render(strings.Repeat("░", max(width, 0)))
	}
	filled := seen * width / total
	if filled > width {
		filled = width
	}
	return barFilled.Render(strings.Repeat("█", filled)) +
		barEmpty.Render(strings.Repeat("░", width-filled))
}

// StatusGlyph maps a watch status to its table marker.
func StatusGlyph(status string) string {
	switch status {
	case "seen":
		return OK.Render("✓")
	case "todo":
		return Warn.Render("•")
	default:
		return Muted.Render("·")
	}
}
