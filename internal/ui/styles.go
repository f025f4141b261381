package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - titles, spinner
	SuccessColor = lipgloss.Color("#43BF6D") // Green - coordinators, success
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors
	WarningColor = lipgloss.Color("#FFA500") // Orange - warnings, NOT OPTIMAL
	MutedColor   = lipgloss.Color("#626262") // Gray - group members, hints
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
)

// Markers
const (
	SuccessMarker = "✓"
	FailureMarker = "✗"
	WarningMarker = "⚠"
)

// Styles is the set of styles used by report output. Styles are bound to
// a renderer so that output to a pipe or file carries no escape codes.
type Styles struct {
	// Title is for section titles (e.g., "Sonos: Kitchen")
	Title lipgloss.Style

	// Header is for table column headers
	Header lipgloss.Style

	// Coordinator is for top-level topology rows
	Coordinator lipgloss.Style

	// Member is for indented group member rows
	Member lipgloss.Style

	// Text is for plain content lines
	Text lipgloss.Style

	// Muted is for secondary information
	Muted lipgloss.Style

	// Warning is for warnings and sub-optimal findings
	Warning lipgloss.Style

	// Error is for error text
	Error lipgloss.Style

	// Success is for success text
	Success lipgloss.Style
}

// NewStyles builds the style set for a renderer. A nil renderer uses the
// lipgloss default, which targets stdout.
func NewStyles(r *lipgloss.Renderer) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Styles{
		Title:       r.NewStyle().Foreground(TextColor).Bold(true),
		Header:      r.NewStyle().Foreground(PrimaryColor).Bold(true),
		Coordinator: r.NewStyle().Foreground(SuccessColor),
		Member:      r.NewStyle().Foreground(MutedColor),
		Text:        r.NewStyle().Foreground(TextColor),
		Muted:       r.NewStyle().Foreground(MutedColor),
		Warning:     r.NewStyle().Foreground(WarningColor).Bold(true),
		Error:       r.NewStyle().Foreground(ErrorColor),
		Success:     r.NewStyle().Foreground(SuccessColor).Bold(true),
	}
}

// GetTerminalWidth returns the width of the terminal w writes to, clamped
// to the supported range. Writers that are not terminals get the minimum.
func GetTerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return MinTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return MinTerminalWidth
	}
	return clampWidth(width)
}

func clampWidth(width int) int {
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}
