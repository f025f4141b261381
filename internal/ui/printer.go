package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Printer provides methods for printing styled output to a writer.
type Printer struct {
	out      io.Writer
	width    int
	renderer *lipgloss.Renderer
	styles   Styles
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	r := lipgloss.NewRenderer(w)
	return &Printer{
		out:      w,
		width:    GetTerminalWidth(w),
		renderer: r,
		styles:   NewStyles(r),
	}
}

// Out returns the underlying writer
func (p *Printer) Out() io.Writer {
	return p.out
}

// Styles returns the styles bound to this printer's output
func (p *Printer) Styles() Styles {
	return p.styles
}

// Width returns the current terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Printf writes formatted content
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// PrintLines writes multiple lines
func (p *Printer) PrintLines(lines ...string) {
	for _, line := range lines {
		_, _ = fmt.Fprintln(p.out, line)
	}
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintWarning prints a warning title, a tab-indented item list and a
// muted footer.
func (p *Printer) PrintWarning(title string, items []string, footer string) {
	p.Println(p.styles.Warning.Render(title))
	for _, item := range items {
		p.Println("\t" + p.styles.Text.Render(item))
	}
	if footer != "" {
		p.Println(p.styles.Muted.Render(footer))
	}
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	p.Println(p.RenderErrorBox(title, err, troubleshooting))
}

// RenderErrorBox renders an error result box with troubleshooting
func (p *Printer) RenderErrorBox(title string, err error, troubleshooting []string) string {
	var lines []string

	lines = append(lines, p.styles.Error.Bold(true).Render(FailureMarker+"  FAILED  ─  "+title))

	if err != nil {
		lines = append(lines, "", p.styles.Error.Render("Error: "+err.Error()))
	}

	if len(troubleshooting) > 0 {
		lines = append(lines, "", p.styles.Muted.Bold(true).Render("Troubleshooting:"))
		for _, tip := range troubleshooting {
			lines = append(lines, p.styles.Muted.Render("  • "+tip))
		}
	}

	return p.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ErrorColor).
		Width(p.width-2).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
