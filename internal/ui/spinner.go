package ui

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrInterrupted is returned when the user aborts a spinner with ^C.
var ErrInterrupted = errors.New("interrupted")

type doneMsg struct{ err error }

// spinnerModel is a Bubble Tea model showing a spinner next to a label
// until the work it wraps reports completion.
type spinnerModel struct {
	spinner     spinner.Model
	label       string
	err         error
	done        bool
	interrupted bool
}

func newSpinnerModel(label string) spinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(PrimaryColor)),
	)
	return spinnerModel{spinner: s, label: label}
}

// Init implements tea.Model
func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model
func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.interrupted = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model
func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.label + "\n"
}

// RunWithSpinner runs fn while showing a spinner on out. When out is not a
// terminal fn simply runs. Pressing ^C cancels the context given to fn and
// returns ErrInterrupted once fn has returned.
func RunWithSpinner(ctx context.Context, out io.Writer, label string, fn func(context.Context) error) error {
	f, ok := out.(*os.File)
	if !ok || !IsTerminal(f) {
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newSpinnerModel(label), tea.WithOutput(out), tea.WithContext(ctx))

	result := make(chan error, 1)
	go func() {
		err := fn(ctx)
		result <- err
		p.Send(doneMsg{err: err})
	}()

	final, err := p.Run()
	if err != nil {
		cancel()
		<-result
		return err
	}

	if m, ok := final.(spinnerModel); ok && m.interrupted {
		cancel()
		<-result
		return ErrInterrupted
	}
	return <-result
}
