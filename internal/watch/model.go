package watch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/zpnet/internal/report"
	"github.com/muurk/zpnet/internal/ui"
)

// DefaultInterval is the time between automatic refreshes
const DefaultInterval = 10 * time.Second

// Refresher produces a fresh topology map.
type Refresher func(ctx context.Context) ([]report.Row, error)

// Messages
type refreshMsg struct {
	rows []report.Row
	err  error
	at   time.Time
}

// tickMsg fires a scheduled refresh. Only the tick scheduled after the
// latest refresh is live; older ones are dropped.
type tickMsg struct {
	gen int
	at  time.Time
}

// keyMap defines key bindings for the monitor
type keyMap struct {
	Refresh key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Refresh, k.Quit}}
}

// Model is a Bubble Tea model showing the topology map, refreshed on a
// timer or on demand.
type Model struct {
	ctx      context.Context
	refresh  Refresher
	interval time.Duration

	rows    []report.Row
	err     error
	updated time.Time
	loading bool
	rounds  int
	gen     int

	spinner spinner.Model
	help    help.Model
	keys    keyMap
	styles  ui.Styles

	Width  int
	Height int
}

// NewModel creates a monitor. A non-positive interval uses DefaultInterval.
func NewModel(ctx context.Context, refresh Refresher, interval time.Duration) Model {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return Model{
		ctx:      ctx,
		refresh:  refresh,
		interval: interval,
		loading:  true,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:     help.New(),
		keys: keyMap{
			Refresh: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "refresh"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "esc", "ctrl+c"),
				key.WithHelp("q", "quit"),
			),
		},
		styles: ui.NewStyles(nil),
	}
}

// Init starts the first refresh
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func (m Model) fetch() tea.Cmd {
	ctx, refresh := m.ctx, m.refresh
	return func() tea.Msg {
		rows, err := refresh(ctx)
		return refreshMsg{rows: rows, err: err, at: time.Now()}
	}
}

func (m Model) schedule() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.fetch())
		}

	case refreshMsg:
		m.loading = false
		m.rounds++
		m.gen++
		m.err = msg.err
		if msg.err == nil {
			m.rows = msg.rows
			m.updated = msg.at
		}
		return m, m.schedule()

	case tickMsg:
		if m.loading || msg.gen != m.gen {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.fetch())

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	status := "waiting for first answer"
	if !m.updated.IsZero() {
		status = "updated " + m.updated.Format("15:04:05")
	}
	if m.loading {
		status = m.spinner.View() + " " + status
	}
	b.WriteString(m.styles.Title.Render("zpnet watch") + "  " + m.styles.Muted.Render(status))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Header.Render(report.HeaderLine()))
	b.WriteString("\n")
	for _, r := range m.rows {
		style := m.styles.Coordinator
		if r.Level > 0 {
			style = m.styles.Member
		}
		b.WriteString(style.Render(report.FormatRow(r)))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Refresh failed: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// Rows returns the map currently shown
func (m Model) Rows() []report.Row {
	return m.rows
}
