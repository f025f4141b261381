package watch

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the monitor full screen on out until the user quits or ctx
// ends.
func Run(ctx context.Context, out io.Writer, refresh Refresher, interval time.Duration) error {
	p := tea.NewProgram(
		NewModel(ctx, refresh, interval),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
