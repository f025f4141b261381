package report

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/zpnet/internal/logging"
	"github.com/muurk/zpnet/internal/neighbor"
	"github.com/muurk/zpnet/internal/ui"
	"github.com/muurk/zpnet/internal/zpclient"
)

// Writer renders reports through a ui.Printer.
type Writer struct {
	p *ui.Printer
}

// NewWriter creates a report writer
func NewWriter(p *ui.Printer) *Writer {
	return &Writer{p: p}
}

// Map prints the topology map.
func (w *Writer) Map(rows []Row) {
	s := w.p.Styles()
	w.p.Println(s.Header.Render(HeaderLine()))
	for _, r := range rows {
		style := s.Coordinator
		if r.Level > 0 {
			style = s.Member
		}
		w.p.Println(style.Render(FormatRow(r)))
	}
}

// MapJSON prints the topology map as indented JSON.
func (w *Writer) MapJSON(rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w.p.Out())
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode map: %w", err)
	}
	return nil
}

// WiFiStatus prints one player's access point evaluation.
func (w *Writer) WiFiStatus(name string, st WiFiStatus) {
	s := w.p.Styles()
	w.p.Println(s.Title.Render(fmt.Sprintf("Sonos: %s (connected to %s)", name, st.Current)))
	w.p.PrintLines(st.Lines...)
	if st.NotOptimal {
		w.p.Println(s.Warning.Render(fmt.Sprintf(
			"******** NOT OPTIMAL: change access point from [%s] to [%s]", st.Current, st.BestAP)))
	}
	w.p.Newline()
	w.p.Newline()
}

// Blacklist prints one player's blacklist lines with MACs renamed.
func (w *Writer) Blacklist(name string, lines []string, t neighbor.Table) {
	w.p.Println(w.p.Styles().Title.Render("Sonos: " + name))
	for _, line := range lines {
		w.p.Println(Substitute(line, t))
	}
	w.p.Newline()
}

// RebootWarning announces which players are about to reboot.
func (w *Writer) RebootWarning(names []string, delay time.Duration) {
	w.p.PrintWarning(
		fmt.Sprintf("REBOOTING THESE SONOS IN %d SECONDS!", int(delay.Round(time.Second)/time.Second)),
		names,
		"Hit ^C to abort")
}

// RebootResult prints the outcome of one player's reboot request. Failures
// get a short message; the full error goes to the debug log.
func (w *Writer) RebootResult(name, response string, err error) {
	if err != nil {
		logging.Debug("Reboot request failed", zap.String("player", name), zap.Error(err))
		w.p.Println(w.p.Styles().Error.Render(name + ": " + zpclient.GetShortErrorMessage(err)))
		return
	}
	w.p.Println(response)
}

// Aborted reports a cancelled operation.
func (w *Writer) Aborted(what string) {
	w.p.Println(w.p.Styles().Muted.Render(what + " aborted."))
}
