package report

import (
	"fmt"
	"strings"

	"github.com/muurk/zpnet/internal/diagnostics"
	"github.com/muurk/zpnet/internal/discovery"
)

const rowFormat = "%-18.18s %25.25s %-18.18s  %5.5s %5.5s %5.5s %6.6s"

// Row is one line of the topology map.
type Row struct {
	Level       int                     `json:"level"`
	Name        string                  `json:"name"`
	IP          string                  `json:"ip"`
	State       string                  `json:"state,omitempty"`
	Diagnostics diagnostics.Diagnostics `json:"diagnostics"`
}

// BuildMap lays out the topology: each coordinator in device order, then
// the other members of its group sorted by name. Transport state is shown
// only for visible coordinators.
func BuildMap(devices []*discovery.Device, diag map[string]diagnostics.Diagnostics, states map[string]string) []Row {
	var rows []Row
	for _, d := range devices {
		if !d.Coordinator {
			continue
		}

		row := Row{Name: d.Name, IP: d.IP, Diagnostics: diag[d.IP]}
		if d.Visible() {
			row.State = states[d.IP]
		}
		rows = append(rows, row)

		for _, m := range d.Members() {
			rows = append(rows, Row{Level: 1, Name: m.Name, IP: m.IP, Diagnostics: diag[m.IP]})
		}
	}
	return rows
}

// HeaderLine returns the column header of the map.
func HeaderLine() string {
	return fmt.Sprintf(rowFormat, "Sonos", "Network", "State", "RSSI", "B#", "Drops", "CHSNK")
}

// FormatRow renders a row in fixed-width columns.
func FormatRow(r Row) string {
	d := r.Diagnostics
	return fmt.Sprintf(rowFormat,
		strings.Repeat("  ", r.Level)+r.Name,
		fmt.Sprintf("%s (%s)", d.Network, d.Channel),
		r.State,
		d.RSSI,
		d.Beacons,
		d.Drops,
		d.CHSNKScore)
}
