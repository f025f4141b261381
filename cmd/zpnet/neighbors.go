package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/muurk/zpnet/internal/neighbor"
)

var showFuzzed bool

func init() {
	neighborsCmd.Flags().BoolVar(&showFuzzed, "fuzzed", false, "Include fuzzed neighbour addresses")
}

// neighborsCmd prints the reverse table used to name MAC addresses
var neighborsCmd = &cobra.Command{
	Use:   "neighbors",
	Short: "Show the MAC to host name table used in reports",
	Long: `Print the table built from the neighbor cache, reverse DNS and the
hosts section of the config file.

Access points often report a BSSID that differs from their wired MAC in
the last bytes, so each neighbour is also entered under its fuzzed
neighbour addresses. Those are hidden unless --fuzzed is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.runNeighbors(cmd.Context(), showFuzzed)
	},
}

func (a *app) runNeighbors(ctx context.Context, fuzzed bool) error {
	var t neighbor.Table
	err := a.spin(ctx, "Reading neighbor cache", func(ctx context.Context) error {
		var err error
		t, err = a.table(ctx)
		return err
	})
	if err != nil {
		return err
	}

	s := a.printer.Styles()
	a.printer.Println(s.Header.Render(fmt.Sprintf("%-17s  %s", "MAC", "Host")))
	for _, p := range t.Pairs() {
		if !p.Exact && !fuzzed {
			continue
		}
		line := fmt.Sprintf("%-17s  %s", p.MAC, p.Host)
		if p.Exact {
			a.printer.Println(s.Text.Render(line))
		} else {
			a.printer.Println(s.Muted.Render(line))
		}
	}
	return nil
}
