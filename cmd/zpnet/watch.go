package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/zpnet/internal/aggregate"
	"github.com/muurk/zpnet/internal/discovery"
	"github.com/muurk/zpnet/internal/report"
	"github.com/muurk/zpnet/internal/ui"
	"github.com/muurk/zpnet/internal/watch"
)

var watchInterval time.Duration

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", watch.DefaultInterval, "Time between refreshes")
}

// watchCmd keeps the network map on screen
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the network map full screen, refreshing it periodically",
	Long: `Discover the household once, then query every player again each interval
and redraw the map. Press r to refresh now and q to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.IsTerminal(os.Stdout) {
			return fmt.Errorf("watch needs a terminal; use 'zpnet map' for scripts")
		}
		if watchInterval <= 0 {
			return fmt.Errorf("--interval must be positive")
		}

		ctx := cmd.Context()
		refresh, err := current.mapRefresher(ctx)
		if err != nil {
			return err
		}
		return watch.Run(ctx, os.Stdout, refresh, watchInterval)
	},
}

// mapRefresher discovers the household and builds the reverse table once,
// returning a function that re-queries every player.
func (a *app) mapRefresher(ctx context.Context) (watch.Refresher, error) {
	devices, err := a.discover(ctx)
	if err != nil {
		return nil, err
	}
	t, err := a.table(ctx)
	if err != nil {
		return nil, err
	}
	f := a.fetcher(t)
	ips := discovery.IPs(devices)
	coordinators := visibleCoordinators(devices)

	return func(ctx context.Context) ([]report.Row, error) {
		diag := aggregate.Run(ctx, ips, aggregate.Infallible(f.Fetch))
		states := aggregate.Run(ctx, coordinators, a.transportState)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return report.BuildMap(devices, aggregate.ByAddr(diag), aggregate.ByAddr(states)), nil
	}, nil
}
