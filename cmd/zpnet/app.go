package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/muurk/zpnet/internal/config"
	"github.com/muurk/zpnet/internal/diagnostics"
	"github.com/muurk/zpnet/internal/discovery"
	"github.com/muurk/zpnet/internal/neighbor"
	"github.com/muurk/zpnet/internal/report"
	"github.com/muurk/zpnet/internal/ui"
)

// current is the app set up by the root command for this invocation
var current *app

// app carries what one invocation needs: the merged configuration and
// the output streams.
type app struct {
	cfg     *config.Config
	printer *ui.Printer
	report  *report.Writer

	// progress receives the spinner; it keeps stdout clean for pipes
	progress io.Writer

	// source and namer default to the system neighbor cache and DNS
	source neighbor.Source
	namer  *neighbor.Namer
}

func newApp(cfg *config.Config) *app {
	return newAppWithOutput(cfg, os.Stdout, os.Stderr)
}

func newAppWithOutput(cfg *config.Config, out, progress io.Writer) *app {
	printer := ui.NewPrinter(out)
	return &app{
		cfg:      cfg,
		printer:  printer,
		report:   report.NewWriter(printer),
		progress: progress,
	}
}

// discover finds the household's players.
func (a *app) discover(ctx context.Context) ([]*discovery.Device, error) {
	scanner := discovery.NewScanner()
	scanner.Timeout = a.cfg.DiscoverTimeoutDuration()
	scanner.RequestTimeout = a.cfg.RequestTimeoutDuration()
	scanner.Interface = a.cfg.Interface
	scanner.Seeds = a.cfg.Devices

	var devices []*discovery.Device
	err := ui.RunWithSpinner(ctx, a.progress, "Looking for Sonos devices", func(ctx context.Context) error {
		var err error
		devices, err = scanner.Discover(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, discovery.ErrNoDevices
	}
	return devices, nil
}

// table builds the reverse neighbor table for this invocation.
func (a *app) table(ctx context.Context) (neighbor.Table, error) {
	hosts, err := a.cfg.StaticHosts()
	if err != nil {
		return neighbor.Table{}, fmt.Errorf("failed to read host overrides: %w", err)
	}

	src := a.source
	if src == nil {
		src = neighbor.DefaultSource(a.cfg.NeighborCache)
	}
	namer := a.namer
	if namer == nil {
		namer = neighbor.NewNamer(nil)
	}

	return neighbor.BuildTable(ctx, src, namer, neighbor.WithStatic(hosts)), nil
}

func (a *app) fetcher(t neighbor.Table) *diagnostics.Fetcher {
	f := diagnostics.NewFetcher(t)
	f.Timeout = a.cfg.RequestTimeoutDuration()
	return f
}

// spin runs fn behind the progress spinner.
func (a *app) spin(ctx context.Context, label string, fn func(ctx context.Context) error) error {
	return ui.RunWithSpinner(ctx, a.progress, label, fn)
}
