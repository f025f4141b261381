package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/zpnet/internal/aggregate"
	"github.com/muurk/zpnet/internal/diagnostics"
	"github.com/muurk/zpnet/internal/discovery"
	"github.com/muurk/zpnet/internal/logging"
	"github.com/muurk/zpnet/internal/neighbor"
	"github.com/muurk/zpnet/internal/report"
	"github.com/muurk/zpnet/internal/ui"
	"github.com/muurk/zpnet/internal/zpclient"
)

// Command flags
var (
	outputFormat string
	wifiFilter   string
)

func init() {
	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(wifiStatusCmd)
	rootCmd.AddCommand(wifiBlacklistCmd)
	rootCmd.AddCommand(rebootCmd)
	rootCmd.AddCommand(neighborsCmd)

	mapCmd.Flags().StringVar(&outputFormat, "format", "table", "Output format (table, json)")
	wifiStatusCmd.Flags().StringVar(&wifiFilter, "filter", "", "Only show scan results containing this text (e.g. an SSID)")
}

// mapCmd prints the household topology with per-player link quality
var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Show the network map of all zone players",
	Long: `Show every group coordinator followed by the other members of its group.

For each player the access point (or "Wired") and channel are shown with
the transport state of visible coordinators, RSSI, beacon count, receive
drops and the CHSNK fill score. Fields that a player does not report are
left blank.`,
	Example: `  # Map with mDNS discovery
  zpnet map

  # Start from a known player, machine readable
  zpnet map --device 192.168.1.20 --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.runMap(cmd.Context(), outputFormat)
	},
}

func (a *app) runMap(ctx context.Context, format string) error {
	if format != "table" && format != "json" {
		return fmt.Errorf("unknown format %q (expected table or json)", format)
	}

	devices, err := a.discover(ctx)
	if err != nil {
		return err
	}

	var (
		diag   []aggregate.Result[diagnostics.Diagnostics]
		states []aggregate.Result[string]
	)
	label := fmt.Sprintf("Querying %d Sonos devices", len(devices))
	err = a.spin(ctx, label, func(ctx context.Context) error {
		t, err := a.table(ctx)
		if err != nil {
			return err
		}
		diag = aggregate.Run(ctx, discovery.IPs(devices), aggregate.Infallible(a.fetcher(t).Fetch))
		states = aggregate.Run(ctx, visibleCoordinators(devices), a.transportState)
		return nil
	})
	if err != nil {
		return err
	}

	for ip, err := range aggregate.Errors(states) {
		logging.Debug("Transport state unavailable", zap.String("device_ip", ip), zap.Error(err))
	}

	rows := report.BuildMap(devices, aggregate.ByAddr(diag), aggregate.ByAddr(states))
	if format == "json" {
		return a.report.MapJSON(rows)
	}
	a.report.Map(rows)
	return nil
}

func (a *app) transportState(ctx context.Context, ip string) (string, error) {
	c := zpclient.NewClient(ip)
	c.SetTimeout(a.cfg.RequestTimeoutDuration())
	return c.TransportState(ctx)
}

func visibleCoordinators(devices []*discovery.Device) []string {
	var ips []string
	for _, d := range devices {
		if d.Coordinator && d.Visible() {
			ips = append(ips, d.IP)
		}
	}
	return ips
}

// wifiStatusCmd ranks visible access points per player
var wifiStatusCmd = &cobra.Command{
	Use:   "wifi-status",
	Short: "Compare each player's access point with the strongest one it can see",
	Long: `For every zone player, list the access points from its last WiFi scan
ordered by signal strength, with known MAC addresses replaced by host names.
When the strongest access point is not the one in use, a NOT OPTIMAL line
suggests the change.`,
	Example: `  # All scan results
  zpnet wifi-status

  # Only the home network
  zpnet wifi-status --filter MyHomeSSID`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.runWiFiStatus(cmd.Context(), wifiFilter)
	},
}

func (a *app) runWiFiStatus(ctx context.Context, filter string) error {
	devices, err := a.discover(ctx)
	if err != nil {
		return err
	}

	var (
		scans map[string][]string
		diag  map[string]diagnostics.Diagnostics
		t     neighbor.Table
	)
	label := fmt.Sprintf("Scanning from %d Sonos devices", len(devices))
	err = a.spin(ctx, label, func(ctx context.Context) error {
		var err error
		if t, err = a.table(ctx); err != nil {
			return err
		}
		f := a.fetcher(t)
		ips := discovery.IPs(devices)
		scans = aggregate.ByAddr(aggregate.Run(ctx, ips, aggregate.Infallible(f.FetchScan)))
		diag = aggregate.ByAddr(aggregate.Run(ctx, ips, aggregate.Infallible(f.Fetch)))
		return nil
	})
	if err != nil {
		return err
	}

	for _, d := range devices {
		st := report.EvaluateWiFi(diag[d.IP].Network, scans[d.IP], filter, t)
		a.report.WiFiStatus(d.Name, st)
	}
	return nil
}

// wifiBlacklistCmd shows access points each player has blacklisted
var wifiBlacklistCmd = &cobra.Command{
	Use:   "wifi-blacklist",
	Short: "Show access points blacklisted by each player",
	Long: `Print the blacklist entries from each zone player's kernel log, with known
MAC addresses replaced by host names.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.runWiFiBlacklist(cmd.Context())
	},
}

func (a *app) runWiFiBlacklist(ctx context.Context) error {
	devices, err := a.discover(ctx)
	if err != nil {
		return err
	}

	var (
		lines map[string][]string
		t     neighbor.Table
	)
	label := fmt.Sprintf("Reading logs from %d Sonos devices", len(devices))
	err = a.spin(ctx, label, func(ctx context.Context) error {
		var err error
		if t, err = a.table(ctx); err != nil {
			return err
		}
		f := a.fetcher(t)
		lines = aggregate.ByAddr(aggregate.Run(ctx, discovery.IPs(devices), aggregate.Infallible(f.FetchBlacklist)))
		return nil
	})
	if err != nil {
		return err
	}

	for _, d := range devices {
		a.report.Blacklist(d.Name, lines[d.IP], t)
	}
	return nil
}

// rebootCmd reboots every player after a warning delay
var rebootCmd = &cobra.Command{
	Use:   "reboot",
	Short: "Reboot all zone players",
	Long: `Reboot every discovered zone player, one after another.

The players to be rebooted are listed first and nothing is sent until the
warning delay (5 seconds unless reboot_delay is configured) has passed.
Press ^C during the delay to abort.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return current.runReboot(ctx)
	},
}

func (a *app) runReboot(ctx context.Context) error {
	devices, err := a.discover(ctx)
	if err != nil {
		return err
	}

	delay := a.cfg.RebootDelayDuration()
	a.report.RebootWarning(discovery.Names(devices), delay)

	muted := a.printer.Styles().Muted
	err = ui.Countdown(ctx, delay, func(remaining time.Duration) {
		a.printer.Println(muted.Render(fmt.Sprintf("%d...", int(remaining.Round(time.Second)/time.Second))))
	})
	if err != nil {
		a.report.Aborted("Reboot")
		return ui.ErrInterrupted
	}

	var (
		failed   int
		firstErr error
	)
	for _, d := range devices {
		c := zpclient.NewClient(d.IP)
		c.SetTimeout(a.cfg.RequestTimeoutDuration())
		response, err := c.Reboot(ctx)
		a.report.RebootResult(d.Name, response, err)
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d players did not accept the reboot: %w", failed, len(devices), firstErr)
	}
	return nil
}
