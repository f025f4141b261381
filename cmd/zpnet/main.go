// Zpnet maps the network of a Sonos household.
//
// It discovers zone players, reads their undocumented debug pages on port
// 1400 and prints which access point or wired link each player uses, with
// signal quality, so that weak links in the mesh stand out. MAC addresses
// in device output are named from the local neighbor cache.
//
// Usage:
//
//	zpnet [command] [flags]
//
// See 'zpnet --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/zpnet/internal/config"
	"github.com/muurk/zpnet/internal/discovery"
	"github.com/muurk/zpnet/internal/logging"
	"github.com/muurk/zpnet/internal/ui"
	"github.com/muurk/zpnet/internal/version"
	"github.com/muurk/zpnet/internal/zpclient"
)

// exitInterrupted is the conventional status after SIGINT
const exitInterrupted = 130

// Global flags
var (
	deviceIPs     []string
	interfaceName string
	scanTimeout   int
	configPath    string
	logLevel      string
)

func main() {
	os.Exit(run())
}

func run() int {
	defer logging.Sync()

	err := rootCmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, discovery.ErrNoDevices):
		fmt.Println("No Sonos devices detected")
		return 1
	case errors.Is(err, ui.ErrInterrupted):
		return exitInterrupted
	default:
		printFailure(os.Stderr, err)
		return 1
	}
}

// printFailure renders err in an error box, with troubleshooting tips
// when a zone player caused it.
func printFailure(w io.Writer, err error) {
	ui.NewPrinter(w).PrintError(rootCmd.Name(), err, zpclient.GetTroubleshootingHint(err))
}

var rootCmd = &cobra.Command{
	Use:   "zpnet",
	Short: "Sonos mesh network diagnostics",
	Long: `Discover Sonos zone players and report how each one is connected.

The map shows every group coordinator with its members, the access point
(or wired link) and channel in use, signal strength, beacon and drop
counters and a fill score for the audio sink buffer.`,
	Version:           version.Short(),
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringSliceVar(&deviceIPs, "device", nil, "Zone player address, repeatable (skips mDNS discovery)")
	rootCmd.PersistentFlags().StringVar(&interfaceName, "interface", "", "Network interface for mDNS discovery")
	rootCmd.PersistentFlags().IntVar(&scanTimeout, "timeout", config.DefaultDiscoverTimeout, "Discovery timeout in seconds")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/zpnet/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default $"+logging.LogLevelEnvVar+" or silent)")

	rootCmd.AddCommand(versionCmd)
}

// setup initializes logging and loads the config, then applies flags
// given explicitly on the command line over it.
func setup(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("device") {
		cfg.Devices = deviceIPs
	}
	if flags.Changed("interface") {
		cfg.Interface = interfaceName
	}
	if flags.Changed("timeout") {
		if scanTimeout <= 0 {
			return fmt.Errorf("--timeout must be positive")
		}
		cfg.DiscoverTimeout = scanTimeout
	}

	current = newApp(cfg)
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}
