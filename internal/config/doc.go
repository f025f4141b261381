// Package config provides user configuration management for zpnet.
//
// This package manages a YAML configuration file holding discovery and
// request timeouts, seed device addresses and MAC to host name overrides.
// Command line flags take precedence over the file.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/zpnet/config.yaml or $HOME/.config/zpnet/config.yaml
//   - macOS: $HOME/.config/zpnet/config.yaml
//   - Windows: %LOCALAPPDATA%\zpnet\config.yaml
//
// # Example
//
//	version: 1
//	discover_timeout: 5
//	interface: eth0
//	devices:
//	  - 192.168.1.20
//	hosts:
//	  "AA:BB:CC:00:00:01": office-ap
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.SetHost("aa:bb:cc:00:00:01", "office-ap"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Save(""); err != nil {
//	    log.Fatal(err)
//	}
package config
