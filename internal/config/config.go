package config

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/muurk/zpnet/internal/mac"
)

// CurrentVersion is the config schema version this build reads and writes.
const CurrentVersion = 1

// Defaults, in seconds
const (
	DefaultDiscoverTimeout = 5
	DefaultRequestTimeout  = 5
	DefaultRebootDelay     = 5
)

// Config represents the user configuration file.
type Config struct {
	Version         int               `yaml:"version"`
	DiscoverTimeout int               `yaml:"discover_timeout,omitempty"` // mDNS listen time in seconds
	RequestTimeout  int               `yaml:"request_timeout,omitempty"`  // Per-request timeout in seconds
	RebootDelay     int               `yaml:"reboot_delay,omitempty"`     // Warning delay before rebooting, seconds
	Interface       string            `yaml:"interface,omitempty"`        // Network interface for mDNS
	NeighborCache   string            `yaml:"neighbor_cache,omitempty"`   // Path of an ARP table in /proc/net/arp format
	Devices         []string          `yaml:"devices,omitempty"`          // Seed addresses, skip mDNS when set
	Hosts           map[string]string `yaml:"hosts,omitempty"`            // MAC address to host name overrides
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Version:         CurrentVersion,
		DiscoverTimeout: DefaultDiscoverTimeout,
		RequestTimeout:  DefaultRequestTimeout,
		RebootDelay:     DefaultRebootDelay,
		Hosts:           make(map[string]string),
	}
}

// applyDefaults fills in unset fields.
func (c *Config) applyDefaults() {
	if c.DiscoverTimeout == 0 {
		c.DiscoverTimeout = DefaultDiscoverTimeout
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.RebootDelay == 0 {
		c.RebootDelay = DefaultRebootDelay
	}
	if c.Hosts == nil {
		c.Hosts = make(map[string]string)
	}
}

// Validate checks the schema version, timeouts, seed addresses and host
// overrides.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion)
	}
	if c.DiscoverTimeout < 0 || c.RequestTimeout < 0 || c.RebootDelay < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	for _, d := range c.Devices {
		if _, err := netip.ParseAddr(d); err != nil {
			if _, err := netip.ParseAddrPort(d); err != nil {
				return fmt.Errorf("invalid device address %q", d)
			}
		}
	}
	if _, err := c.StaticHosts(); err != nil {
		return err
	}
	return nil
}

// DiscoverTimeoutDuration returns the discovery timeout
func (c *Config) DiscoverTimeoutDuration() time.Duration {
	return time.Duration(c.DiscoverTimeout) * time.Second
}

// RequestTimeoutDuration returns the per-request timeout
func (c *Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// RebootDelayDuration returns the reboot warning delay
func (c *Config) RebootDelayDuration() time.Duration {
	return time.Duration(c.RebootDelay) * time.Second
}

// StaticHosts parses the host overrides.
func (c *Config) StaticHosts() (map[mac.Addr]string, error) {
	hosts := make(map[mac.Addr]string, len(c.Hosts))
	for k, v := range c.Hosts {
		a, err := mac.Parse(k)
		if err != nil {
			return nil, fmt.Errorf("invalid host override %q: %w", k, err)
		}
		if v == "" {
			return nil, fmt.Errorf("host override %q has no name", k)
		}
		hosts[a] = v
	}
	return hosts, nil
}

// SetHost adds or replaces a host override. The MAC is stored in
// canonical form.
func (c *Config) SetHost(addr, host string) error {
	a, err := mac.Parse(addr)
	if err != nil {
		return err
	}
	if host == "" {
		return fmt.Errorf("host name must not be empty")
	}
	if c.Hosts == nil {
		c.Hosts = make(map[string]string)
	}
	for k := range c.Hosts {
		if other, err := mac.Parse(k); err == nil && other == a {
			delete(c.Hosts, k)
		}
	}
	c.Hosts[a.String()] = host
	return nil
}

// RemoveHost deletes a host override. It reports whether one existed.
func (c *Config) RemoveHost(addr string) (bool, error) {
	a, err := mac.Parse(addr)
	if err != nil {
		return false, err
	}
	removed := false
	for k := range c.Hosts {
		if other, err := mac.Parse(k); err == nil && other == a {
			delete(c.Hosts, k)
			removed = true
		}
	}
	return removed, nil
}
